package services

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/export"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/pagination"
)

// reportService merges purchases and withdraws into one history.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// History returns one page of the client's unified history, newest first.
func (s *reportService) History(clientID string, filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.HistoryEntry], error) {
	entries, err := s.entries(clientID, filter)
	if err != nil {
		return nil, err
	}
	result := pagination.Slice(entries, page)
	return &result, nil
}

// Export renders the whole filtered history as a file.
func (s *reportService) Export(clientID string, filter HistoryFilter, format export.Format) (*export.File, error) {
	entries, err := s.entries(clientID, filter)
	if err != nil {
		return nil, err
	}
	return export.Render(entries, format, time.Now())
}

func (s *reportService) entries(clientID string, filter HistoryFilter) ([]models.HistoryEntry, error) {
	walletID, err := clientWalletID(s.db, clientID)
	if err != nil {
		return nil, err
	}

	var purchases []models.Purchase
	if err := s.db.Preload("Asset.AssetType").Where("wallet_id = ?", walletID).
		Scopes(historyScope(s.db, filter)).Find(&purchases).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var withdraws []models.Withdraw
	if err := s.db.Preload("Asset.AssetType").Where("wallet_id = ?", walletID).
		Scopes(historyScope(s.db, filter)).Find(&withdraws).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := append(
		lo.Map(purchases, func(p models.Purchase, _ int) models.HistoryEntry { return models.NewPurchaseEntry(p) }),
		lo.Map(withdraws, func(w models.Withdraw, _ int) models.HistoryEntry { return models.NewWithdrawEntry(w) })...,
	)
	slices.SortStableFunc(entries, func(a, b models.HistoryEntry) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})
	return entries, nil
}
