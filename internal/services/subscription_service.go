package services

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/notification"
)

// subscriptionService keeps one-shot notification registrations keyed by
// (asset, type). Delivered subscriptions are deleted.
type subscriptionService struct {
	db          *gorm.DB
	credentials CredentialServicer
	notifier    notification.Notifier
}

// NewSubscriptionService creates a new SubscriptionServicer.
func NewSubscriptionService(db *gorm.DB, credentials CredentialServicer, notifier notification.Notifier) SubscriptionServicer {
	return &subscriptionService{db: db, credentials: credentials, notifier: notifier}
}

// Subscribe registers a client for the next kind event on an asset.
// PRICE_VARIATION requires a premium plan.
func (s *subscriptionService) Subscribe(clientID, accessCode, assetID string, kind models.NotificationType) (*models.Subscription, error) {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.NotificationAvailability:
	case models.NotificationPriceVariation:
		if !client.IsPremium() {
			return nil, apperrors.ErrClientNotPremium
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unknown notification type %q", kind))
	}

	asset, err := findAsset(s.db, assetID)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{ClientID: client.ID, AssetID: asset.ID, Type: kind}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Subscription{}).
			Where("client_id = ? AND asset_id = ? AND type = ?", client.ID, asset.ID, kind).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.WithMessage(apperrors.ErrAlreadySubscribed,
				fmt.Sprintf("Client is already subscribed to %s notifications for %s", kind, asset.Name))
		}
		if err := tx.Create(sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.WithMessage(apperrors.ErrAlreadySubscribed,
					fmt.Sprintf("Client is already subscribed to %s notifications for %s", kind, asset.Name))
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sub.Asset = *asset
	return sub, nil
}

// Claim deletes every (asset, kind) subscription inside tx and returns the
// ones this call removed, with their clients. A subscription already removed
// by a concurrent claim is skipped so each one is delivered at most once. A
// subscription whose client no longer exists aborts the claim.
func (s *subscriptionService) Claim(tx *gorm.DB, assetID string, kind models.NotificationType) ([]Subscriber, error) {
	var subs []models.Subscription
	if err := tx.Where("asset_id = ? AND type = ?", assetID, kind).Order("created_at").Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(subs) == 0 {
		return nil, nil
	}

	var clients []models.Client
	clientIDs := lo.Uniq(lo.Map(subs, func(sub models.Subscription, _ int) string { return sub.ClientID }))
	if err := tx.Where("id IN ?", clientIDs).Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	byID := lo.KeyBy(clients, func(c models.Client) string { return c.ID })

	claimed := make([]Subscriber, 0, len(subs))
	for _, sub := range subs {
		client, ok := byID[sub.ClientID]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrClientNotFound,
				fmt.Sprintf("Subscriber %s of asset %s no longer exists", sub.ClientID, assetID))
		}

		res := tx.Delete(&models.Subscription{}, "id = ?", sub.ID)
		if res.Error != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		claimed = append(claimed, Subscriber{Subscription: sub, Client: client})
	}
	return claimed, nil
}

// Deliver hands one message per claimed subscriber to the notifier.
func (s *subscriptionService) Deliver(subscribers []Subscriber, kind models.NotificationType, text string) {
	for _, sub := range subscribers {
		s.notifier.Deliver(notification.Message{
			ClientID:    sub.Client.ID,
			ClientEmail: sub.Client.Email,
			AssetID:     sub.Subscription.AssetID,
			Kind:        notification.Kind(kind),
			Text:        text,
		})
	}
}

// ListClientSubscriptions returns the client's pending subscriptions.
func (s *subscriptionService) ListClientSubscriptions(clientID, accessCode string) ([]models.Subscription, error) {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return nil, err
	}

	var subs []models.Subscription
	if err := s.db.Preload("Asset.AssetType").Where("client_id = ?", client.ID).
		Order("created_at").Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// Unsubscribe removes one of the client's pending subscriptions.
func (s *subscriptionService) Unsubscribe(clientID, accessCode, subscriptionID string) error {
	client, err := s.credentials.ValidateClientAccess(clientID, accessCode)
	if err != nil {
		return err
	}

	var sub models.Subscription
	if err := s.db.Where("id = ? AND client_id = ?", subscriptionID, client.ID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(&sub).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
