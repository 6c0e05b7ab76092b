// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/export"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

var accessCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("asset_kind", validateAssetKind)
	_ = v.RegisterValidation("plan_type", validatePlanType)
	_ = v.RegisterValidation("notification_type", validateNotificationType)
	_ = v.RegisterValidation("access_code", validateAccessCode)
	_ = v.RegisterValidation("export_format", validateExportFormat)
}

func validateAssetKind(fl validator.FieldLevel) bool {
	return models.AssetKind(fl.Field().String()).Valid()
}

func validatePlanType(fl validator.FieldLevel) bool {
	switch models.PlanType(fl.Field().String()) {
	case models.PlanNormal, models.PlanPremium:
		return true
	}
	return false
}

func validateNotificationType(fl validator.FieldLevel) bool {
	switch models.NotificationType(fl.Field().String()) {
	case models.NotificationAvailability, models.NotificationPriceVariation:
		return true
	}
	return false
}

func validateAccessCode(fl validator.FieldLevel) bool {
	return accessCodeRegex.MatchString(fl.Field().String())
}

func validateExportFormat(fl validator.FieldLevel) bool {
	_, err := export.ParseFormat(fl.Field().String())
	return err == nil
}
