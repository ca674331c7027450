package controllers

import (
	"errors"

	"github.com/KerlosDev/HossamBackk/backend/config"
	"github.com/KerlosDev/HossamBackk/backend/models"
	"github.com/KerlosDev/HossamBackk/backend/services"
	"github.com/KerlosDev/HossamBackk/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSettingsController(db *gorm.DB, cfg *config.Config) *SettingsController {
	return &SettingsController{DB: db, Cfg: cfg}
}

// GetWalletSettings возвращает настройки кошельков (создает запись при
// первом обращении)
func (sc *SettingsController) GetWalletSettings(c *fiber.Ctx) error {
	settings, err := services.GetWalletSettings(sc.DB)
	if err != nil {
		return utils.InternalServerError(c, "Error getting wallet settings", err)
	}

	return utils.Success(c, fiber.Map{"wallets": settings.Wallets})
}

type updateWalletsInput struct {
	Wallets models.WalletMap `json:"wallets"`
}

// UpdateWalletSettings обновляет настройки кошельков (только админ)
func (sc *SettingsController) UpdateWalletSettings(c *fiber.Ctx) error {
	var input updateWalletsInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Wallet data is required")
	}

	settings, err := services.UpdateWalletSettings(sc.DB, input.Wallets)
	if err != nil {
		if errors.Is(err, services.ErrWalletValidation) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Error updating wallet settings", err)
	}

	return utils.SuccessMessage(c, "Wallet settings updated successfully", fiber.Map{
		"wallets": settings.Wallets,
	})
}
