package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/KerlosDev/HossamBackk/backend/models"

	"gorm.io/gorm"
)

// ErrWalletValidation marks user-correctable wallet configuration errors.
var ErrWalletValidation = errors.New("wallet validation failed")

// Egyptian mobile numbers: 01 followed by 9 digits.
var walletPhoneRegex = regexp.MustCompile(`^01[0-9]{9}$`)

// GetWalletSettings loads the singleton settings row under its fixed key,
// creating it with defaults on first access.
func GetWalletSettings(db *gorm.DB) (*models.WalletSettings, error) {
	var settings models.WalletSettings
	err := db.Where("name = ?", models.WalletSettingsKey).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.WalletSettings{
		Name:        models.WalletSettingsKey,
		Wallets:     models.DefaultWallets(),
		LastUpdated: time.Now(),
	}
	if createErr := db.Create(&settings).Error; createErr != nil {
		// Concurrent first access created the row; read it back.
		if db.Where("name = ?", models.WalletSettingsKey).First(&settings).Error == nil {
			return &settings, nil
		}
		return nil, createErr
	}
	return &settings, nil
}

// UpdateWalletSettings validates and persists the wallet configuration.
// At least one wallet must be enabled, and every enabled wallet needs a
// valid phone number.
func UpdateWalletSettings(db *gorm.DB, wallets models.WalletMap) (*models.WalletSettings, error) {
	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w: wallet data is required", ErrWalletValidation)
	}

	enabled := 0
	for name, wallet := range wallets {
		if !wallet.Enabled {
			continue
		}
		enabled++
		if wallet.Phone == "" {
			return nil, fmt.Errorf("%w: phone number is required for enabled wallet: %s", ErrWalletValidation, name)
		}
		if !walletPhoneRegex.MatchString(wallet.Phone) {
			return nil, fmt.Errorf("%w: invalid phone number format for %s", ErrWalletValidation, name)
		}
	}
	if enabled == 0 {
		return nil, fmt.Errorf("%w: at least one wallet must be enabled", ErrWalletValidation)
	}

	settings, err := GetWalletSettings(db)
	if err != nil {
		return nil, err
	}

	settings.Wallets = wallets
	settings.LastUpdated = time.Now()
	if err := db.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
