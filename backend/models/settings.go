package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletSettingsKey is the fixed name of the single settings row. Lookups
// always go through this key, never "whichever row happens to exist".
const WalletSettingsKey = "wallets"

type WalletConfig struct {
	Phone   string `json:"phone"`
	Enabled bool   `json:"enabled"`
}

type WalletMap map[string]WalletConfig

// WalletSettings is the singleton payment configuration document.
type WalletSettings struct {
	gorm.Model
	Name        string    `gorm:"uniqueIndex;not null" json:"-"`
	Wallets     WalletMap `gorm:"serializer:json" json:"wallets"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// DefaultWallets returns the wallet set a fresh settings row starts with.
func DefaultWallets() WalletMap {
	return WalletMap{
		"vodafone": {},
		"orange":   {},
		"etisalat": {},
		"instapay": {},
	}
}
