package domain

import (
	"context"
	"time"
)

// BankAccount is the studio's transfer account shown at checkout.
type BankAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	Holder        string `json:"holder"`
}

// Studio is the singleton studio profile.
type Studio struct {
	NameI18n  I18n
	BioI18n   I18n
	Address   string
	MapURL    string
	Phone     string
	Email     string
	SNS       map[string]string
	Hours     I18n
	Bank      BankAccount
	UpdatedAt time.Time
}

// StudioRepository reads and writes the singleton studio profile.
type StudioRepository interface {
	Get(ctx context.Context) (*Studio, error)
	Update(ctx context.Context, s *Studio) (*Studio, error)
}
