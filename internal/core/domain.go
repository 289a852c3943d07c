package core

import (
	"errors"
	"strings"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// BackendUser is the account record the backend returns at login.
	// It is a point-in-time snapshot; the authoritative copy lives on
	// the backend.
	BackendUser struct {
		ID            int64   `json:"id"`
		Email         string  `json:"email"`
		FirstName     string  `json:"first_name"`
		LastName      string  `json:"last_name"`
		Avatar        *string `json:"avatar"`
		IsGoogleLogin bool    `json:"is_google_login"`
		CreatedAt     string  `json:"created_at"`
		UpdatedAt     string  `json:"updated_at"`
	}

	// ProfileSettings is the editable slice of the account.
	ProfileSettings struct {
		ID                int64   `json:"id"`
		Email             string  `json:"email"`
		FirstName         string  `json:"first_name"`
		LastName          string  `json:"last_name"`
		Avatar            string  `json:"avatar"`
		SavingsPercentage float64 `json:"savings_percentage"`
	}

	// SettingsUpdate is a partial update of ProfileSettings.
	SettingsUpdate struct {
		SavingsPercentage *float64 `json:"savings_percentage,omitempty"`
		Avatar            *string  `json:"avatar,omitempty"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		Type        TransactionType `json:"type"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        string          `json:"date"`
	}
)

var (
	ErrEmptyUpdate           = errors.New("settings update has no fields")
	ErrInvalidSavingsPercent = errors.New("savings percentage must be between 0 and 100")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (u SettingsUpdate) Validate() error {
	if u.SavingsPercentage == nil && u.Avatar == nil {
		return ErrEmptyUpdate
	}
	if u.SavingsPercentage != nil {
		if *u.SavingsPercentage < 0 || *u.SavingsPercentage > 100 {
			return ErrInvalidSavingsPercent
		}
	}
	return nil
}

// DisplayName renders the user's full name for terminal output.
func (u BackendUser) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
