package core

import "testing"

func TestSettingsUpdateValidate(t *testing.T) {
	pct := func(v float64) *float64 { return &v }
	avatar := "https://example.com/a.png"

	tests := []struct {
		name    string
		update  SettingsUpdate
		wantErr error
	}{
		{"savings only", SettingsUpdate{SavingsPercentage: pct(35)}, nil},
		{"avatar only", SettingsUpdate{Avatar: &avatar}, nil},
		{"zero percent", SettingsUpdate{SavingsPercentage: pct(0)}, nil},
		{"hundred percent", SettingsUpdate{SavingsPercentage: pct(100)}, nil},
		{"empty update", SettingsUpdate{}, ErrEmptyUpdate},
		{"negative percent", SettingsUpdate{SavingsPercentage: pct(-1)}, ErrInvalidSavingsPercent},
		{"over hundred", SettingsUpdate{SavingsPercentage: pct(101)}, ErrInvalidSavingsPercent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.update.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionTypeValid(t *testing.T) {
	if !Income.Valid() || !Expense.Valid() {
		t.Error("income and expense must be valid types")
	}
	if TransactionType("transfer").Valid() {
		t.Error("unknown type must not be valid")
	}
}

func TestBackendUserDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user BackendUser
		want string
	}{
		{"full name", BackendUser{FirstName: "Mali", LastName: "Suk", Email: "mali@x.com"}, "Mali Suk"},
		{"first only", BackendUser{FirstName: "Mali", Email: "mali@x.com"}, "Mali"},
		{"no name", BackendUser{Email: "mali@x.com"}, "mali@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
