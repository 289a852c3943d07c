package core

import (
	"errors"
	"strings"
)

// ProviderProfile holds the identity attributes asserted by the OAuth
// provider. Distinct from BackendUser: the provider authenticates the
// person, the backend owns the account.
type ProviderProfile struct {
	Name      string
	Email     string
	AvatarURL string
}

var ErrMissingEmail = errors.New("provider identity has no email")

func (p ProviderProfile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// FirstLast splits the provider display name on the first space: the
// first token becomes the first name, the remainder the last name.
// Both default to empty strings.
func (p ProviderProfile) FirstLast() (first, last string) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}
