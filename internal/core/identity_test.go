package core

import "testing"

func TestProviderProfileFirstLast(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"first and last", "Somchai Jaidee", "Somchai", "Jaidee"},
		{"single name", "Somchai", "Somchai", ""},
		{"empty name", "", "", ""},
		{"three parts", "Mali Suk Dee", "Mali", "Suk Dee"},
		{"surrounding whitespace", "  Mali Suk  ", "Mali", "Suk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProviderProfile{Name: tt.input}
			first, last := p.FirstLast()
			if first != tt.wantFirst {
				t.Errorf("first = %q, want %q", first, tt.wantFirst)
			}
			if last != tt.wantLast {
				t.Errorf("last = %q, want %q", last, tt.wantLast)
			}
		})
	}
}

func TestProviderProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile ProviderProfile
		wantErr bool
	}{
		{"valid", ProviderProfile{Name: "Mali Suk", Email: "mali@x.com"}, false},
		{"email only", ProviderProfile{Email: "mali@x.com"}, false},
		{"missing email", ProviderProfile{Name: "Mali Suk"}, true},
		{"whitespace email", ProviderProfile{Name: "Mali Suk", Email: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
