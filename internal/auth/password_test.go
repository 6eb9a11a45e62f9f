package auth

import (
	"errors"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"strong", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"no upper case", "sup3rsecret", true},
		{"no lower case", "SUP3RSECRET", true},
		{"no digit", "SuperSecret", true},
		{"empty", "", true},
		{"unicode counts runes", "Pässw0rd", false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			err := ValidatePasswordStrength(testCase.password)
			if testCase.wantErr && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("ValidatePasswordStrength(%q) = %v, want ErrWeakPassword", testCase.password, err)
			}
			if !testCase.wantErr && err != nil {
				t.Fatalf("ValidatePasswordStrength(%q) = %v, want nil", testCase.password, err)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Sup3rSecret" {
		t.Fatalf("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "Sup3rSecret") {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword(hash, "wrong-password") {
		t.Fatalf("expected mismatch to fail verification")
	}
}
