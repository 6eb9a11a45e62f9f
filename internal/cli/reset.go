package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/vantahq/pulseboard/internal/auth"
	"github.com/vantahq/pulseboard/internal/db"
	"github.com/vantahq/pulseboard/internal/models"
	"github.com/vantahq/pulseboard/internal/security"
	"gorm.io/gorm"
)

// RunResetPasswordCommand sets a new password for the given account.
// With generate set a temporary password is minted and printed,
// otherwise the operator is prompted on the terminal.
func RunResetPasswordCommand(dbPath string, email string, generate bool) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	var user models.User
	if err := database.Where("email = ?", normalizedEmail).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	var password string
	if generate {
		password, err = generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
	} else {
		password, err = promptNewPassword(os.Stdin)
		if err != nil {
			return err
		}
		if err := auth.ValidatePasswordStrength(password); err != nil {
			return err
		}
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	if err := database.Save(&user).Error; err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Println("Password reset successful")
	if generate {
		fmt.Printf("Temporary password: %s\n", password)
		fmt.Println("Share it over a secure channel and ask the user to change it.")
	}
	return nil
}

func promptNewPassword(stdin *os.File) (string, error) {
	fmt.Print("New password: ")
	first, err := readPasswordNoEcho(stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Repeat password: ")
	second, err := readPasswordNoEcho(stdin)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < 12 {
		length = 12
	}

	// Ambiguous characters are left out so the value survives being read
	// aloud or retyped.
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	return security.RandomString(length, alphabet)
}
