package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

// RunResetPasswordCommand replaces the user's password with a generated one and prints it.
func RunResetPasswordCommand(database *gorm.DB, email string, out io.Writer) error {
	normalizedEmail, err := validateEmailArgument(email)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(db.NewRepositories(database).Users)
	temporaryPassword, err := authService.ResetPassword(normalizedEmail)
	if errors.Is(err, services.ErrAuthUserNotFound) {
		return fmt.Errorf("user %s not found", normalizedEmail)
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "The user must change it after signing in.")
	return nil
}

func validateEmailArgument(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", errors.New("email is required")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("invalid email address: %w", err)
	}
	return services.NormalizeAuthEmail(trimmed), nil
}
