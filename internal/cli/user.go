package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

func RunCreateUserCommand(database *gorm.DB, email string, password string, displayName string, out io.Writer) error {
	normalizedEmail, err := validateEmailArgument(email)
	if err != nil {
		return err
	}

	authService := services.NewAuthService(db.NewRepositories(database).Users)
	user, err := authService.Register(services.RegistrationInput{
		Email:       normalizedEmail,
		Password:    password,
		DisplayName: displayName,
	}, time.Now())
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(out, "Created user %s (id %d)\n", user.Email, user.ID)
	return nil
}
