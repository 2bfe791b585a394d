package services

import (
	"errors"
	"fmt"
)

var ErrSignupsClosed = errors.New("signups are closed")

type SetupUserRepository interface {
	CountUsers() (int64, error)
}

// SetupService decides whether new accounts may register. The first account can always be
// created so a fresh install with ALLOW_SIGNUPS=false is still usable.
type SetupService struct {
	users        SetupUserRepository
	allowSignups bool
}

func NewSetupService(users SetupUserRepository, allowSignups bool) *SetupService {
	return &SetupService{users: users, allowSignups: allowSignups}
}

func (service *SetupService) RequiresInitialSetup() (bool, error) {
	usersCount, err := service.users.CountUsers()
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return usersCount == 0, nil
}

func (service *SetupService) EnsureSignupsOpen() error {
	if service.allowSignups {
		return nil
	}
	initial, err := service.RequiresInitialSetup()
	if err != nil {
		return err
	}
	if !initial {
		return ErrSignupsClosed
	}
	return nil
}
