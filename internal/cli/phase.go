package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/i18n"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

// RunPhaseCommand prints where the user is in their cycle on the clock's current day.
func RunPhaseCommand(database *gorm.DB, email string, clock services.Clock, out io.Writer) error {
	normalizedEmail, err := validateEmailArgument(email)
	if err != nil {
		return err
	}

	repositories := db.NewRepositories(database)
	user, err := services.NewAuthService(repositories.Users).FindByEmail(normalizedEmail)
	if errors.Is(err, services.ErrAuthUserNotFound) {
		return fmt.Errorf("user %s not found", normalizedEmail)
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	overview, err := services.NewOverviewService(repositories.Cycles, repositories.Diary, clock).Overview(user)
	if err != nil {
		return err
	}

	catalog, err := i18n.NewManager(user.Language)
	if err != nil {
		return err
	}

	info := overview.PhaseInfo
	fmt.Fprintf(out, "Today:            %s\n", overview.Today)
	fmt.Fprintf(out, "Phase:            %s\n", info.Phase)
	fmt.Fprintf(out, "                  %s\n", catalog.Translate(user.Language, info.Description))
	fmt.Fprintf(out, "Cycle day:        %d\n", info.CycleDay)
	if overview.NextPeriodDate == "" {
		fmt.Fprintln(out, "Next period:      unknown (no cycles recorded)")
		return nil
	}
	fmt.Fprintf(out, "Next period:      %s (in %d days)\n", overview.NextPeriodDate, info.DaysUntilNextPeriod)
	fmt.Fprintf(out, "Ovulation:        %s\n", overview.OvulationDate)
	return nil
}
