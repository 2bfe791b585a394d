package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/models"
	"github.com/terraincognita07/venus/internal/services"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is the YAML document accepted by the seed command.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
}

type FixtureUser struct {
	Email        string         `yaml:"email"`
	Password     string         `yaml:"password"`
	DisplayName  string         `yaml:"display_name"`
	CycleLength  int            `yaml:"cycle_length"`
	PeriodLength int            `yaml:"period_length"`
	Cycles       []FixtureCycle `yaml:"cycles"`
	Diary        []FixtureDiary `yaml:"diary"`
}

type FixtureCycle struct {
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

type FixtureDiary struct {
	Date     string   `yaml:"date"`
	Mood     string   `yaml:"mood"`
	Symptoms []string `yaml:"symptoms"`
	Notes    string   `yaml:"notes"`
}

type SeedReport struct {
	UsersCreated   int
	UsersExisting  int
	CyclesCreated  int
	CyclesSkipped  int
	EntriesCreated int
	EntriesSkipped int
}

func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (Fixture, error) {
	fixture := Fixture{}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if len(fixture.Users) == 0 {
		return Fixture{}, errors.New("fixture has no users")
	}
	return fixture, nil
}

// RunSeedCommand loads fixture records through the same services the API uses. Existing users are
// reused. Cycles that overlap and diary entries for taken dates are skipped and reported.
func RunSeedCommand(database *gorm.DB, fixture Fixture, out io.Writer) (SeedReport, error) {
	repositories := db.NewRepositories(database)
	authService := services.NewAuthService(repositories.Users)
	settingsService := services.NewSettingsService(repositories.Users)
	cycleService := services.NewCycleService(repositories.Cycles, nil)
	diaryService := services.NewDiaryService(repositories.Diary, nil)

	report := SeedReport{}
	for _, fixtureUser := range fixture.Users {
		user, created, err := seedUser(authService, fixtureUser)
		if err != nil {
			return report, err
		}
		if created {
			report.UsersCreated++
		} else {
			report.UsersExisting++
		}

		if fixtureUser.CycleLength != 0 || fixtureUser.PeriodLength != 0 {
			cycleLength := valueOrDefault(fixtureUser.CycleLength, models.DefaultCycleLength)
			periodLength := valueOrDefault(fixtureUser.PeriodLength, models.DefaultPeriodLength)
			if _, err := settingsService.CompleteOnboarding(user.ID, services.OnboardingInput{
				DisplayName:  fixtureUser.DisplayName,
				CycleLength:  cycleLength,
				PeriodLength: periodLength,
			}); err != nil {
				return report, fmt.Errorf("settings for %s: %w", user.Email, err)
			}
			user.PeriodLength = periodLength
		}
		periodLength := services.CycleSettingsForUser(user).PeriodLength

		for _, fixtureCycle := range fixtureUser.Cycles {
			input, err := fixtureCycle.toInput()
			if err != nil {
				return report, fmt.Errorf("cycle %q for %s: %w", fixtureCycle.StartDate, user.Email, err)
			}
			_, err = cycleService.Create(user.ID, input, periodLength)
			if errors.Is(err, services.ErrCycleOverlap) {
				report.CyclesSkipped++
				fmt.Fprintf(out, "skipped overlapping cycle %s for %s\n", fixtureCycle.StartDate, user.Email)
				continue
			}
			if err != nil {
				return report, fmt.Errorf("cycle %q for %s: %w", fixtureCycle.StartDate, user.Email, err)
			}
			report.CyclesCreated++
		}

		for _, fixtureEntry := range fixtureUser.Diary {
			day, err := services.ParseDay(fixtureEntry.Date)
			if err != nil {
				return report, fmt.Errorf("diary %q for %s: %w", fixtureEntry.Date, user.Email, err)
			}
			_, err = diaryService.Create(user.ID, services.DiaryInput{
				Date:     day,
				Mood:     fixtureEntry.Mood,
				Symptoms: fixtureEntry.Symptoms,
				Notes:    fixtureEntry.Notes,
			})
			if errors.Is(err, services.ErrDiaryDateTaken) {
				report.EntriesSkipped++
				fmt.Fprintf(out, "skipped diary entry %s for %s: date taken\n", fixtureEntry.Date, user.Email)
				continue
			}
			if err != nil {
				return report, fmt.Errorf("diary %q for %s: %w", fixtureEntry.Date, user.Email, err)
			}
			report.EntriesCreated++
		}
	}

	fmt.Fprintf(out, "Seeded %d new users (%d existing), %d cycles (%d skipped), %d diary entries (%d skipped)\n",
		report.UsersCreated, report.UsersExisting,
		report.CyclesCreated, report.CyclesSkipped,
		report.EntriesCreated, report.EntriesSkipped)
	return report, nil
}

func seedUser(authService *services.AuthService, fixtureUser FixtureUser) (models.User, bool, error) {
	existing, err := authService.FindByEmail(fixtureUser.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, services.ErrAuthUserNotFound) {
		return models.User{}, false, fmt.Errorf("load user %s: %w", fixtureUser.Email, err)
	}

	user, err := authService.Register(services.RegistrationInput{
		Email:       fixtureUser.Email,
		Password:    fixtureUser.Password,
		DisplayName: fixtureUser.DisplayName,
	}, time.Now())
	if err != nil {
		return models.User{}, false, fmt.Errorf("create user %s: %w", fixtureUser.Email, err)
	}
	return user, true, nil
}

func (cycle FixtureCycle) toInput() (services.CycleInput, error) {
	start, err := services.ParseDay(cycle.StartDate)
	if err != nil {
		return services.CycleInput{}, err
	}
	input := services.CycleInput{StartDate: start}
	if cycle.EndDate != "" {
		end, err := services.ParseDay(cycle.EndDate)
		if err != nil {
			return services.CycleInput{}, err
		}
		input.EndDate = end
	}
	return input, nil
}

func valueOrDefault(value int, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}
