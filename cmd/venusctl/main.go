package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/venus/internal/cli"
	"github.com/terraincognita07/venus/internal/config"
	"github.com/terraincognita07/venus/internal/db"
	"github.com/terraincognita07/venus/internal/logger"
	"github.com/terraincognita07/venus/internal/services"
	"gorm.io/gorm"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
)

type rootOptions struct {
	dbPath string
}

func newRootCmd() *cobra.Command {
	options := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "venusctl",
		Short:         "Venus operator commands",
		Long:          "venusctl seeds, inspects and administers a Venus database.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&options.dbPath, "db-path", "", "sqlite database path (overrides DB_PATH and forces the sqlite driver)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSeedCmd(options))
	cmd.AddCommand(newInspectCmd(options))
	cmd.AddCommand(newUserCmd(options))
	cmd.AddCommand(newResetPasswordCmd(options))
	cmd.AddCommand(newPhaseCmd(options))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "venusctl %s (commit: %s)\n", Version, Commit)
		},
	}
}

func newSeedCmd(options *rootOptions) *cobra.Command {
	var fixturePath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, cycles and diary entries from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := cli.LoadFixture(fixturePath)
			if err != nil {
				return err
			}
			database, err := options.open()
			if err != nil {
				return err
			}
			_, err = cli.RunSeedCommand(database, fixture, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&fixturePath, "file", "f", "", "path to the YAML fixture")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newInspectCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print row counts for every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := options.open()
			if err != nil {
				return err
			}
			return cli.RunInspectCommand(database, cmd.OutOrStdout())
		},
	}
}

func newUserCmd(options *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var email, displayName string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account, reading the password from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := cli.ReadPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			database, err := options.open()
			if err != nil {
				return err
			}
			return cli.RunCreateUserCommand(database, email, password, displayName, cmd.OutOrStdout())
		},
	}
	create.Flags().StringVar(&email, "email", "", "account email")
	create.Flags().StringVar(&displayName, "name", "", "display name")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}

func newResetPasswordCmd(options *rootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace an account password with a temporary one",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := options.open()
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(database, email, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newPhaseCmd(options *rootOptions) *cobra.Command {
	var email, day string

	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Print the current cycle phase of an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var clock services.Clock = services.SystemClock{Location: time.Local}
			if day != "" {
				parsed, err := services.ParseDay(day)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", day, err)
				}
				clock = services.FixedClock(parsed)
			}
			database, err := options.open()
			if err != nil {
				return err
			}
			return cli.RunPhaseCommand(database, email, clock, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&day, "date", "", "evaluate as of this YYYY-MM-DD instead of today")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (options *rootOptions) open() (*gorm.DB, error) {
	log := logger.Discard()
	if options.dbPath != "" {
		return db.OpenSQLite(options.dbPath, log)
	}

	databaseConfig, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	return db.Open(databaseConfig, log)
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
