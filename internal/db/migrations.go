package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/terraincognita07/venus/internal/config"
	"github.com/terraincognita07/venus/internal/models"
	embeddedmigrations "github.com/terraincognita07/venus/migrations"
	"gorm.io/gorm"
)

var (
	scriptNamePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern  = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

// Migrate brings the schema of an open database up to date. SQLite replays the embedded
// scripts; MySQL is reconciled from the models because the scripts use SQLite syntax.
func Migrate(database *gorm.DB, driver string) error {
	switch driver {
	case config.DriverSQLite, "":
		return newScriptMigrator(embeddedmigrations.Files).run(database)
	case config.DriverMySQL:
		return database.AutoMigrate(schemaModels()...)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func schemaModels() []any {
	return []any{
		&models.User{},
		&models.Cycle{},
		&models.DiaryEntry{},
		&models.ChatMessage{},
	}
}

// migrationScript is one forward-only NNNN_name.sql file.
type migrationScript struct {
	version int
	name    string
	body    string
}

func (script migrationScript) key() string {
	return fmt.Sprintf("%04d", script.version)
}

// statements splits the script on semicolons after dropping whole-line comments.
func (script migrationScript) statements() []string {
	var body strings.Builder
	for _, line := range strings.Split(script.body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	statements := []string{}
	for _, part := range strings.Split(body.String(), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

type scriptMigrator struct {
	files fs.FS
}

func newScriptMigrator(files fs.FS) *scriptMigrator {
	return &scriptMigrator{files: files}
}

func (migrator *scriptMigrator) scripts() ([]migrationScript, error) {
	names, err := fs.Glob(migrator.files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	scripts := make([]migrationScript, 0, len(names))
	owners := make(map[int]string, len(names))
	for _, name := range names {
		matches := scriptNamePattern.FindStringSubmatch(name)
		if matches == nil {
			continue
		}
		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		if owner, taken := owners[version]; taken {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", version, owner, name)
		}
		owners[version] = name

		body, err := fs.ReadFile(migrator.files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		scripts = append(scripts, migrationScript{version: version, name: name, body: string(body)})
	}

	slices.SortFunc(scripts, func(a, b migrationScript) int { return a.version - b.version })
	return scripts, nil
}

func (migrator *scriptMigrator) run(database *gorm.DB) error {
	if err := database.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	scripts, err := migrator.scripts()
	if err != nil {
		return err
	}

	var applied []string
	if err := database.Table("schema_migrations").Pluck("version", &applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	for _, script := range scripts {
		if slices.Contains(applied, script.key()) {
			continue
		}
		if err := database.Transaction(func(tx *gorm.DB) error {
			return applyScript(tx, script)
		}); err != nil {
			return err
		}
	}
	return nil
}

func applyScript(tx *gorm.DB, script migrationScript) error {
	statements := script.statements()
	if len(statements) == 0 {
		return fmt.Errorf("migration %s: %w", script.name, errEmptyMigration)
	}

	for _, statement := range statements {
		present, err := columnAlreadyAdded(tx, statement)
		if err != nil {
			return fmt.Errorf("inspect migration %s: %w", script.name, err)
		}
		if present {
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("execute migration %s statement %q: %w", script.name, statement, err)
		}
	}

	if err := tx.Exec(
		`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
		script.key(),
		script.name,
	).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", script.name, err)
	}
	return nil
}

var errEmptyMigration = errors.New("migration has no SQL statements")

// columnAlreadyAdded lets ADD COLUMN scripts run against databases that already carry the column.
func columnAlreadyAdded(tx *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}
	return tableColumnExists(tx, unquoteIdentifier(matches[1]), unquoteIdentifier(matches[2]))
}

func tableColumnExists(database *gorm.DB, table string, column string) (bool, error) {
	var names []string
	query := fmt.Sprintf(`SELECT name FROM pragma_table_info('%s')`, strings.ReplaceAll(table, `'`, `''`))
	if err := database.Raw(query).Scan(&names).Error; err != nil {
		return false, fmt.Errorf("load columns of %s: %w", table, err)
	}
	return slices.ContainsFunc(names, func(name string) bool {
		return strings.EqualFold(name, column)
	}), nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
