package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"meetbook/config"
	"net"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationSource = "file://migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

// migration runs one direction against an open migrate instance.
type migration struct {
	run     func(mig *migrate.Migrate) error
	message string
}

var migrations = map[string]migration{
	"up": {
		run:     (*migrate.Migrate).Up,
		message: "Database migrations completed successfully",
	},
	"step-up": {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(1) },
		message: "Database migration step applied successfully",
	},
	"down": {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(-1) },
		message: "Database migration rolled back successfully",
	},
	"drop": {
		run:     (*migrate.Migrate).Down,
		message: "Database migrations rolled back successfully",
	},
}

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// ConnectionString builds the write database url, naming the migration table when one is set.
func ConnectionString(config *config.Config) string {
	write := config.DB.Postgres.Write

	connectionString := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		write.Username,
		write.Password,
		net.JoinHostPort(write.Host, write.Port),
		getDBName(config, write.Name),
		write.SSLMode,
	)

	if table := config.DB.Postgres.MigrationTable; table != "" {
		connectionString += "&x-migrations-table=" + table
	}

	return connectionString
}

func Runner(config *config.Config, action string) error {
	step, ok := migrations[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err = step.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg(step.message)

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, "up")
}

func StepUp(config *config.Config) error {
	return Runner(config, "step-up")
}

func Down(config *config.Config) error {
	return Runner(config, "down")
}

func Drop(config *config.Config) error {
	return Runner(config, "drop")
}
