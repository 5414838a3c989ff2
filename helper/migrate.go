package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"hotel/config"
	"hotel/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	migrationSource = "file://migrations/postgres"

	ActionUp      = "up"
	ActionDown    = "down"
	ActionDrop    = "drop"
	ActionStepUp  = "step-up"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

type action struct {
	run     func(mig *migrate.Migrate) error
	success string
}

var actions = map[string]action{
	ActionUp: {
		run:     func(mig *migrate.Migrate) error { return mig.Up() },
		success: "Database migrations completed successfully",
	},
	ActionStepUp: {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(1) },
		success: "Database migrated one step up",
	},
	ActionDown: {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(-1) },
		success: "Database migrations rolled back one step",
	},
	ActionDrop: {
		run:     func(mig *migrate.Migrate) error { return mig.Down() },
		success: "Database migrations rolled back completely",
	},
	ActionVersion: {
		run: func(mig *migrate.Migrate) error {
			version, dirty, err := mig.Version()
			if err != nil {
				return fmt.Errorf("error reading migration version: %w", err)
			}

			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current database schema version")

			return nil
		},
	},
}

// connectionURL targets the primary.
func connectionURL(config *config.Config) string {
	extra := url.Values{}
	if config.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	return postgres.WriteEndpoint(config).URL(extra)
}

func Runner(config *config.Config, name string) error {
	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	mig, err := migrate.New(migrationSource, connectionURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := act.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", name, err)
	}

	if act.success != "" {
		log.Info().Str("action", name).Msg(act.success)
	}

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}

func StepUp(config *config.Config) error {
	return Runner(config, ActionStepUp)
}

func Down(config *config.Config) error {
	return Runner(config, ActionDown)
}

func Drop(config *config.Config) error {
	return Runner(config, ActionDrop)
}
