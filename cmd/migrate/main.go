package main

import (
	"context"
	"time"

	mongoMigration "railbook/internal/migrations/mongo"
	postgresMigration "railbook/internal/migrations/postgres"
	"railbook/pkg/config"
)

const JobName = "railbook-migrate"

const migrationTimeout = 120 * time.Second

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetStorage()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "storage_driver", cfg.StorageDriver)

	var err error
	switch cfg.StorageDriver {
	case config.StorageMongo:
		err = mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
	case config.StoragePostgres:
		err = postgresMigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
	default:
		cfg.Log.Info("Nothing to migrate for storage driver", "storage_driver", cfg.StorageDriver)
		return
	}
	if err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migration completed successfully")
}
