// Package postgres applies the railbook SQL schema.
package postgres

import (
	"context"
	"fmt"

	"railbook/pkg/db"
	pgdb "railbook/pkg/db/postgres"
	"railbook/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigration applies Schema in a single transaction.
func RunMigration(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	return apply(ctx, pgdb.NewTransactionManager(pool), func(ctx context.Context) pgdb.Querier {
		return pgdb.Conn(ctx, pool)
	}, log)
}

func apply(ctx context.Context, tx db.Transactor, conn func(context.Context) pgdb.Querier, log *logger.Logger) error {
	log.Info("Running Postgres migrations", "statements", len(Schema))

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		q := conn(txCtx)
		for i, stmt := range Schema {
			if _, err := q.Exec(txCtx, stmt); err != nil {
				return fmt.Errorf("failed to apply statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("All Postgres migrations applied")
	return nil
}
