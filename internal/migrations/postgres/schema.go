package postgres

// Schema is applied in order. Every statement is safe to re-run.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		user_id    BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_name  VARCHAR(32)  NOT NULL,
		email      VARCHAR(254) NOT NULL,
		role       VARCHAR(16)  NOT NULL DEFAULT 'passenger' CHECK (role IN ('passenger', 'admin')),
		created_at TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_user_name_key ON accounts (user_name)`,

	`CREATE TABLE IF NOT EXISTS credentials (
		user_id       BIGINT PRIMARY KEY REFERENCES accounts (user_id) ON DELETE CASCADE,
		password_hash VARCHAR(60) NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS trains (
		train_number    BIGINT PRIMARY KEY CHECK (train_number > 0),
		source          VARCHAR(64) NOT NULL,
		destination     VARCHAR(64) NOT NULL,
		schedule_date   DATE        NOT NULL,
		seats_available INTEGER     NOT NULL CHECK (seats_available >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS trains_route_idx ON trains (source, destination, schedule_date)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		reservation_id UUID        PRIMARY KEY,
		user_id        BIGINT      NOT NULL REFERENCES accounts (user_id),
		train_number   BIGINT      NOT NULL REFERENCES trains (train_number),
		seat_count     INTEGER     NOT NULL CHECK (seat_count > 0),
		status         VARCHAR(16) NOT NULL,
		user_name      VARCHAR(32) NOT NULL,
		schedule_date  DATE        NOT NULL,
		source         VARCHAR(64) NOT NULL,
		destination    VARCHAR(64) NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_train_latest_idx ON reservations (train_number, created_at DESC, reservation_id DESC)`,
	`CREATE INDEX IF NOT EXISTS reservations_user_idx ON reservations (user_id, created_at DESC)`,
}
