package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	cleanup := func() {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func applyMigrations(db *sqlx.DB) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

func cleanupTestData(db *sqlx.DB) {
	_, _ = db.Exec(`TRUNCATE TABLE messages, inbound_messages, client_assignments, contacts,
		user_chatrooms, lines, chatrooms, sender_numbers, api_providers,
		resource_pool, user_tokens RESTART IDENTITY CASCADE`)
}

// Seed helpers. Each inserts the minimal valid row and returns its id.

func seedProvider(t *testing.T, db *sqlx.DB, kind string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO api_providers (provider_type, provider_name, kind, credentials)
		VALUES ('sms', $1, $1, '{"accountSid": "AC1", "authToken": "t"}'::jsonb)
		RETURNING id
	`, kind).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedSenderNumber(t *testing.T, db *sqlx.DB, providerID *int64, number string) int64 {
	t.Helper()

	var pid sql.NullInt64
	if providerID != nil {
		pid = sql.NullInt64{Int64: *providerID, Valid: true}
	}

	var id int64
	err := db.QueryRow(`
		INSERT INTO sender_numbers (label, number_or_id, api_provider_id)
		VALUES ($1, $1, $2)
		RETURNING id
	`, number, pid).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedChatroom(t *testing.T, db *sqlx.DB, senderNumberID *int64, name string, createdAt time.Time) int64 {
	t.Helper()

	var snID sql.NullInt64
	if senderNumberID != nil {
		snID = sql.NullInt64{Int64: *senderNumberID, Valid: true}
	}

	var id int64
	err := db.QueryRow(`
		INSERT INTO chatrooms (name, sender_number_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, snID, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedLine(t *testing.T, db *sqlx.DB, userID, realNumber string, chatroomID *int64) int64 {
	t.Helper()

	var crID sql.NullInt64
	if chatroomID != nil {
		crID = sql.NullInt64{Int64: *chatroomID, Valid: true}
	}

	var id int64
	err := db.QueryRow(`
		INSERT INTO lines (user_id, real_number, assigned_chatroom_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, realNumber, crID).Scan(&id)
	require.NoError(t, err)
	return id
}

func grantMembership(t *testing.T, db *sqlx.DB, userID string, chatroomID int64) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO user_chatrooms (user_id, chatroom_id) VALUES ($1, $2)`, userID, chatroomID)
	require.NoError(t, err)
}
