package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

func Connect(dsn string, maxOpen, maxIdle int) error {
	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	DB.SetMaxOpenConns(maxOpen)
	DB.SetMaxIdleConns(maxIdle)

	return nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

// CreateTables bootstraps the schema. The store has no native foreign keys on
// purpose: every cross-row invariant is enforced inside the mutations.
func CreateTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          VARCHAR(36) PRIMARY KEY,
			external_id VARCHAR(64) NOT NULL,
			username    VARCHAR(100) NOT NULL,
			email       VARCHAR(255) NOT NULL,
			avatar      VARCHAR(255),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uk_external_id (external_id),
			UNIQUE KEY uk_email (email)
		)`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id          VARCHAR(36) PRIMARY KEY,
			sender_id   VARCHAR(36) NOT NULL,
			receiver_id VARCHAR(36) NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_sender_receiver (sender_id, receiver_id),
			INDEX idx_receiver (receiver_id)
		)`,
		`CREATE TABLE IF NOT EXISTS friendships (
			id              VARCHAR(36) PRIMARY KEY,
			conversation_id VARCHAR(36) NOT NULL,
			user1_id        VARCHAR(36) NOT NULL,
			user2_id        VARCHAR(36) NOT NULL,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_conversation (conversation_id),
			INDEX idx_user1 (user1_id),
			INDEX idx_user2 (user2_id)
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id          VARCHAR(36) PRIMARY KEY,
			is_group    BOOLEAN NOT NULL DEFAULT FALSE,
			name        VARCHAR(100),
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS conversation_members (
			id                   VARCHAR(36) PRIMARY KEY,
			conversation_id      VARCHAR(36) NOT NULL,
			member_id            VARCHAR(36) NOT NULL,
			last_seen_message_id VARCHAR(36),
			created_at           DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uk_conv_member (conversation_id, member_id),
			INDEX idx_member (member_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id              VARCHAR(36) PRIMARY KEY,
			conversation_id VARCHAR(36) NOT NULL,
			sender_id       VARCHAR(36) NOT NULL,
			content         TEXT NOT NULL,
			created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_conv_time (conversation_id, created_at)
		)`,
	}

	for _, table := range tables {
		if _, err := DB.Exec(table); err != nil {
			return err
		}
	}

	return nil
}
