package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Optional item columns are nullable so
// rows written before a column existed stay readable; model.Normalize fills
// in their defaults.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id             TEXT PRIMARY KEY,
    owner_id       INTEGER REFERENCES users(id),
    name           TEXT,
    buy_price      TEXT,
    sell_price     TEXT,
    quantity       INTEGER,
    shipping_cost  TEXT,
    platform_fee   TEXT,
    extra_fees     TEXT,
    platform       TEXT,
    status         TEXT,
    profit         TEXT,
    your_split_pct INTEGER,
    partner_name   TEXT,
    image          BLOB,
    image_mime     TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     DATETIME,
    deleted_at     DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_owner_created
    ON items(owner_id, created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    user_id    INTEGER REFERENCES users(id),
    expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_revoked_tokens_expires
    ON revoked_tokens(expires_at);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
