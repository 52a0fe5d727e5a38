package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Setting keys.
const (
	settingJWTSecret = "jwt_secret"
	settingFeeRates  = "fee_rates"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getSetting returns the value stored under key and whether it exists.
func getSetting(ctx context.Context, q querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, true, nil
}

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses INSERT OR IGNORE + re-SELECT to avoid TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingJWTSecret, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt secret: %w", err)
	}

	secret, _, err := getSetting(ctx, db, settingJWTSecret)
	return secret, err
}

// GetFeeRates returns the platform fee rates set at runtime, keyed by
// platform. They take precedence over the configured schedule.
func GetFeeRates(ctx context.Context, db *sql.DB) (map[string]decimal.Decimal, error) {
	return loadFeeRates(ctx, db)
}

// SetFeeRate stores a runtime fee rate (in percent) for platform.
func SetFeeRate(ctx context.Context, db *sql.DB, platform string, rate decimal.Decimal) error {
	return updateFeeRates(ctx, db, func(rates map[string]decimal.Decimal) {
		rates[platform] = rate
	})
}

// ClearFeeRate removes the runtime fee rate of platform, if any.
func ClearFeeRate(ctx context.Context, db *sql.DB, platform string) error {
	return updateFeeRates(ctx, db, func(rates map[string]decimal.Decimal) {
		delete(rates, platform)
	})
}

func loadFeeRates(ctx context.Context, q querier) (map[string]decimal.Decimal, error) {
	rates := map[string]decimal.Decimal{}
	raw, ok, err := getSetting(ctx, q, settingFeeRates)
	if err != nil || !ok {
		return rates, err
	}
	if err := json.Unmarshal([]byte(raw), &rates); err != nil {
		return nil, fmt.Errorf("decoding fee rates: %w", err)
	}
	return rates, nil
}

// updateFeeRates applies edit to the stored rates in one transaction.
func updateFeeRates(ctx context.Context, db *sql.DB, edit func(map[string]decimal.Decimal)) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rates, err := loadFeeRates(ctx, tx)
	if err != nil {
		return err
	}
	edit(rates)

	raw, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("encoding fee rates: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingFeeRates, string(raw),
	)
	if err != nil {
		return fmt.Errorf("storing fee rates: %w", err)
	}

	return tx.Commit()
}
