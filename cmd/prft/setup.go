package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/prft/internal/auth"
	"github.com/erazemk/prft/internal/config"
	"github.com/erazemk/prft/internal/db"
	"github.com/erazemk/prft/internal/fees"
	"github.com/erazemk/prft/internal/imaging"
	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/live"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/store"
)

// openDatabase opens an existing database and brings its schema up to date.
func openDatabase(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database %s: %w", path, err)
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return database, nil
}

// initDatabase creates a new database, ensures the schema, and creates the admin user.
func initDatabase(path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(step string, err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("%s: %w", step, err)
	}

	if err := db.Migrate(database); err != nil {
		return fail("ensuring schema", err)
	}

	password, err := auth.GeneratePassword(16)
	if err != nil {
		return fail("generating password", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fail("hashing password", err)
	}

	if _, err := store.CreateUser(context.Background(), database, adminUsername, hash, model.RoleAdmin); err != nil {
		return fail("creating admin user", err)
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// newBroker returns the live feed broker. With a Redis address configured,
// changes fan out across instances; the relay runs until ctx is done.
func newBroker(ctx context.Context, cfg config.Redis) live.Broker {
	if cfg.Addr == "" {
		return live.NewLocalBroker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	broker := live.NewRedisBroker(client, cfg.Channel)

	go func() {
		defer client.Close()
		if err := broker.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("live relay stopped", "error", err)
		}
	}()

	slog.Info("live feed shared through redis", "addr", cfg.Addr)
	return broker
}

// newLedger builds the ledger from the configuration and the fee rates
// stored in the database.
func newLedger(ctx context.Context, database *sql.DB, cfg *config.Config, broker live.Broker) (*ledger.Ledger, error) {
	feeCfg, err := cfg.FeeConfig()
	if err != nil {
		return nil, err
	}

	l := ledger.New(database, ledger.Options{
		Fees:   fees.New(feeCfg),
		Broker: broker,
		Photos: imaging.Processor{
			MaxDimension: cfg.Photo.MaxDimension,
			Quality:      cfg.Photo.Quality,
		},
		UndoWindow: cfg.UndoWindow,
	})
	if err := l.LoadFeeRates(ctx); err != nil {
		return nil, fmt.Errorf("loading fee rates: %w", err)
	}
	return l, nil
}

// purgeRevokedTokens periodically drops revocations of expired tokens until
// ctx is done.
func purgeRevokedTokens(ctx context.Context, database *sql.DB, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeRevokedTokens(ctx, database, now)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("failed to purge revoked tokens", "error", err)
				}
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}
