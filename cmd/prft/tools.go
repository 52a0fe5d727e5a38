package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erazemk/prft/internal/export"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/report"
	"github.com/erazemk/prft/internal/stats"
	"github.com/erazemk/prft/internal/store"
)

var errUserRequired = errors.New("-user is required")

// runReport prints a user's summary and item table.
func runReport(args []string, out io.Writer) error {
	var common commonFlags
	fs := newFlagSet("report", &common)

	var username, status string
	fs.StringVar(&username, "user", "", "")
	fs.StringVar(&status, "status", string(stats.FilterAll), "")

	cfg, err := parseArgs(fs, &common, args)
	if err != nil {
		return err
	}
	if username == "" {
		return errUserRequired
	}
	filter, ok := stats.ParseFilter(status)
	if !ok {
		return fmt.Errorf("invalid status %q: want all, listed or sold", status)
	}

	database, err := openDatabase(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	user, err := lookupUser(ctx, database, username)
	if err != nil {
		return err
	}

	l, err := newLedger(ctx, database, cfg, nil)
	if err != nil {
		return err
	}
	snap, err := l.List(ctx, user.ID, filter)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	return report.Render(out, user.Username, snap)
}

// runExport writes a user's items to stdout or a file.
func runExport(args []string, stdout io.Writer) error {
	var common commonFlags
	fs := newFlagSet("export", &common)

	var username, format, output string
	fs.StringVar(&username, "user", "", "")
	fs.StringVar(&format, "format", string(export.FormatCSV), "")
	fs.StringVar(&output, "o", "", "")

	cfg, err := parseArgs(fs, &common, args)
	if err != nil {
		return err
	}
	if username == "" {
		return errUserRequired
	}
	f, ok := export.ParseFormat(format)
	if !ok {
		return fmt.Errorf("invalid format %q: want csv or json", format)
	}

	database, err := openDatabase(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	user, err := lookupUser(ctx, database, username)
	if err != nil {
		return err
	}

	l, err := newLedger(ctx, database, cfg, nil)
	if err != nil {
		return err
	}
	items, err := l.Items(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	w := stdout
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := export.Write(w, f, items, time.Now()); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", len(items), output)
	}
	return nil
}

func lookupUser(ctx context.Context, database *sql.DB, username string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, database, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %q not found", username)
	}
	return user, nil
}
