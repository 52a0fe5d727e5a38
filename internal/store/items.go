package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/prft/internal/model"
)

const itemColumns = `id, owner_id, name, buy_price, sell_price, quantity, shipping_cost,
	platform_fee, extra_fees, platform, status, profit, your_split_pct, partner_name,
	image_mime, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (model.Item, error) {
	var r model.Record
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.BuyPrice, &r.SellPrice, &r.Quantity,
		&r.ShippingCost, &r.PlatformFee, &r.ExtraFees, &r.Platform, &r.Status, &r.Profit,
		&r.YourSplitPct, &r.PartnerName, &r.ImageMime, &r.CreatedAt, &r.UpdatedAt, &r.DeletedAt)
	if err != nil {
		return model.Item{}, err
	}
	return model.Normalize(r), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateItem inserts a new item with a freshly assigned ID. The caller's ID,
// timestamps and image flag are ignored.
func CreateItem(ctx context.Context, db *sql.DB, item model.Item) (*model.Item, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, owner_id, name, buy_price, sell_price, quantity, shipping_cost,
		                    platform_fee, extra_fees, platform, status, profit, your_split_pct,
		                    partner_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.OwnerID, item.Name, item.BuyPrice, item.SellPrice, item.Quantity,
		item.ShippingCost, item.PlatformFee, item.ExtraFees, item.Platform, string(item.Status),
		item.Profit, item.YourSplitPct, nullString(item.PartnerName), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, including soft-deleted items.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return &item, nil
}

// ListItems returns an owner's non-deleted items, newest first.
func ListItems(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE owner_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC, rowid DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem writes every editable field of an item and refreshes updated_at.
func UpdateItem(ctx context.Context, db *sql.DB, item model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, buy_price = ?, sell_price = ?, quantity = ?,
		                  shipping_cost = ?, platform_fee = ?, extra_fees = ?, platform = ?,
		                  status = ?, profit = ?, your_split_pct = ?, partner_name = ?,
		                  updated_at = ?
		 WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		item.Name, item.BuyPrice, item.SellPrice, item.Quantity,
		item.ShippingCost, item.PlatformFee, item.ExtraFees, item.Platform,
		string(item.Status), item.Profit, item.YourSplitPct, nullString(item.PartnerName),
		time.Now().UTC(), item.ID, item.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// SetItemStatus changes only an item's status.
func SetItemStatus(ctx context.Context, db *sql.DB, id string, ownerID int64, status model.Status) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		string(status), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("setting item status: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id string, ownerID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = ? WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// RestoreItem clears an item's deletion mark. It reports whether a deleted
// item was found and restored.
func RestoreItem(ctx context.Context, db *sql.DB, id string, ownerID int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = NULL WHERE id = ? AND owner_id = ? AND deleted_at IS NOT NULL`,
		id, ownerID,
	)
	if err != nil {
		return false, fmt.Errorf("restoring item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("restoring item: %w", err)
	}
	return n > 0, nil
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db *sql.DB, id string, ownerID int64, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = ?
		 WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		image, mime, time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's photo and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
