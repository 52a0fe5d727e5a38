// Package ledger implements the item lifecycle on top of the store: create,
// edit, status toggle, delete with undo, and the owner-scoped views.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/fees"
	"github.com/erazemk/prft/internal/imaging"
	"github.com/erazemk/prft/internal/live"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
	"github.com/erazemk/prft/internal/stats"
	"github.com/erazemk/prft/internal/store"
)

// DefaultUndoWindow is how long a deletion can be undone.
const DefaultUndoWindow = 6 * time.Second

// RecentCount is the number of items on the dashboard.
const RecentCount = 6

var (
	// ErrNotFound is returned for unknown or deleted items.
	ErrNotFound = errors.New("item not found")
	// ErrUndoExpired is returned when a deletion can no longer be undone.
	ErrUndoExpired = errors.New("undo window has passed")
)

// Options configure a Ledger. Zero values select the defaults.
type Options struct {
	Fees       *fees.Estimator
	Broker     live.Broker
	Photos     imaging.Processor
	UndoWindow time.Duration
}

// Ledger runs item operations on behalf of an explicitly passed owner.
type Ledger struct {
	db     *sql.DB
	base   *fees.Estimator
	fees   atomic.Pointer[fees.Estimator]
	broker live.Broker
	photos imaging.Processor
	undo   *cache.Cache
	window time.Duration
}

// New returns a Ledger backed by db.
func New(db *sql.DB, opts Options) *Ledger {
	if opts.Fees == nil {
		opts.Fees = fees.New(fees.DefaultConfig())
	}
	if opts.Broker == nil {
		opts.Broker = live.NewLocalBroker()
	}
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	l := &Ledger{
		db:     db,
		base:   opts.Fees,
		broker: opts.Broker,
		photos: opts.Photos,
		undo:   cache.New(opts.UndoWindow, 2*opts.UndoWindow),
		window: opts.UndoWindow,
	}
	l.fees.Store(opts.Fees)
	return l
}

// Broker returns the broker changes are published to.
func (l *Ledger) Broker() live.Broker { return l.broker }

// UndoWindow returns how long a deletion stays restorable.
func (l *Ledger) UndoWindow() time.Duration { return l.window }

// Estimator returns the fee estimator.
func (l *Ledger) Estimator() *fees.Estimator { return l.fees.Load() }

// LoadFeeRates applies the fee rates stored at runtime on top of the
// configured schedule.
func (l *Ledger) LoadFeeRates(ctx context.Context) error {
	rates, err := store.GetFeeRates(ctx, l.db)
	if err != nil {
		return err
	}
	l.fees.Store(l.base.WithRates(rates))
	return nil
}

// SetFeeRate stores a fee rate, in percent, for a platform and starts using
// it for new estimates.
func (l *Ledger) SetFeeRate(ctx context.Context, platform string, rate decimal.Decimal) error {
	platform = model.NormalizePlatform(platform)
	if platform == "" {
		return &model.ValidationError{Field: "platform", Reason: "is required"}
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return &model.ValidationError{Field: "rate", Reason: "must be between 0 and 100"}
	}

	if err := store.SetFeeRate(ctx, l.db, platform, rate); err != nil {
		return err
	}
	slog.Info("fee rate set", "platform", platform, "rate", rate.String())
	return l.LoadFeeRates(ctx)
}

// ClearFeeRate drops a stored fee rate so the configured one applies again.
func (l *Ledger) ClearFeeRate(ctx context.Context, platform string) error {
	platform = model.NormalizePlatform(platform)
	if err := store.ClearFeeRate(ctx, l.db, platform); err != nil {
		return err
	}
	slog.Info("fee rate cleared", "platform", platform)
	return l.LoadFeeRates(ctx)
}

// Create validates and stores a new item. Shipping and platform fee that
// were not supplied are filled in with estimates from the sale price and
// platform.
func (l *Ledger) Create(ctx context.Context, ownerID int64, in model.ItemInput) (*model.Item, error) {
	if ownerID <= 0 {
		return nil, &model.AuthorizationError{RequesterID: ownerID}
	}
	if err := in.RequireCreateFields(); err != nil {
		return nil, err
	}

	item := model.NewItem(ownerID)
	if err := in.Apply(&item); err != nil {
		return nil, err
	}

	draft := l.Estimator().NewDraft(item.Platform)
	draft.SetSellPrice(item.SellPrice)
	if !in.ShippingCost.Blank() {
		draft.SetShipping(item.ShippingCost)
	}
	if !in.PlatformFee.Blank() {
		draft.SetPlatformFee(item.PlatformFee)
	}
	item.ShippingCost = draft.Shipping()
	item.PlatformFee = draft.PlatformFee()
	item.Profit = profit.ForItem(item)

	created, err := store.CreateItem(ctx, l.db, item)
	if err != nil {
		return nil, err
	}

	slog.Info("item created", "owner", ownerID, "item", created.ID, "profit", created.Profit.String())
	l.publish(ctx, ownerID)
	return created, nil
}

// Get returns a live item the owner may see.
func (l *Ledger) Get(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	item, err := store.GetItem(ctx, l.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if err := model.Authorize(*item, ownerID); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial edit. Stored shipping and platform fee are kept
// unless supplied; profit is recomputed from the merged fields.
func (l *Ledger) Update(ctx context.Context, ownerID int64, id string, in model.ItemInput) (*model.Item, error) {
	item, err := l.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	edited := *item
	if err := in.Apply(&edited); err != nil {
		return nil, err
	}
	edited.Profit = profit.ForItem(edited)

	if err := store.UpdateItem(ctx, l.db, edited); err != nil {
		return nil, err
	}

	slog.Info("item updated", "owner", ownerID, "item", id)
	l.publish(ctx, ownerID)
	return l.Get(ctx, ownerID, id)
}

// ToggleStatus flips an item between listed and sold. Nothing else changes.
func (l *Ledger) ToggleStatus(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	item, err := l.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := store.SetItemStatus(ctx, l.db, id, ownerID, item.Status.Toggle()); err != nil {
		return nil, err
	}

	slog.Info("item status toggled", "owner", ownerID, "item", id, "status", item.Status.Toggle())
	l.publish(ctx, ownerID)
	return l.Get(ctx, ownerID, id)
}

// Delete soft-deletes an item and makes it the owner's undoable deletion,
// replacing any earlier one.
func (l *Ledger) Delete(ctx context.Context, ownerID int64, id string) error {
	if _, err := l.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := store.DeleteItem(ctx, l.db, id, ownerID); err != nil {
		return err
	}
	l.undo.SetDefault(undoKey(ownerID), id)

	slog.Info("item deleted", "owner", ownerID, "item", id)
	l.publish(ctx, ownerID)
	return nil
}

// Restore undoes the owner's most recent deletion if it is still inside the
// undo window. The item keeps its id and creation time.
func (l *Ledger) Restore(ctx context.Context, ownerID int64, id string) (*model.Item, error) {
	key := undoKey(ownerID)
	last, ok := l.undo.Get(key)
	if !ok || last.(string) != id {
		return nil, ErrUndoExpired
	}

	restored, err := store.RestoreItem(ctx, l.db, id, ownerID)
	if err != nil {
		return nil, err
	}
	l.undo.Delete(key)
	if !restored {
		return nil, ErrUndoExpired
	}

	slog.Info("item restored", "owner", ownerID, "item", id)
	l.publish(ctx, ownerID)
	return l.Get(ctx, ownerID, id)
}

// List returns the owner's items for display under filter f, newest first,
// with totals over all of the owner's items.
func (l *Ledger) List(ctx context.Context, ownerID int64, f stats.Filter) (stats.Snapshot, error) {
	items, err := l.items(ctx, ownerID)
	if err != nil {
		return stats.Snapshot{}, err
	}
	return stats.Build(items, f), nil
}

// Dashboard is the summary view: totals plus the newest items.
type Dashboard struct {
	Summary stats.Summary `json:"summary"`
	Recent  []model.Item  `json:"recent"`
}

// Dashboard returns the owner's totals and most recent items.
func (l *Ledger) Dashboard(ctx context.Context, ownerID int64) (Dashboard, error) {
	items, err := l.items(ctx, ownerID)
	if err != nil {
		return Dashboard{}, err
	}
	recent := stats.Recent(items, RecentCount)
	if recent == nil {
		recent = []model.Item{}
	}
	return Dashboard{Summary: stats.Aggregate(items), Recent: recent}, nil
}

// Items returns all of the owner's live items, newest first.
func (l *Ledger) Items(ctx context.Context, ownerID int64) ([]model.Item, error) {
	return l.items(ctx, ownerID)
}

func (l *Ledger) items(ctx context.Context, ownerID int64) ([]model.Item, error) {
	if ownerID <= 0 {
		return nil, &model.AuthorizationError{RequesterID: ownerID}
	}
	return store.ListItems(ctx, l.db, ownerID)
}

// SetImage processes and stores an item's listing photo.
func (l *Ledger) SetImage(ctx context.Context, ownerID int64, id string, r io.Reader) error {
	if _, err := l.Get(ctx, ownerID, id); err != nil {
		return err
	}

	photo, err := l.photos.Process(r)
	if err != nil {
		return err
	}
	if err := store.SetItemImage(ctx, l.db, id, ownerID, photo.Data, photo.MIME); err != nil {
		return err
	}

	slog.Info("item photo stored", "owner", ownerID, "item", id, "bytes", len(photo.Data))
	l.publish(ctx, ownerID)
	return nil
}

// Image returns an item's listing photo, or ErrNotFound if it has none.
func (l *Ledger) Image(ctx context.Context, ownerID int64, id string) ([]byte, string, error) {
	if _, err := l.Get(ctx, ownerID, id); err != nil {
		return nil, "", err
	}

	data, mime, err := store.GetItemImage(ctx, l.db, id)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", ErrNotFound
	}
	return data, mime, nil
}

// EstimateRequest holds raw create-form values.
type EstimateRequest struct {
	BuyPrice     string
	SellPrice    string
	Quantity     string
	ShippingCost string
	PlatformFee  string
	ExtraFees    string
	Platform     string
}

// Estimate is the create-form preview: fee suggestions and the profit the
// item would have.
type Estimate struct {
	Shipping    decimal.Decimal `json:"shipping_cost"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Rate        decimal.Decimal `json:"rate"`
	Profit      decimal.Decimal `json:"profit"`
}

// Estimate previews a new item. Blank shipping or fee take the suggestion;
// malformed numbers count as zero. It never fails.
func (l *Ledger) Estimate(req EstimateRequest) Estimate {
	platform := model.NormalizePlatform(req.Platform)
	est := l.Estimator()
	draft := est.NewDraft(platform)
	draft.SetSellPrice(model.ParseAmount(req.SellPrice))
	if strings.TrimSpace(req.ShippingCost) != "" {
		draft.SetShipping(model.ParseAmount(req.ShippingCost))
	}
	if strings.TrimSpace(req.PlatformFee) != "" {
		draft.SetPlatformFee(model.ParseAmount(req.PlatformFee))
	}

	return Estimate{
		Shipping:    draft.Shipping(),
		PlatformFee: draft.PlatformFee(),
		Rate:        est.Rate(platform),
		Profit: profit.ComputeRaw(profit.RawInputs{
			BuyPrice:     req.BuyPrice,
			SellPrice:    req.SellPrice,
			Quantity:     req.Quantity,
			ShippingCost: draft.Shipping().String(),
			PlatformFee:  draft.PlatformFee().String(),
			ExtraFees:    req.ExtraFees,
		}),
	}
}

func (l *Ledger) publish(ctx context.Context, ownerID int64) {
	if err := l.broker.Publish(ctx, ownerID); err != nil {
		slog.Warn("publishing change failed", "owner", ownerID, "error", err)
	}
}

func undoKey(ownerID int64) string {
	return strconv.FormatInt(ownerID, 10)
}
