// Package export writes an owner's items as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
	"github.com/erazemk/prft/internal/stats"
)

// Format is an export file format.
type Format string

// Formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name; empty means CSV.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, true
	case FormatJSON:
		return FormatJSON, true
	}
	return "", false
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Write exports items in the given format.
func Write(w io.Writer, f Format, items []model.Item, now time.Time) error {
	if f == FormatJSON {
		return JSON(w, items, now)
	}
	return CSV(w, items)
}

var csvHeader = []string{
	"id", "name", "status", "platform", "quantity", "buy_price", "sell_price",
	"shipping_cost", "platform_fee", "extra_fees", "profit", "your_split_pct",
	"your_cut", "partner_name", "created_at", "updated_at",
}

// CSV writes one row per item with a header.
func CSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, it := range items {
		row := []string{
			it.ID,
			it.Name,
			string(it.Status),
			it.Platform,
			strconv.Itoa(it.Quantity),
			it.BuyPrice.StringFixed(2),
			it.SellPrice.StringFixed(2),
			it.ShippingCost.StringFixed(2),
			it.PlatformFee.StringFixed(2),
			it.ExtraFees.StringFixed(2),
			it.Profit.StringFixed(2),
			strconv.Itoa(it.YourSplitPct),
			profit.YourCut(it).StringFixed(2),
			it.PartnerName,
			it.CreatedAt.UTC().Format(time.RFC3339),
			it.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv export: %w", err)
	}
	return nil
}

type jsonExport struct {
	ExportedAt time.Time     `json:"exported_at"`
	Summary    stats.Summary `json:"summary"`
	Items      []model.Item  `json:"items"`
}

// JSON writes the items and their totals as an indented document.
func JSON(w io.Writer, items []model.Item, now time.Time) error {
	if items == nil {
		items = []model.Item{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	doc := jsonExport{ExportedAt: now.UTC(), Summary: stats.Aggregate(items), Items: items}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

// Filename builds a download name such as prft-alice-20260101-120000.csv.
func Filename(username string, f Format, now time.Time) string {
	name := sanitize(username)
	if name == "" {
		name = "items"
	}
	return fmt.Sprintf("prft-%s-%s.%s", name, now.Format("20060102-150405"), f)
}

func sanitize(s string) string {
	trimmed := strings.TrimSpace(strings.ToLower(s))

	var b strings.Builder
	prevDash := false
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 40 {
		out = strings.Trim(out[:40], "-")
	}
	return out
}
