package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/stats"
)

func TestRender(t *testing.T) {
	sold := model.NewItem(1)
	sold.Name = "Jordan 1"
	sold.Platform = "ebay"
	sold.Status = model.StatusSold
	sold.Profit = decimal.NewFromInt(1250)
	sold.YourSplitPct = 50

	listed := model.NewItem(1)
	listed.Name = "Hoodie"
	listed.Profit = decimal.RequireFromString("-5.5")

	var buf bytes.Buffer
	snap := stats.Build([]model.Item{sold, listed}, stats.FilterAll)
	if err := Render(&buf, "alice", snap); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"alice", "Sold profit", "+1,250.00", "+625.00", "-5.50", "Jordan 1", "Hoodie", "ebay"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "bob", stats.Build(nil, stats.FilterSold)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "No items.") {
		t.Errorf("expected empty message, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "+0.00") {
		t.Errorf("expected zero totals shown as gains, got:\n%s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer name", 8, "much lo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
