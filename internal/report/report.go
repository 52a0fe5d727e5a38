// Package report renders an owner's totals and items for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
	"github.com/erazemk/prft/internal/stats"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#7928CA", Dark: "#7D56F4"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#12B76A", Dark: "#73F59F"}
	colorDanger  = lipgloss.AdaptiveColor{Light: "#D92D20", Dark: "#F97066"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#98A2B3", Dark: "#667085"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D0D5DD", Dark: "#475467"}
)

// styles are bound to one renderer so color support follows the output.
type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	gain   lipgloss.Style
	loss   lipgloss.Style
	muted  lipgloss.Style
	card   lipgloss.Style
	header lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Foreground(colorPrimary).Bold(true),
		label:  r.NewStyle().Foreground(colorMuted),
		gain:   r.NewStyle().Foreground(colorSuccess).Bold(true),
		loss:   r.NewStyle().Foreground(colorDanger).Bold(true),
		muted:  r.NewStyle().Foreground(colorMuted),
		card:   r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1),
		header: r.NewStyle().Bold(true).Underline(true),
	}
}

// amount renders a signed amount in green for gains and red for losses.
func (s styles) amount(d decimal.Decimal) string {
	text := profit.Signed(d, 2)
	if profit.Positive(d) {
		return s.gain.Render(text)
	}
	return s.loss.Render(text)
}

// Render writes the summary cards followed by the item table.
func Render(w io.Writer, username string, snap stats.Snapshot) error {
	s := newStyles(lipgloss.NewRenderer(w))

	var b strings.Builder
	b.WriteString(s.title.Render(fmt.Sprintf("prft · %s · %s", username, snap.Filter)))
	b.WriteString("\n\n")
	b.WriteString(summaryCards(s, snap.Summary))
	b.WriteString("\n\n")
	b.WriteString(itemTable(s, snap.Items))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func summaryCards(s styles, sum stats.Summary) string {
	card := func(label, value string) string {
		return s.card.Render(s.label.Render(label) + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Sold profit", s.amount(sum.SoldProfit)),
		card("Your share", s.amount(sum.YourSoldProfit)),
		card("Sold", fmt.Sprint(sum.SoldCount)),
		card("Listed", fmt.Sprint(sum.ListedCount)),
		card("Potential", s.amount(sum.ListedPotential)),
	)
}

const (
	nameWidth     = 28
	platformWidth = 10
	statusWidth   = 8
	numberWidth   = 12
)

func itemTable(s styles, items []model.Item) string {
	if len(items) == 0 {
		return s.muted.Render("No items.")
	}

	cell := func(text string, width int, right bool) string {
		st := lipgloss.NewStyle().Width(width).MaxWidth(width)
		if right {
			st = st.Align(lipgloss.Right)
		}
		return st.Render(text)
	}

	rows := []string{s.header.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Item", nameWidth, false),
		cell("Platform", platformWidth, false),
		cell("Status", statusWidth, false),
		cell("Qty", 5, true),
		cell("Profit", numberWidth, true),
		cell("Your cut", numberWidth, true),
	))}

	for _, it := range items {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cell(truncate(it.Name, nameWidth-1), nameWidth, false),
			cell(orDash(it.Platform), platformWidth, false),
			cell(string(it.Status), statusWidth, false),
			cell(fmt.Sprint(it.Quantity), 5, true),
			cell(s.amount(it.Profit), numberWidth, true),
			cell(s.amount(profit.YourCut(it)), numberWidth, true),
		))
	}
	return strings.Join(rows, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
