package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/export"
	"github.com/erazemk/prft/internal/ledger"
	"github.com/erazemk/prft/internal/model"
	"github.com/erazemk/prft/internal/profit"
)

// StatsHandler serves the derived views: dashboard, estimates and exports.
type StatsHandler struct {
	Ledger *ledger.Ledger
}

// Dashboard handles GET /api/stats.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Ledger.Dashboard(r.Context(), GetClaims(r.Context()).UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, newDashboardView(dash))
}

type estimateRequest struct {
	BuyPrice     model.Number `json:"buy_price"`
	SellPrice    model.Number `json:"sell_price"`
	Quantity     model.Number `json:"quantity"`
	ShippingCost model.Number `json:"shipping_cost"`
	PlatformFee  model.Number `json:"platform_fee"`
	ExtraFees    model.Number `json:"extra_fees"`
	Platform     string       `json:"platform"`
}

type estimateResponse struct {
	ledger.Estimate
	Display profit.Display `json:"display"`
}

// Estimate handles POST /api/estimate. Unparseable values count as zero.
func (h *StatsHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	est := h.Ledger.Estimate(ledger.EstimateRequest{
		BuyPrice:     string(req.BuyPrice),
		SellPrice:    string(req.SellPrice),
		Quantity:     string(req.Quantity),
		ShippingCost: string(req.ShippingCost),
		PlatformFee:  string(req.PlatformFee),
		ExtraFees:    string(req.ExtraFees),
		Platform:     req.Platform,
	})
	jsonResponse(w, http.StatusOK, estimateResponse{
		Estimate: est,
		Display:  profit.Describe(est.Profit, naturalPlaces),
	})
}

type feeScheduleResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fees handles GET /api/fees.
func (h *StatsHandler) Fees(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, feeScheduleResponse{Rates: h.Ledger.Estimator().Schedule()})
}

type feeRateRequest struct {
	Rate *model.Number `json:"rate"`
}

// SetFee handles PUT /api/fees/{platform}.
func (h *StatsHandler) SetFee(w http.ResponseWriter, r *http.Request) {
	var req feeRateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rate.Blank() {
		writeError(w, r, &model.ValidationError{Field: "rate", Reason: "is required"})
		return
	}
	rate, err := req.Rate.Decimal()
	if err != nil {
		writeError(w, r, &model.ValidationError{Field: "rate", Reason: "must be a number"})
		return
	}

	if err := h.Ledger.SetFeeRate(r.Context(), r.PathValue("platform"), rate); err != nil {
		writeError(w, r, err)
		return
	}
	h.Fees(w, r)
}

// ClearFee handles DELETE /api/fees/{platform}.
func (h *StatsHandler) ClearFee(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.ClearFeeRate(r.Context(), r.PathValue("platform")); err != nil {
		writeError(w, r, err)
		return
	}
	h.Fees(w, r)
}

// Export handles GET /api/export.
func (h *StatsHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		jsonError(w, http.StatusBadRequest, "format must be csv or json")
		return
	}

	claims := GetClaims(r.Context())
	items, err := h.Ledger.Items(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, items, now); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("items exported", "user", claims.Username, "format", format, "count", len(items))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(claims.Username, format, now)+`"`)
	w.Write(buf.Bytes())
}
