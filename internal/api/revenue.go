package api

import (
	"errors"
	"fmt"
	"github.com/go-openapi/strfmt"
	"github.com/gorilla/mux"
	"github.com/samber/lo"
	"go.lumeweb.com/portal-plugin-payments/internal/api/messages"
	"go.lumeweb.com/portal-plugin-payments/service"
	"net/http"
	"strconv"
	"time"
)

var errInvalidLimit = errors.New("limit must be an integer")

func (a *API) getRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, a.logger)

	filter, err := parseRevenueFilter(r)
	if err != nil {
		ctx.Error(err, http.StatusBadRequest)
		return
	}

	result, err := a.revenueService.TotalRevenue(r.Context(), filter)
	if err != nil {
		ctx.Error(err, 0)
		return
	}

	ctx.Encode(revenueResponse(result, filter))
}

func (a *API) getRevenueByMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, a.logger)
	vars := mux.Vars(r)

	filter, err := parseRevenueFilter(r)
	if err != nil {
		ctx.Error(err, http.StatusBadRequest)
		return
	}

	result, err := a.revenueService.RevenueByMetadata(r.Context(), vars["key"], vars["value"], filter)
	if err != nil {
		ctx.Error(err, 0)
		return
	}

	resp := revenueResponse(result, filter)
	resp.Metadata = &messages.MetadataFilter{Key: vars["key"], Value: vars["value"]}

	ctx.Encode(resp)
}

func (a *API) createRefund(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, a.logger)

	var req messages.RefundRequest
	if err := ctx.Decode(&req); err != nil {
		ctx.Error(err, http.StatusBadRequest)
		return
	}

	refund, err := a.revenueService.Refund(r.Context(), req.PaymentIntentID)
	if err != nil {
		ctx.Error(err, 0)
		return
	}

	ctx.Encode(&messages.RefundResponse{
		ID:              refund.ID,
		PaymentIntentID: refund.PaymentIntentID,
		Amount:          refund.Amount,
		Currency:        refund.Currency,
		Status:          refund.Status,
	})
}

func (a *API) listPayments(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, a.logger)

	limit := a.cfg.Revenue.DefaultPaymentsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			ctx.Error(errInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	page, err := a.revenueService.ListPayments(r.Context(), limit)
	if err != nil {
		ctx.Error(err, 0)
		return
	}

	ctx.Encode(&messages.PaymentsResponse{
		Payments: lo.Map(page.Data, func(item service.PaymentIntentSummary, _ int) *messages.Payment {
			return &messages.Payment{
				ID:       item.ID,
				Amount:   item.Amount,
				Currency: item.Currency,
				Status:   item.Status,
				Created:  strfmt.DateTime(time.Unix(item.Created, 0).UTC()),
				Metadata: item.Metadata,
			}
		}),
		HasMore: page.HasMore,
	})
}

func parseRevenueFilter(r *http.Request) (*service.RevenueFilter, error) {
	query := r.URL.Query()
	filter := &service.RevenueFilter{}

	if raw := query.Get("from"); raw != "" {
		from, err := strfmt.ParseDateTime(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = time.Time(from)
	}

	if raw := query.Get("to"); raw != "" {
		to, err := strfmt.ParseDateTime(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = time.Time(to)
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, errors.New("to must not be before from")
	}

	return filter, nil
}

func revenueResponse(result *service.RevenueResult, filter *service.RevenueFilter) *messages.RevenueResponse {
	resp := &messages.RevenueResponse{
		Total:     result.Total,
		Currency:  result.Currency,
		Count:     result.Count,
		Truncated: result.Truncated,
		Pages:     result.Pages,
	}

	if !filter.From.IsZero() {
		from := strfmt.DateTime(filter.From)
		resp.From = &from
	}

	if !filter.To.IsZero() {
		to := strfmt.DateTime(filter.To)
		resp.To = &to
	}

	return resp
}
