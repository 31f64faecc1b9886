package service

import (
	"context"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v79"
	stripeclient "go.lumeweb.com/portal-plugin-payments/internal/client/stripe"
	"go.lumeweb.com/portal-plugin-payments/internal/config"
	"go.uber.org/zap"
	"time"
)

const REVENUE_SERVICE = "revenue"

const (
	msgListChargesFailed        = "Failed to list charges"
	msgRefundFailed             = "Failed to create refund"
	msgListPaymentIntentsFailed = "Failed to list payment intents"
)

// RevenueFilter bounds the charge creation time. A zero bound is ignored; bounds are
// inclusive and compared in whole seconds.
type RevenueFilter struct {
	From time.Time
	To   time.Time
}

type RevenueResult struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
	Count    int    `json:"count"`
	// Truncated is set when the provider had more charges than the configured pages held.
	Truncated bool `json:"truncated"`
	Pages     int  `json:"pages"`
}

type RefundResult struct {
	ID              string `json:"id"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
	Raw             Object `json:"-"`
}

type PaymentIntentSummary struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Created  int64             `json:"created"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type PaymentIntentPage struct {
	Data    []PaymentIntentSummary `json:"data"`
	HasMore bool                   `json:"has_more"`
}

type ChargeLister interface {
	ListCharges(ctx context.Context, params *stripe.ChargeListParams) (*stripeclient.ChargePage, error)
}

type RefundCreator interface {
	CreateRefund(ctx context.Context, params *stripe.RefundParams) (*stripe.Refund, error)
}

type PaymentIntentLister interface {
	ListPaymentIntents(ctx context.Context, params *stripe.PaymentIntentListParams) (*stripeclient.PaymentIntentPage, error)
}

// RevenueProvider is the remote charge, refund and payment intent API.
type RevenueProvider interface {
	ChargeLister
	RefundCreator
	PaymentIntentLister
}

type RevenueServiceDefault struct {
	provider RevenueProvider
	cfg      config.RevenueConfig
	logger   *zap.Logger
}

func NewRevenueService(cfg *config.Config, provider RevenueProvider, logger *zap.Logger) (*RevenueServiceDefault, error) {
	if cfg == nil {
		return nil, newConfigurationError(msgMissingSecretKey)
	}

	if err := validateSecret(cfg.Stripe.SecretKey, msgMissingSecretKey); err != nil {
		return nil, err
	}

	if provider == nil {
		return nil, newConfigurationError(msgMissingProvider)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	revenueCfg := cfg.Revenue
	if revenueCfg.PageSize <= 0 || revenueCfg.PageSize > config.MaxPageSize {
		revenueCfg.PageSize = config.MaxPageSize
	}
	if revenueCfg.MaxPages < 1 {
		revenueCfg.MaxPages = 1
	}
	if revenueCfg.DefaultCurrency == "" {
		revenueCfg.DefaultCurrency = string(stripe.CurrencyUSD)
	}

	return &RevenueServiceDefault{
		provider: provider,
		cfg:      revenueCfg,
		logger:   logger.Named(REVENUE_SERVICE),
	}, nil
}

func (r *RevenueServiceDefault) ID() string {
	return REVENUE_SERVICE
}

func (r *RevenueServiceDefault) TotalRevenue(ctx context.Context, filter *RevenueFilter) (*RevenueResult, error) {
	charges, pages, truncated, err := r.collectCharges(ctx, filter)
	if err != nil {
		return nil, err
	}

	return r.summarize(charges, pages, truncated), nil
}

// RevenueByMetadata only counts charges whose metadata[key] is exactly value.
func (r *RevenueServiceDefault) RevenueByMetadata(ctx context.Context, key, value string, filter *RevenueFilter) (*RevenueResult, error) {
	charges, pages, truncated, err := r.collectCharges(ctx, filter)
	if err != nil {
		return nil, err
	}

	matched := lo.Filter(charges, func(charge *stripe.Charge, _ int) bool {
		if charge == nil || charge.Metadata == nil {
			return false
		}

		v, ok := charge.Metadata[key]
		return ok && v == value
	})

	return r.summarize(matched, pages, truncated), nil
}

func (r *RevenueServiceDefault) Refund(ctx context.Context, paymentIntentID string) (*RefundResult, error) {
	if err := validateRefundTarget(paymentIntentID); err != nil {
		return nil, err
	}

	refund, err := r.provider.CreateRefund(ctx, &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	})
	if err != nil {
		r.logger.Error("failed to refund payment",
			zap.String("payment_intent", paymentIntentID),
			zap.Error(err),
		)
		return nil, newUpstreamError(err, msgRefundFailed)
	}

	result := &RefundResult{
		ID:              refund.ID,
		PaymentIntentID: paymentIntentID,
		Amount:          refund.Amount,
		Currency:        string(refund.Currency),
		Status:          string(refund.Status),
		Raw:             newObjectFrom(refund),
	}

	if refund.PaymentIntent != nil && refund.PaymentIntent.ID != "" {
		result.PaymentIntentID = refund.PaymentIntent.ID
	}

	r.logger.Info("payment refunded",
		zap.String("refund_id", result.ID),
		zap.String("payment_intent", result.PaymentIntentID),
	)

	return result, nil
}

func (r *RevenueServiceDefault) ListPayments(ctx context.Context, limit int64) (*PaymentIntentPage, error) {
	if err := validateListLimit(limit); err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentListParams{}
	params.Limit = stripe.Int64(limit)

	page, err := r.provider.ListPaymentIntents(ctx, params)
	if err != nil {
		r.logger.Error("failed to list payment intents", zap.Error(err))
		return nil, newUpstreamError(err, msgListPaymentIntentsFailed)
	}

	intents := lo.Filter(page.PaymentIntents, func(pi *stripe.PaymentIntent, _ int) bool {
		return pi != nil
	})

	return &PaymentIntentPage{
		Data: lo.Map(intents, func(pi *stripe.PaymentIntent, _ int) PaymentIntentSummary {
			return PaymentIntentSummary{
				ID:       pi.ID,
				Amount:   pi.Amount,
				Currency: string(pi.Currency),
				Status:   string(pi.Status),
				Created:  pi.Created,
				Metadata: pi.Metadata,
			}
		}),
		HasMore: page.HasMore,
	}, nil
}

// collectCharges reads at most cfg.MaxPages pages, following the starting_after cursor.
func (r *RevenueServiceDefault) collectCharges(ctx context.Context, filter *RevenueFilter) ([]*stripe.Charge, int, bool, error) {
	var (
		charges []*stripe.Charge
		pages   int
		hasMore bool
		cursor  string
	)

	for pages < r.cfg.MaxPages {
		params := r.chargeListParams(filter)
		if cursor != "" {
			params.StartingAfter = stripe.String(cursor)
		}

		page, err := r.provider.ListCharges(ctx, params)
		if err != nil {
			r.logger.Error("failed to list charges",
				zap.Int("page", pages+1),
				zap.Error(err),
			)
			return nil, 0, false, newUpstreamError(err, msgListChargesFailed)
		}

		pages++
		charges = append(charges, page.Charges...)
		hasMore = page.HasMore

		if !page.HasMore || len(page.Charges) == 0 {
			break
		}

		cursor = page.Charges[len(page.Charges)-1].ID
	}

	if hasMore {
		r.logger.Warn("charge listing truncated",
			zap.Int("pages", pages),
			zap.Int("charges", len(charges)),
		)
	}

	return charges, pages, hasMore, nil
}

func (r *RevenueServiceDefault) chargeListParams(filter *RevenueFilter) *stripe.ChargeListParams {
	params := &stripe.ChargeListParams{}
	params.Limit = stripe.Int64(r.cfg.PageSize)

	if filter == nil || (filter.From.IsZero() && filter.To.IsZero()) {
		return params
	}

	params.CreatedRange = &stripe.RangeQueryParams{}
	if !filter.From.IsZero() {
		params.CreatedRange.GreaterThanOrEqual = filter.From.Unix()
	}
	if !filter.To.IsZero() {
		params.CreatedRange.LesserThanOrEqual = filter.To.Unix()
	}

	return params
}

func (r *RevenueServiceDefault) summarize(charges []*stripe.Charge, pages int, truncated bool) *RevenueResult {
	charges = lo.Filter(charges, func(charge *stripe.Charge, _ int) bool {
		return charge != nil
	})

	result := &RevenueResult{
		Total: lo.SumBy(charges, func(charge *stripe.Charge) int64 {
			return charge.Amount
		}),
		Currency:  r.cfg.DefaultCurrency,
		Count:     len(charges),
		Truncated: truncated,
		Pages:     pages,
	}

	if len(charges) > 0 && charges[0].Currency != "" {
		result.Currency = string(charges[0].Currency)
	}

	return result
}
