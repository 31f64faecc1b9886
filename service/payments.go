package service

import (
	"context"
	"go.lumeweb.com/portal-plugin-payments/internal/service"
)

const (
	CHECKOUT_SERVICE = service.CHECKOUT_SERVICE
	WEBHOOK_SERVICE  = service.WEBHOOK_SERVICE
	REVENUE_SERVICE  = service.REVENUE_SERVICE
)

type Service interface {
	ID() string
}

type CheckoutService interface {
	Service

	// CreateSession validates req and creates exactly one hosted checkout session
	CreateSession(ctx context.Context, req *SessionRequest) (*SessionResult, error)
}

type WebhookService interface {
	Service

	// Verify checks the signature header against the raw payload and parses the event
	Verify(payload []byte, signature string) (*VerifiedEvent, error)

	// Dispatch delivers a verified event to at most one handler
	Dispatch(ctx context.Context, event *VerifiedEvent, handlers HandlerMap) (*VerifiedEvent, error)

	// HandleRaw verifies and dispatches in one step
	HandleRaw(ctx context.Context, payload []byte, signature string, handlers HandlerMap) (*VerifiedEvent, error)
}

type RevenueService interface {
	Service

	// TotalRevenue sums every charge in the filter's range
	TotalRevenue(ctx context.Context, filter *RevenueFilter) (*RevenueResult, error)

	// RevenueByMetadata sums the charges whose metadata[key] equals value
	RevenueByMetadata(ctx context.Context, key, value string, filter *RevenueFilter) (*RevenueResult, error)

	// Refund fully refunds a payment intent
	Refund(ctx context.Context, paymentIntentID string) (*RefundResult, error)

	// ListPayments returns the most recent payment intents
	ListPayments(ctx context.Context, limit int64) (*PaymentIntentPage, error)
}

type (
	SessionMode          = service.SessionMode
	SessionRequest       = service.SessionRequest
	SessionResult        = service.SessionResult
	VerifiedEvent        = service.VerifiedEvent
	HandlerFunc          = service.HandlerFunc
	HandlerMap           = service.HandlerMap
	Object               = service.Object
	RevenueFilter        = service.RevenueFilter
	RevenueResult        = service.RevenueResult
	RefundResult         = service.RefundResult
	PaymentIntentPage    = service.PaymentIntentPage
	PaymentIntentSummary = service.PaymentIntentSummary
	Error                = service.Error
	ErrorKind            = service.ErrorKind
)

const (
	SessionModePayment      = service.SessionModePayment
	SessionModeSubscription = service.SessionModeSubscription

	KindConfiguration = service.KindConfiguration
	KindValidation    = service.KindValidation
	KindUpstream      = service.KindUpstream
	KindSignature     = service.KindSignature
)

var (
	ErrConfiguration = service.ErrConfiguration
	ErrValidation    = service.ErrValidation
	ErrUpstream      = service.ErrUpstream
	ErrSignature     = service.ErrSignature
)

func NewHandlerMap() HandlerMap {
	return service.NewHandlerMap()
}

func NewObject(raw []byte) Object {
	return service.NewObject(raw)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	return service.KindOf(err)
}

var _ CheckoutService = (*service.CheckoutServiceDefault)(nil)
var _ WebhookService = (*service.WebhookServiceDefault)(nil)
var _ RevenueService = (*service.RevenueServiceDefault)(nil)
