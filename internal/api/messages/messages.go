package messages

import (
	"github.com/go-openapi/strfmt"
)

type CreateSessionRequest struct {
	Mode        string            `json:"mode,omitempty"`
	Amount      int64             `json:"amount,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	PriceID     string            `json:"price_id,omitempty"`
	ProductName string            `json:"product_name,omitempty"`
}

type CreateSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type RevenueResponse struct {
	Total     int64            `json:"total"`
	Currency  string           `json:"currency"`
	Count     int              `json:"count"`
	Truncated bool             `json:"truncated"`
	Pages     int              `json:"pages"`
	From      *strfmt.DateTime `json:"from,omitempty"`
	To        *strfmt.DateTime `json:"to,omitempty"`
	Metadata  *MetadataFilter  `json:"metadata,omitempty"`
}

type MetadataFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type RefundRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type RefundResponse struct {
	ID              string `json:"id"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

type PaymentsResponse struct {
	Payments []*Payment `json:"payments"`
	HasMore  bool       `json:"has_more"`
}

type Payment struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Created  strfmt.DateTime   `json:"created"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  string `json:"code,omitempty"`
}
