package messages

// WebhookReceivedResponse acknowledges a verified and dispatched webhook event
type WebhookReceivedResponse struct {
	Received bool `json:"received"`
}
