package api

import (
	"go.lumeweb.com/portal-plugin-payments/internal/api/messages"
	"go.lumeweb.com/portal-plugin-payments/service"
	"net/http"
)

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := newContext(w, r, a.logger)

	var req messages.CreateSessionRequest
	if err := ctx.Decode(&req); err != nil {
		ctx.Error(err, http.StatusBadRequest)
		return
	}

	result, err := a.checkoutService.CreateSession(r.Context(), &service.SessionRequest{
		Mode:           service.SessionMode(req.Mode),
		Amount:         req.Amount,
		Currency:       req.Currency,
		SuccessURL:     req.SuccessURL,
		CancelURL:      req.CancelURL,
		Metadata:       req.Metadata,
		PriceID:        req.PriceID,
		ProductName:    req.ProductName,
		IdempotencyKey: r.Header.Get(IdempotencyKeyHeader),
	})
	if err != nil {
		ctx.Error(err, 0)
		return
	}

	ctx.EncodeStatus(http.StatusCreated, &messages.CreateSessionResponse{
		ID:  result.ID,
		URL: result.URL,
	})
}
