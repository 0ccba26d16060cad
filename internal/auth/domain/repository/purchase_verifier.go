package repository

import (
	"context"

	"ielts-genai-prep/internal/auth/domain/model"
)

// PurchaseReceipt is the proof of an in-app purchase handed over by the
// mobile app. The opaque payload is whatever the store billing API returned.
type PurchaseReceipt struct {
	Platform      string `json:"platform"` // "apple" or "google"
	ProductID     string `json:"product_id"`
	TransactionID string `json:"transaction_id"`
	Payload       string `json:"payload"`
}

// PurchaseVerifier confirms that a purchase actually happened before a token
// may be issued. The real verification against Apple/Google billing lives
// behind this interface; the token issuer only ever sees the entitlement the
// receipt unlocks, or model.ErrPurchaseDenied.
type PurchaseVerifier interface {
	Verify(ctx context.Context, receipt PurchaseReceipt) (model.Entitlement, error)
}
