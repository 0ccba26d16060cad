package model

import "time"

// AuthToken is the short-lived, single-use credential bridging a verified
// mobile purchase to a web session. The ID is the sole transferable secret;
// it must never be derived from time or a sequence.
type AuthToken struct {
	ID          string      `json:"token_id" bson:"_id"`
	OwnerID     string      `json:"owner_id" bson:"owner_id"`
	Entitlement Entitlement `json:"entitlement" bson:"entitlement"`
	IssuedAt    time.Time   `json:"issued_at" bson:"issued_at"`
	ExpiresAt   time.Time   `json:"expires_at" bson:"expires_at"`
	Consumed    bool        `json:"consumed" bson:"consumed"`
}

// IsExpired reports whether the token is past its expiry at the given instant.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// QRPayload is what the mobile app encodes into the QR code. Rendering the
// code itself happens client side.
type QRPayload struct {
	TokenID  string    `json:"token_id"`
	Domain   string    `json:"domain"`
	IssuedAt time.Time `json:"issued_at"`
}
