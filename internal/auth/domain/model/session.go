package model

import "time"

// WebSession is the longer-lived credential created by consuming exactly one
// AuthToken. It never grants access beyond the entitlement of that token and
// is not refreshed by use.
type WebSession struct {
	ID          string      `json:"session_id" bson:"_id"`
	OwnerID     string      `json:"owner_id" bson:"owner_id"`
	Entitlement Entitlement `json:"entitlement" bson:"entitlement"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time   `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the session is past its expiry at the given instant.
func (s *WebSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
