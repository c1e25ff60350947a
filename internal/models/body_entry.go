package models

import "time"

// BodyEntry is a cached upstream response body with its expiry bookkeeping.
// Timestamps are Unix seconds so the entry survives JSON round-trips through
// byte-oriented backends unchanged.
type BodyEntry struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
	CreatedAt   int64  `json:"created_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

// IsExpired reports whether the entry is past its expiry time.
func (e *BodyEntry) IsExpired() bool {
	return e.ExpiresAt > 0 && time.Now().Unix() >= e.ExpiresAt
}
