package models

import "net/http"

// ErrorResponse is the structured failure produced when an upstream fetch
// cannot be relayed. Every adapter converts it into its host framework's
// native response shape; it is always fully populated and never nil-valued.
type ErrorResponse struct {
	Status int
	Body   []byte
	Header http.Header
}
