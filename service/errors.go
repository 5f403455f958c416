// Package service holds the cache/DB/provider orchestration. Each
// service walks the same ladder: cached response, then local rows when
// at least the hit threshold exists, then a provider fetch that
// persists what it finds. Provider soft failures fall back to local
// data; only hard failures with no fallback reach the handlers.
package service

import "fmt"

// StatusError is a failure the handler can map straight to an HTTP
// status.
type StatusError struct {
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Msg, e.Status)
}

func NewStatusError(status int, msg string) *StatusError {
	return &StatusError{Status: status, Msg: msg}
}
