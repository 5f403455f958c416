// Package provider wraps the three upstream services: the MovieGlu
// cinema/showtime catalog, the Zippopotam ZIP geocoder and the NPS NRHP
// landmark service. Adapters never error for "no data": rate limits,
// empty bodies, invalid JSON and timeouts all come back as typed empty
// results so the services above only ever see one soft-empty shape.
package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 8 * time.Second

// Error carries a non-2xx upstream status plus a truncated body. This
// is the only hard HTTP-level failure adapters surface.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	return "provider error: " + http.StatusText(e.Status) + " - " + e.Body
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// canceled reports whether err came from the request context being cut
// short (timeout or caller abort); both degrade to soft-empty.
func canceled(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// doGet runs the request and classifies the outcome:
//   - body, true, nil: usable 2xx body (may still be empty/invalid JSON)
//   - nil, false, nil: soft-empty (timeout, abort, 429)
//   - nil, false, err: hard failure (transport, or non-2xx with body)
func doGet(client *http.Client, req *http.Request) ([]byte, bool, error) {
	resp, err := client.Do(req)
	if err != nil {
		if canceled(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if canceled(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &Error{Status: resp.StatusCode, Body: truncate(body, 200)}
	}
	return body, true, nil
}
