// Package provider holds what the weather data clients have in common: the
// two failure kinds and small numeric helpers for decoding loose JSON.
package provider

import (
	"errors"
	"math"
	"net/http"
	"time"
)

var (
	// ErrProviderUnavailable covers transport failures, timeouts and non-2xx
	// responses.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	// ErrInvalidPayload means the provider answered but the body could not
	// be interpreted.
	ErrInvalidPayload = errors.New("invalid weather provider payload")
)

const DefaultTimeout = 10 * time.Second

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Number reports v as a float64 when it holds a JSON number.
func Number(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RoundInt rounds half away from zero.
func RoundInt(v float64) int {
	return int(math.Round(v))
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
