package controller

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/service"
	"eolo-server/internal/modules/weather/views"
	"eolo-server/internal/utils"
)

const (
	defaultLookupsLimit = 20
	maxLookupsLimit     = 100
	pageRecentLimit     = 10
)

var errPartialCoordinates = errors.New("'lat' and 'lon' must be given together")

// parseLookupRequest reads country, city and the optional coordinate pair.
func parseLookupRequest(r *http.Request) (service.LookupRequest, error) {
	q := r.URL.Query()
	req := service.LookupRequest{
		Country: strings.TrimSpace(q.Get("country")),
		City:    strings.TrimSpace(q.Get("city")),
	}
	lat, err := utils.FloatParam(q, "lat", -90, 90)
	if err != nil {
		return service.LookupRequest{}, err
	}
	lon, err := utils.FloatParam(q, "lon", -180, 180)
	if err != nil {
		return service.LookupRequest{}, err
	}
	if (lat == nil) != (lon == nil) {
		return service.LookupRequest{}, errPartialCoordinates
	}
	req.Lat, req.Lon = lat, lon
	return req, nil
}

// statusFor maps a lookup error to the API status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNoCity), errors.Is(err, service.ErrUnknownCountry):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrInvalidPayload):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the bundle's wording for a lookup error.
func userMessage(b countries.Bundle, err error) string {
	switch {
	case errors.Is(err, service.ErrNoCity):
		return b.ErrorNoCity
	case errors.Is(err, service.ErrProviderUnavailable):
		return b.ErrorProviderUnavailable
	case errors.Is(err, service.ErrInvalidPayload):
		return b.ErrorInvalidPayload
	default:
		return err.Error()
	}
}

func countryOptions(selected string) []views.CountryOption {
	all := countries.All()
	opts := make([]views.CountryOption, 0, len(all))
	for _, b := range all {
		opts = append(opts, views.CountryOption{Key: b.Key, Name: b.Name, Selected: b.Key == selected})
	}
	return opts
}

// writeHTML renders into a buffer first so a template failure still yields
// a clean 500.
func writeHTML(w http.ResponseWriter, name string, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		slog.Error(name+" render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error(name+": write response failed", "error", err)
	}
}
