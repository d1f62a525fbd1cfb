package controller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/service"
	"eolo-server/internal/modules/weather/types"
	"eolo-server/internal/modules/weather/views"
	"eolo-server/internal/utils"
)

func (c *weatherControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	bundle, ok := c.pageBundle(w, r)
	if !ok {
		return
	}
	data := c.pageData(r.Context(), bundle, bundle.DefaultCity)
	writeHTML(w, "index", func(w io.Writer) error { return views.RenderPage(w, data) })
}

func (c *weatherControllerImpl) handleWeatherPage(w http.ResponseWriter, r *http.Request) {
	bundle, ok := c.pageBundle(w, r)
	if !ok {
		return
	}
	result := c.lookup(r, bundle)
	data := c.pageData(r.Context(), bundle, strings.TrimSpace(r.URL.Query().Get("city")))
	data.Result = result
	writeHTML(w, "weather page", func(w io.Writer) error { return views.RenderPage(w, data) })
}

func (c *weatherControllerImpl) handleReportPartial(w http.ResponseWriter, r *http.Request) {
	bundle, ok := c.pageBundle(w, r)
	if !ok {
		return
	}
	result := c.lookup(r, bundle)
	writeHTML(w, "report partial", func(w io.Writer) error { return views.RenderReportPartial(w, result) })
}

// pageBundle resolves ?country= for the HTML pages. An unknown key falls
// back to the default country instead of failing the page.
func (c *weatherControllerImpl) pageBundle(w http.ResponseWriter, r *http.Request) (countries.Bundle, bool) {
	key := r.URL.Query().Get("country")
	bundle, err := c.service.Bundle(key)
	if err == nil {
		return bundle, true
	}
	slog.Warn("page: unknown country, using default", "country", key)
	bundle, err = c.service.Bundle("")
	if err != nil {
		slog.Error("page: default country unavailable", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load country")
		return countries.Bundle{}, false
	}
	return bundle, true
}

func (c *weatherControllerImpl) pageData(ctx context.Context, bundle countries.Bundle, city string) *views.PageData {
	recent, err := c.service.RecentLookups(ctx, bundle.Key, pageRecentLimit)
	if err != nil {
		slog.Error("page: recent lookups failed", "country", bundle.Key, "error", err)
		recent = nil
	}
	return &views.PageData{
		Bundle:    bundle,
		Countries: countryOptions(bundle.Key),
		City:      city,
		Date:      bundle.FormatDateTime(c.now()),
		Recent:    recent,
	}
}

// lookup runs the request against the service and turns failures into the
// bundle's message. The country is always the already resolved bundle.
func (c *weatherControllerImpl) lookup(r *http.Request, bundle countries.Bundle) *views.ReportData {
	req, err := parseLookupRequest(r)
	if err != nil {
		return &views.ReportData{Bundle: bundle, Error: err.Error()}
	}
	req.Country = bundle.Key
	report, err := c.service.Lookup(r.Context(), req)
	if err != nil {
		return &views.ReportData{Bundle: bundle, Error: userMessage(bundle, err)}
	}
	return &views.ReportData{Bundle: bundle, Report: &report}
}

type countryJSON struct {
	Key         string                  `json:"key"`
	Name        string                  `json:"name"`
	CountryCode string                  `json:"countryCode"`
	Language    string                  `json:"language"`
	Units       types.MeasurementSystem `json:"units"`
	DefaultCity string                  `json:"defaultCity"`
}

func (c *weatherControllerImpl) handleCountries(w http.ResponseWriter, r *http.Request) {
	all := countries.All()
	out := make([]countryJSON, 0, len(all))
	for _, b := range all {
		out = append(out, countryJSON{
			Key:         b.Key,
			Name:        b.Name,
			CountryCode: b.CountryCode,
			Language:    b.Lang(),
			Units:       b.Units,
			DefaultCity: b.DefaultCity,
		})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (c *weatherControllerImpl) handleWeather(w http.ResponseWriter, r *http.Request) {
	req, err := parseLookupRequest(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	bundle, err := c.service.Bundle(req.Country)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := c.service.Lookup(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("weather lookup failed", "country", bundle.Key, "error", err)
		}
		utils.WriteError(w, status, userMessage(bundle, err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, report)
}

func (c *weatherControllerImpl) handleLookups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := utils.IntParam(q, "limit", defaultLookupsLimit, 1, maxLookupsLimit)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	lookups, err := c.service.RecentLookups(r.Context(), strings.TrimSpace(q.Get("country")), limit)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCountry) {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("recent lookups failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load lookups")
		return
	}
	if lookups == nil {
		lookups = []types.Lookup{}
	}
	utils.WriteJSON(w, http.StatusOK, lookups)
}
