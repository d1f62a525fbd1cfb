package views

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"eolo-server/internal/modules/weather/countries"
	"eolo-server/internal/modules/weather/types"
)

var pageTmpl *template.Template

var funcs = template.FuncMap{
	"num": func(v *int) string {
		if v == nil {
			return "N/A"
		}
		return strconv.Itoa(*v)
	},
	"lookupHref": LookupHref,
}

// LookupHref links a logged lookup back to the weather page. A coordinate
// lookup (query "lat,lon") repeats by lat/lon, anything else by city.
func LookupHref(l types.Lookup) string {
	v := url.Values{}
	v.Set("country", l.Country)
	if lat, lon, ok := parseCoordQuery(l.Query); ok {
		v.Set("lat", lat)
		v.Set("lon", lon)
	} else {
		v.Set("city", l.Query)
	}
	return "/weather?" + v.Encode()
}

func parseCoordQuery(q string) (lat, lon string, ok bool) {
	lat, lon, found := strings.Cut(q, ",")
	if !found {
		return "", "", false
	}
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if _, err := strconv.ParseFloat(lat, 64); err != nil {
		return "", "", false
	}
	if _, err := strconv.ParseFloat(lon, 64); err != nil {
		return "", "", false
	}
	return lat, lon, true
}

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.New("").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// CountryOption is the view model for a country in the selector.
type CountryOption struct {
	Key      string
	Name     string
	Selected bool
}

// ReportData is the view model for the report partial. Exactly one of
// Report and Error is set.
type ReportData struct {
	Bundle countries.Bundle
	Report *types.Report
	Error  string
}

// MapURL is the OpenStreetMap embed URL centred on the reading, or "" when
// the provider returned no coordinates.
func (d ReportData) MapURL() string {
	if d.Report == nil || !d.Report.Reading.HasCoordinates() {
		return ""
	}
	lat, lon := *d.Report.Reading.Lat, *d.Report.Reading.Lon
	const span = 0.05
	return fmt.Sprintf(
		"https://www.openstreetmap.org/export/embed.html?bbox=%.4f,%.4f,%.4f,%.4f&layer=mapnik&marker=%.4f,%.4f",
		lon-span, lat-span, lon+span, lat+span, lat, lon,
	)
}

type PageData struct {
	Bundle    countries.Bundle
	Countries []CountryOption
	City      string
	Date      string
	Recent    []types.Lookup
	Result    *ReportData // nil on the landing page
}

func RenderPage(w io.Writer, data *PageData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "base", data)
}

// RenderReportPartial executes only the report partial into w.
// Use for HTMX fragment refresh.
func RenderReportPartial(w io.Writer, data *ReportData) error {
	if pageTmpl == nil {
		return errors.New("page template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "report", data)
}
