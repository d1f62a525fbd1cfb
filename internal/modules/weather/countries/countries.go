// Package countries holds the per-country display bundles: UI strings,
// phrase tables, language and measurement system.
package countries

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"

	"eolo-server/internal/modules/weather/types"
)

// PrecipitationPhrases are the onset messages. RainInHours takes the hour
// count as its single %d verb.
type PrecipitationPhrases struct {
	RainNow       string
	RainInOneHour string
	RainInHours   string
	NoRain        string
}

type AdvicePhrases struct {
	Hot     string
	Cold    string
	Rain    string
	Windy   string
	Storm   string
	Snow    string
	Fog     string
	Clear   string
	Cloudy  string
	Default string
}

type Bundle struct {
	Key         string
	Name        string
	CountryCode string
	Language    language.Tag
	Units       types.MeasurementSystem

	TempUnit   string
	WindUnit   string
	PrecipUnit string

	Title             string
	Subtitle          string
	CountryLabel      string
	CityLabel         string
	DefaultCity       string
	ButtonLabel       string
	TempLabel         string
	WindLabel         string
	HumidityLabel     string
	PrecipLabel       string
	CloudsLabel       string
	DescLabel         string
	LastUpdateCaption string
	LocationHeader    string
	MapWarning        string
	ForecastHeader    string
	AdviceHeader      string
	PrecipHeader      string
	RecentHeader      string
	ConnectorIn       string
	MaxLabel          string
	MinLabel          string

	ErrorProviderUnavailable string
	ErrorInvalidPayload      string
	ErrorNoCity              string
	ForecastWarning          string

	AM, PM        string
	DayFirst      bool
	Weekdays      [7]string
	WeekdaysShort [7]string
	Months        [12]string

	Precipitation PrecipitationPhrases
	Advice        AdvicePhrases
}

// Lang is the two-letter language code sent to the weather provider.
func (b Bundle) Lang() string {
	base, _ := b.Language.Base()
	return base.String()
}

// FormatDateTime renders t as the page header date, e.g.
// "lunes, 05 de enero de 2026, 03:04 p. m.".
func (b Bundle) FormatDateTime(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	marker := b.AM
	if t.Hour() >= 12 {
		marker = b.PM
	}
	weekday := b.Weekdays[t.Weekday()]
	month := b.Months[t.Month()-1]
	if b.DayFirst {
		return fmt.Sprintf("%s, %02d de %s de %d, %02d:%02d %s", weekday, t.Day(), month, t.Year(), hour, t.Minute(), marker)
	}
	return fmt.Sprintf("%s, %s %02d, %d, %02d:%02d %s", weekday, month, t.Day(), t.Year(), hour, t.Minute(), marker)
}

func (b Bundle) ShortWeekday(t time.Time) string {
	return b.WeekdaysShort[t.Weekday()]
}

var bundles = map[string]Bundle{
	"mx": {
		Key:         "mx",
		Name:        "México",
		CountryCode: "MX",
		Language:    language.Spanish,
		Units:       types.Metric,
		TempUnit:    "°C",
		WindUnit:    "km/h",
		PrecipUnit:  "mm",

		Title:             "🌦️ Clima y Pronóstico 🌦️",
		Subtitle:          "Escribe tu ciudad o Estado para obtener el clima en tiempo real y el pronóstico a 5 días.",
		CountryLabel:      "País",
		CityLabel:         "Ciudad",
		DefaultCity:       "Campeche",
		ButtonLabel:       "Ver el clima",
		TempLabel:         "🌡️ Temperatura",
		WindLabel:         "🌬️ Viento",
		HumidityLabel:     "💧 Humedad",
		PrecipLabel:       "🌧️ Precipitación (1h)",
		CloudsLabel:       "☁️ Cobertura de nubes",
		DescLabel:         "Descripción:",
		LastUpdateCaption: "Última actualización de la estación:",
		LocationHeader:    "📍 Ubicación",
		MapWarning:        "No se pudieron obtener las coordenadas para mostrar el mapa.",
		ForecastHeader:    "📅 Pronóstico a 5 Días",
		AdviceHeader:      "💡 Consejo del Día",
		PrecipHeader:      "💧 Pronóstico de Lluvia",
		RecentHeader:      "🕘 Consultas recientes",
		ConnectorIn:       "en",
		MaxLabel:          "Máx",
		MinLabel:          "Mín",

		ErrorProviderUnavailable: "Error de conexión o API: No se pudo obtener el clima. Verifica el nombre de la ciudad.",
		ErrorInvalidPayload:      "No se pudo procesar la respuesta de la API. La ciudad podría no ser válida.",
		ErrorNoCity:              "Por favor, escribe el nombre de una ciudad.",
		ForecastWarning:          "No se pudo obtener el pronóstico del tiempo.",

		AM:            "a. m.",
		PM:            "p. m.",
		DayFirst:      true,
		Weekdays:      [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"},
		WeekdaysShort: [7]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
		Months:        [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},

		Precipitation: PrecipitationPhrases{
			RainNow:       "¡Atención! Es muy probable que comience a llover en cualquier momento.",
			RainInOneHour: "Es muy probable que llueva dentro de la próxima hora.",
			RainInHours:   "Se espera lluvia en aproximadamente %d horas.",
			NoRain:        "No se esperan lluvias en las próximas 12 horas. ✅",
		},
		Advice: AdvicePhrases{
			Hot:     "¡Hace mucho calor! Mantente hidratado y busca la sombra. 💧",
			Cold:    "¡Brrr, hace frío! Asegúrate de abrigarte bien. 🧥",
			Rain:    "Hay lluvia en el pronóstico. ¡No olvides tu paraguas! ☔",
			Windy:   "El viento está fuerte. ¡Ten cuidado con objetos sueltos! 🌬️",
			Storm:   "¡Se esperan tormentas! Es mejor quedarse en un lugar seguro. ⛈️",
			Snow:    "¡Va a nevar! Tiempo perfecto para un chocolate caliente. ❄️",
			Fog:     "Hay niebla, conduce con precaución. 🌫️",
			Clear:   "¡Un día despejado y hermoso! Perfecto para salir a disfrutar. 😎",
			Cloudy:  "El cielo está nublado, pero sigue siendo un buen día. ☁️",
			Default: "Revisa el clima y planifica tu día. ¡Que tengas uno excelente! 👍",
		},
	},
	"us": {
		Key:         "us",
		Name:        "Estados Unidos",
		CountryCode: "US",
		Language:    language.English,
		Units:       types.Imperial,
		TempUnit:    "°F",
		WindUnit:    "mph",
		PrecipUnit:  "in",

		Title:             "🌦️ Weather & Forecast 🌦️",
		Subtitle:          "Enter your city or state to get real-time weather and a 5-day forecast.",
		CountryLabel:      "Country",
		CityLabel:         "City",
		DefaultCity:       "New York",
		ButtonLabel:       "Get Weather",
		TempLabel:         "🌡️ Temperature",
		WindLabel:         "🌬️ Wind",
		HumidityLabel:     "💧 Humidity",
		PrecipLabel:       "🌧️ Precipitation (1h)",
		CloudsLabel:       "☁️ Cloud Cover",
		DescLabel:         "Description:",
		LastUpdateCaption: "Last station update:",
		LocationHeader:    "📍 Location",
		MapWarning:        "Could not get coordinates to display the map.",
		ForecastHeader:    "📅 5-Day Forecast",
		AdviceHeader:      "💡 Tip of the Day",
		PrecipHeader:      "💧 Rain Forecast",
		RecentHeader:      "🕘 Recent lookups",
		ConnectorIn:       "in",
		MaxLabel:          "Max",
		MinLabel:          "Min",

		ErrorProviderUnavailable: "Connection or API Error: Could not get weather. Please check the city name.",
		ErrorInvalidPayload:      "Could not process the API response. The city might be invalid.",
		ErrorNoCity:              "Please, enter a city name.",
		ForecastWarning:          "Could not get the weather forecast.",

		AM:            "AM",
		PM:            "PM",
		DayFirst:      false,
		Weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		WeekdaysShort: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		Months:        [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},

		Precipitation: PrecipitationPhrases{
			RainNow:       "Attention! It is very likely to start raining at any moment.",
			RainInOneHour: "It's very likely to rain within the next hour.",
			RainInHours:   "Rain is expected in approximately %d hours.",
			NoRain:        "No rain is expected in the next 12 hours. ✅",
		},
		Advice: AdvicePhrases{
			Hot:     "It's very hot! Stay hydrated and seek shade. 💧",
			Cold:    "Brrr, it's cold! Make sure to bundle up. 🧥",
			Rain:    "Rain is in the forecast. Don't forget your umbrella! ☔",
			Windy:   "It's windy out there! Be careful with loose objects. 🌬️",
			Storm:   "Storms are expected! It's best to stay indoors. ⛈️",
			Snow:    "It's going to snow! Perfect weather for a hot chocolate. ❄️",
			Fog:     "There is fog, drive carefully. 🌫️",
			Clear:   "A beautiful clear day! Perfect for going out and enjoying. 😎",
			Cloudy:  "The sky is cloudy, but it's still a good day. ☁️",
			Default: "Check the weather and plan your day. Have a great one! 👍",
		},
	},
}

// Get returns the bundle for key (case-insensitive).
func Get(key string) (Bundle, bool) {
	b, ok := bundles[strings.ToLower(strings.TrimSpace(key))]
	return b, ok
}

// All returns every bundle ordered by key.
func All() []Bundle {
	out := make([]Bundle, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
