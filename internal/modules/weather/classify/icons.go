package classify

const defaultWeatherIcon = "🌍"

// WMO weather interpretation codes grouped into display glyphs.
var weatherCodeIcons = map[int]string{
	0: "☀️", 1: "☀️",
	2:  "⛅",
	3:  "☁️",
	45: "🌫️", 48: "🌫️",
	51: "🌧️", 53: "🌧️", 55: "🌧️", 61: "🌧️", 63: "🌧️", 65: "🌧️", 80: "🌧️", 81: "🌧️", 82: "🌧️",
	66: "❄️", 67: "❄️", 71: "❄️", 73: "❄️", 75: "❄️", 77: "❄️", 85: "❄️", 86: "❄️",
	95: "⛈️", 96: "⛈️", 99: "⛈️",
}

func WeatherCodeIcon(code int) string {
	if icon, ok := weatherCodeIcons[code]; ok {
		return icon
	}
	return defaultWeatherIcon
}
