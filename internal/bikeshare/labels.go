package bikeshare

import "strconv"

var weatherLabels = map[int]string{
	1: "Cerah",
	2: "Mendung",
	3: "Hujan Ringan",
	4: "Hujan Lebat",
}

var weatherNames = map[int]string{
	1: "Clear",
	2: "Cloudy",
	3: "Light Rain",
	4: "Heavy Rain/Storm",
}

// WeatherLabel returns the dashboard (Indonesian) label for a weathersit code.
func WeatherLabel(code int) string {
	if l, ok := weatherLabels[code]; ok {
		return l
	}
	return strconv.Itoa(code)
}

// WeatherName returns the English name for a weathersit code.
func WeatherName(code int) string {
	if n, ok := weatherNames[code]; ok {
		return n
	}
	return strconv.Itoa(code)
}

// YearLabel maps the yr indicator to the calendar year.
func YearLabel(yr int) string {
	return strconv.Itoa(2011 + yr)
}
