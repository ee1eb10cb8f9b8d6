package charts

import (
	"fmt"
	"image/color"

	"github.com/lox/bikedash/internal/models"
)

// coolwarm, one colour per weathersit code 1-4 (clear to storm).
var weatherPalette = map[int]string{
	1: "#3b4cc0",
	2: "#aac7fd",
	3: "#f7b89c",
	4: "#b40426",
}

// Blues, light to dark, indexed by year indicator.
var yearPalette = []string{"#9ecae1", "#3182bd"}

var dayTypeColors = map[models.DayType]string{
	models.DayTypeWorking: "#0000ff",
	models.DayTypeWeekend: "#008000",
	models.DayTypeHoliday: "#ff0000",
}

const fallbackColor = "#808080"

func weatherColor(code int) string {
	if c, ok := weatherPalette[code]; ok {
		return c
	}
	return fallbackColor
}

func yearColor(yr int) string {
	if yr >= 0 && yr < len(yearPalette) {
		return yearPalette[yr]
	}
	return fallbackColor
}

// rgba parses a #rrggbb colour.
func rgba(hex string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{128, 128, 128, 255}
	}
	return color.RGBA{r, g, b, 255}
}
