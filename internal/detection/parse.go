package detection

import (
	"strings"

	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
)

// Result holds the attributes read from a label photo
type Result struct {
	Color                  string            `json:"color"`
	Category               wardrobe.Category `json:"category"`
	Description            string            `json:"description"`
	Brand                  string            `json:"brand"`
	TemperatureSuitability string            `json:"temperature_suitability"`
	WeatherTags            []string          `json:"weather_tags"`
}

var keyFolder = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "î", "i", "ï", "i",
	"ô", "o", "ù", "u", "û", "u", "ç", "c",
)

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.Trim(key, "*-_• ")
	return keyFolder.Replace(key)
}

// Parse reads "Clé: valeur" lines. Keys are matched without regard to case
// or accents; unknown keys and lines without a colon are ignored.
func Parse(text string) Result {
	var r Result
	var rawCategory string

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "*")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch normalizeKey(key) {
		case "couleur", "color":
			r.Color = value
		case "categorie", "category":
			rawCategory = value
		case "description":
			r.Description = value
		case "marque", "brand":
			r.Brand = value
		case "temperature":
			r.TemperatureSuitability = value
		case "meteo", "weather":
			r.WeatherTags = splitTags(value)
		}
	}

	r.Category = categoryFrom(rawCategory, r.Description)
	return r
}

func categoryFrom(raw, description string) wardrobe.Category {
	switch normalizeKey(raw) {
	case "haut", "top", "hauts":
		return wardrobe.CategoryTop
	case "bas", "bottom":
		return wardrobe.CategoryBottom
	case "chaussures", "chaussure", "footwear":
		return wardrobe.CategoryFootwear
	}
	return wardrobe.Classify(raw, description)
}

func splitTags(value string) []string {
	var tags []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ';' || r == '/' }) {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
