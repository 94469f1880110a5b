package wardrobe

import "strings"

// Warmth is how much heat an item keeps
type Warmth int

const (
	WarmthNeutral Warmth = iota
	WarmthWarm
	WarmthLight
)

var (
	warmKeywords = []string{
		"manteau", "doudoune", "parka", "pull", "laine", "sweat", "hoodie", "polaire",
		"botte", "bottine", "écharpe", "gilet", "cardigan", "thermique", "hiver", "velours",
	}
	lightKeywords = []string{
		"short", "débardeur", "debardeur", "t-shirt", "tee-shirt", "tshirt", "sandale",
		"tong", "en lin", "bermuda", "jupe", "espadrille", "été", "polo",
	}
)

// Warmth uses the detected temperature suitability when it is conclusive,
// then falls back to keywords in name and description.
func (i *Item) Warmth() Warmth {
	suitability := strings.ToLower(i.TemperatureSuitability)
	cold := strings.Contains(suitability, "froid")
	hot := strings.Contains(suitability, "chaud")
	switch {
	case cold && !hot:
		return WarmthWarm
	case hot && !cold:
		return WarmthLight
	}

	text := strings.ToLower(i.Name + " " + i.Description)
	switch {
	case containsAny(text, warmKeywords):
		return WarmthWarm
	case containsAny(text, lightKeywords):
		return WarmthLight
	default:
		return WarmthNeutral
	}
}
