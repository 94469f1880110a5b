package wardrobe

import "strings"

// Keyword lists are checked in this order; the first list with a hit wins.
var (
	topKeywords = []string{
		"t-shirt", "tee-shirt", "tshirt", "chemise", "pull", "sweat", "veste", "manteau",
		"blouson", "haut", "top", "débardeur", "debardeur", "polo", "gilet", "hoodie",
		"blouse", "doudoune", "parka", "cardigan",
	}
	bottomKeywords = []string{
		"jean", "pantalon", "short", "jupe", "bermuda", "jogging", "legging", "chino",
	}
	footwearKeywords = []string{
		"basket", "chaussure", "sneaker", "botte", "bottine", "sandale", "mocassin",
		"escarpin", "derby", "tennis", "espadrille", "talon", "tong",
	}
)

// Classify infers the slot of an item from its free text. Matching is a
// case-insensitive substring search; text matching no list is CategoryOther.
func Classify(name, description string) Category {
	text := strings.ToLower(name + " " + description)

	switch {
	case containsAny(text, topKeywords):
		return CategoryTop
	case containsAny(text, bottomKeywords):
		return CategoryBottom
	case containsAny(text, footwearKeywords):
		return CategoryFootwear
	default:
		return CategoryOther
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
