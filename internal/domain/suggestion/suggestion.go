package suggestion

import (
	"fmt"
	"strings"

	"github.com/gravadigital/fring-api/internal/domain/wardrobe"
)

// Band is a temperature range driving the warmth filter
type Band string

const (
	BandCold Band = "cold"
	BandMild Band = "mild"
	BandHot  Band = "hot"
)

const (
	coldBelow = 12.0
	hotAbove  = 22.0
)

// BandFor maps a temperature in °C to its band; 12 and 22 are both mild
func BandFor(celsius float64) Band {
	switch {
	case celsius < coldBelow:
		return BandCold
	case celsius > hotAbove:
		return BandHot
	default:
		return BandMild
	}
}

// Accepts reports whether an item of the given warmth suits the band
func (b Band) Accepts(w wardrobe.Warmth) bool {
	switch b {
	case BandCold:
		return w != wardrobe.WarmthLight
	case BandHot:
		return w != wardrobe.WarmthWarm
	default:
		return true
	}
}

// Weather is the reading a suggestion is computed for
type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

// Suggestion is one item per slot plus a sentence for the user
type Suggestion struct {
	Top      *wardrobe.Item      `json:"top,omitempty"`
	Bottom   *wardrobe.Item      `json:"bottom,omitempty"`
	Footwear *wardrobe.Item      `json:"footwear,omitempty"`
	Missing  []wardrobe.Category `json:"missing,omitempty"`
	Band     Band                `json:"band"`
	Weather  Weather             `json:"weather"`
	Message  string              `json:"message"`
}

// Suggest picks, for each slot, the first item in wardrobe order that suits
// the temperature. A slot with no suitable item falls back to its first item;
// a slot with no item at all stays empty and is reported as missing.
func Suggest(items []*wardrobe.Item, weather Weather) Suggestion {
	band := BandFor(weather.Temperature)

	first := make(map[wardrobe.Category]*wardrobe.Item, len(wardrobe.Slots))
	chosen := make(map[wardrobe.Category]*wardrobe.Item, len(wardrobe.Slots))
	for _, item := range items {
		if item == nil {
			continue
		}
		slot := item.Slot()
		if !slot.IsSlot() {
			continue
		}
		if first[slot] == nil {
			first[slot] = item
		}
		if chosen[slot] == nil && band.Accepts(item.Warmth()) {
			chosen[slot] = item
		}
	}

	s := Suggestion{Band: band, Weather: weather}
	for _, slot := range wardrobe.Slots {
		item := chosen[slot]
		if item == nil {
			item = first[slot]
		}
		switch slot {
		case wardrobe.CategoryTop:
			s.Top = item
		case wardrobe.CategoryBottom:
			s.Bottom = item
		case wardrobe.CategoryFootwear:
			s.Footwear = item
		}
		if item == nil {
			s.Missing = append(s.Missing, slot)
		}
	}
	s.Message = message(s)
	return s
}

var slotLabels = map[wardrobe.Category]string{
	wardrobe.CategoryTop:      "haut",
	wardrobe.CategoryBottom:   "bas",
	wardrobe.CategoryFootwear: "chaussures",
}

var bandAdvice = map[Band]string{
	BandCold: "Couvrez-vous bien",
	BandMild: "Temps agréable",
	BandHot:  "Restez léger",
}

func message(s Suggestion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Il fait %.0f°C", s.Weather.Temperature)
	if s.Weather.Description != "" {
		fmt.Fprintf(&b, " (%s)", s.Weather.Description)
	}
	b.WriteString(". ")

	var names []string
	for _, item := range []*wardrobe.Item{s.Top, s.Bottom, s.Footwear} {
		if item != nil {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		b.WriteString("Ajoutez des vêtements à votre garde-robe pour recevoir une suggestion.")
		return b.String()
	}

	fmt.Fprintf(&b, "%s : nous vous suggérons %s.", bandAdvice[s.Band], joinFrench(names))
	if len(s.Missing) > 0 {
		missing := make([]string, 0, len(s.Missing))
		for _, slot := range s.Missing {
			missing = append(missing, slotLabels[slot])
		}
		fmt.Fprintf(&b, " Il manque : %s.", joinFrench(missing))
	}
	return b.String()
}

func joinFrench(parts []string) string {
	if len(parts) <= 1 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " et " + parts[len(parts)-1]
}
