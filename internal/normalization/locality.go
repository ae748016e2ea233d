package normalization

import "strings"

// Known sub-areas, lowercased. A district hit beats the city label because it
// is finer-grained; an ambiguous hit (two districts in one address) falls back
// to the city. The table is deliberately small and additive.
var districts = map[string]string{
	"capitol hill":     "Capitol Hill",
	"ballard":          "Ballard",
	"fremont":          "Fremont",
	"queen anne":       "Queen Anne",
	"belltown":         "Belltown",
	"south lake union": "South Lake Union",
	"mission district": "Mission District",
	"nob hill":         "Nob Hill",
	"williamsburg":     "Williamsburg",
	"bushwick":         "Bushwick",
	"astoria":          "Astoria",
	"wicker park":      "Wicker Park",
	"logan square":     "Logan Square",
	"shoreditch":       "Shoreditch",
	"camden town":      "Camden Town",
	"le marais":        "Le Marais",
	"shimokitazawa":    "Shimokitazawa",
	"gastown":          "Gastown",
	"kreuzberg":        "Kreuzberg",
}

var countrySuffixes = map[string]bool{
	"usa": true, "us": true, "u.s.a.": true, "united states": true,
	"uk": true, "united kingdom": true, "canada": true, "australia": true,
	"france": true, "germany": true, "japan": true,
}

// DeriveLocality turns a free-text postal address into a best-effort city or
// district label. Total over arbitrary input; returns "" when nothing usable
// remains (callers treat "" as "exclude from this statistic", never as zero).
func DeriveLocality(address string) string {
	segs := splitAddress(address)
	if len(segs) == 0 {
		return ""
	}

	if d := matchDistrict(segs); d != "" {
		return d
	}
	return cityFromSegments(segs)
}

// DeriveCity is DeriveLocality without the district pass.
func DeriveCity(address string) string {
	segs := splitAddress(address)
	if len(segs) == 0 {
		return ""
	}
	return cityFromSegments(segs)
}

func splitAddress(address string) []string {
	parts := strings.Split(address, ",")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

func matchDistrict(segs []string) string {
	found := ""
	for _, s := range segs {
		if d, ok := districts[strings.ToLower(s)]; ok {
			if found != "" && found != d {
				// Ambiguous; let the city label win.
				return ""
			}
			found = d
		}
	}
	return found
}

func cityFromSegments(segs []string) string {
	// Walk from the tail: drop the country segment, then anything carrying
	// digits (postal codes, "IL 62704"), then bare region codes.
	i := len(segs) - 1
	if i >= 0 && countrySuffixes[strings.ToLower(segs[i])] {
		i--
	}
	for i >= 0 && (containsDigit(segs[i]) || looksLikeRegionCode(segs[i])) {
		i--
	}
	if i < 0 {
		return ""
	}
	// A single-segment address is usually just a street; with digits it is
	// not a city label.
	if i == 0 && containsDigit(segs[0]) {
		return ""
	}
	return segs[i]
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func looksLikeRegionCode(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	return s == strings.ToUpper(s) && !containsDigit(s)
}
