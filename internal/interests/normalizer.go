package interests

import "strings"

// normalizationTable maps common variations and synonyms to canonical
// interest labels. Grouping related phrasings under one label keeps two
// users' lists comparable: "makeup" and "skincare" must land on the same
// term before pairwise matching sees them.
var normalizationTable = map[string]string{
	// Beauty & style
	"makeup":     "beauty & self-expression",
	"cosmetics":  "beauty & self-expression",
	"skincare":   "beauty & self-expression",
	"fashion":    "fashion & style",
	"clothing":   "fashion & style",
	"streetwear": "fashion & style",
	"outfits":    "fashion & style",

	// Photography & visual arts
	"photography":        "photography",
	"photos":             "photography",
	"golden hour":        "photography",
	"portraits":          "portrait photography",
	"street photography": "street photography",
	"aesthetic photos":   "visual aesthetics",
	"aesthetics":         "visual aesthetics",

	// Music
	"indie music":       "indie & alternative music",
	"alternative music": "indie & alternative music",
	"niche music":       "indie & alternative music",
	"underground music": "indie & alternative music",

	// Tech & coding
	"coding":           "software development",
	"programming":      "software development",
	"software":         "software development",
	"tech":             "technology",
	"ai":               "artificial intelligence",
	"machine learning": "artificial intelligence",

	// Sports & fitness
	"running":      "running & cardio",
	"jogging":      "running & cardio",
	"snowboarding": "winter sports",
	"skiing":       "winter sports",
	"fitness":      "health & fitness",
	"gym":          "health & fitness",
	"workout":      "health & fitness",
}

// Normalize maps a raw interest phrase to its canonical label. Lookup is
// case- and whitespace-insensitive; unmapped input is returned lower-cased
// and trimmed, so the function is total and idempotent.
func Normalize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := normalizationTable[lower]; ok {
		return canonical
	}
	return lower
}
