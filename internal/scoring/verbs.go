package scoring

// strongVerbs is the curated list of action verbs that signal
// achievement-oriented experience bullets. Matched case-insensitively
// against the first word of bullet-like lines.
var strongVerbs = map[string]struct{}{}

func init() {
	for _, v := range []string{
		"accelerated", "achieved", "architected", "automated", "built",
		"championed", "created", "cut", "delivered", "designed", "developed",
		"directed", "drove", "established", "expanded", "grew", "implemented",
		"improved", "increased", "initiated", "launched", "led", "managed",
		"mentored", "migrated", "modernized", "negotiated", "optimized",
		"orchestrated", "overhauled", "owned", "pioneered", "reduced",
		"refactored", "redesigned", "saved", "scaled", "shipped",
		"spearheaded", "streamlined", "transformed",
	} {
		strongVerbs[v] = struct{}{}
	}
}

func isStrongVerb(word string) bool {
	_, ok := strongVerbs[word]
	return ok
}
