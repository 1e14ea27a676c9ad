package keywords

import "strings"

// Stem applies a lightweight suffix-stripping stemmer. It is not a full
// Porter stemmer; it only needs to be internally consistent between the job
// side and the resume side so matching terms collapse to the same stem.
func Stem(token string) string {
	n := len(token)
	switch {
	case n > 5 && strings.HasSuffix(token, "ization"):
		return token[:n-7] + "ize"
	case n > 4 && strings.HasSuffix(token, "ies"):
		return token[:n-3] + "y"
	case n > 5 && strings.HasSuffix(token, "sses"):
		return token[:n-2]
	case n > 5 && strings.HasSuffix(token, "ing"):
		return token[:n-3]
	case n > 4 && strings.HasSuffix(token, "ed"):
		return token[:n-2]
	case n > 4 && strings.HasSuffix(token, "ly"):
		return token[:n-2]
	case n > 3 && strings.HasSuffix(token, "es") && !strings.HasSuffix(token, "sses"):
		return token[:n-2]
	case n > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss"):
		return token[:n-1]
	default:
		return token
	}
}
