package keywords

// stopwords is the fixed list of terms dropped before stemming. It combines
// common English function words with job-posting boilerplate that carries no
// matching signal (every posting asks for "experience" and a "strong
// candidate"; matching on those would inflate every score equally).
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// function words
		"a", "an", "and", "are", "as", "at", "be", "been", "but", "by",
		"can", "could", "do", "does", "for", "from", "had", "has", "have",
		"if", "in", "into", "is", "it", "its", "may", "more", "most", "much",
		"must", "no", "not", "of", "on", "or", "our", "out", "over", "per",
		"should", "so", "such", "than", "that", "the", "their", "them",
		"then", "there", "these", "they", "this", "through", "to", "under",
		"up", "upon", "us", "was", "we", "were", "what", "when", "where",
		"which", "while", "who", "will", "with", "within", "would", "you",
		"your",

		// job-posting boilerplate
		"ability", "abilities", "applicant", "applicants", "apply",
		"benefits", "bonus", "candidate", "candidates", "company",
		"compensation", "degree", "demonstrated", "description", "desired",
		"detail", "details", "duties", "eeo", "employee", "employees",
		"employer", "employment", "engineer", "engineers", "equal",
		"excellent", "experience", "experiences", "experienced", "familiar",
		"familiarity", "hire", "hiring", "ideal", "include", "includes",
		"including", "job", "join", "knowledge", "looking", "member",
		"minimum", "opportunity", "opportunities", "organization", "plus",
		"position", "preferred", "proficiency", "proficient", "qualified",
		"qualification", "qualifications", "required", "requirement",
		"requirements", "responsibilities", "responsibility", "responsible",
		"role", "salary", "seeking", "skill", "skills", "strong", "team",
		"teams", "understanding", "work", "working", "years",
	} {
		stopwords[w] = struct{}{}
	}
}

// isStopword reports whether the lowercase token is on the fixed stop list.
func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
