package router

// Keywords holds the two fixed trigger sets used to classify a query.
type Keywords struct {
	// Explanatory keywords indicate the user wants concepts or documentation.
	Explanatory []string
	// CodeRetrieval keywords indicate the user wants code examples.
	CodeRetrieval []string
}

// DefaultKeywords is the single source of truth for routing keywords.
// Matching is a case-folded substring test, so multi-word entries such as
// "show me" are allowed.
var DefaultKeywords = Keywords{
	Explanatory: []string{
		"how",
		"what",
		"why",
		"explain",
		"concept",
		"best practice",
		"documentation",
		"tutorial",
		"guide",
		"learn",
	},
	CodeRetrieval: []string{
		"code",
		"example",
		"snippet",
		"implement",
		"show me",
		"sample",
		"function",
		"class",
		"script",
	},
}
