package model

// Candidate is a possible slang term found in a piece of text
type Candidate struct {
	Term           string  `json:"term"`
	Context        string  `json:"context"`         // First 200 characters of the source text
	Pattern        string  `json:"pattern"`         // Which rule matched
	Confidence     float64 `json:"confidence"`      // 0.0-1.0
	SourcePlatform string  `json:"source_platform"` // Platform the text came from
}

// Candidate patterns
const (
	PatternFashionWhitelist = "fashion_whitelist"
	PatternGenAlpha         = "gen_alpha_confirmed"
	PatternQuoted           = "quoted"
	PatternDefinition       = "definition"
	PatternSocialIndicators = "social_indicators"
	PatternNewTerm          = "new_term"
	PatternExplanation      = "explanation"
)
