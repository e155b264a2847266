package model

// Tier identifies which responder a fact table serves.
type Tier string

const (
	TierGeneral Tier = "general"
	TierSenior  Tier = "senior"
)

// FactEntry is a single question/answer pair in a fact table.
// Entries are immutable after load.
type FactEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MatchResult is the outcome of a fuzzy lookup against a fact table.
type MatchResult struct {
	// Entry is the best-matching fact
	Entry FactEntry `json:"entry"`

	// Score is the similarity between the query and Entry.Question, 0-100.
	// The store never enforces a threshold; callers interpret the score.
	Score int `json:"score"`
}
