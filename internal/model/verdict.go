// internal/model/verdict.go
package model

// FactorScores is the optional per-factor breakdown returned by the AI
// scoring service. Each score is in [0,1].
type FactorScores struct {
	Length     float64 `json:"length"`
	Clarity    float64 `json:"clarity"`
	Relevance  float64 `json:"relevance"`
	Engagement float64 `json:"engagement"`
	Compliance float64 `json:"compliance"`
}

// Verdict is the structured validation result stored on the announcement.
type Verdict struct {
	Valid       bool          `json:"valid"`
	Score       float64       `json:"score"`
	Issues      []string      `json:"issues"`
	Feedback    string        `json:"feedback,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
	Factors     *FactorScores `json:"factors,omitempty"`
}
