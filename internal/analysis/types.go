package analysis

// ContentAnalysis is the structured critical-thinking assessment returned
// by the analyze endpoint.
type ContentAnalysis struct {
	Summary                string             `json:"summary"`
	SpeakerReliability     SpeakerReliability `json:"speakerReliability"`
	Fallacies              []FallacyItem      `json:"fallacies"`
	RhetoricalTricks       []RhetoricalTrick  `json:"rhetoricalTricks"`
	CredibilityScore       int                `json:"credibilityScore"`
	CredibilityExplanation string             `json:"credibilityExplanation"`
	KeyTakeaways           []string           `json:"keyTakeaways"`
	HowToAvoid             []AvoidanceItem    `json:"howToAvoid"`
}

// SpeakerReliability scores how reliable the speaker or author appears.
type SpeakerReliability struct {
	Score      int      `json:"score"`
	Assessment string   `json:"assessment"`
	Factors    []string `json:"factors"`
}

// FallacyItem is one logical fallacy found in the content.
type FallacyItem struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
	Quote       string `json:"quote"`
	Severity    string `json:"severity"` // high | medium | low
}

// RhetoricalTrick is one persuasion technique found in the content.
type RhetoricalTrick struct {
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
	Quote       string `json:"quote"`
}

// AvoidanceItem pairs a reasoning mistake with advice on spotting it.
type AvoidanceItem struct {
	Mistake string `json:"mistake"`
	Advice  string `json:"advice"`
}

// ChatMessage is one turn of the follow-up conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user | assistant
	Content string `json:"content"`
}
