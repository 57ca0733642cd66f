package domain

// TopicCandidate is one AI-proposed title + overview pair, as returned by the
// topic generation endpoint before local ids are assigned.
type TopicCandidate struct {
	Title    string `json:"title"`
	Overview string `json:"overview"`
	// Rationale optionally explains why the topic was proposed.
	Rationale string `json:"rationale,omitempty"`
}

// TopicAnalysis is the structured critique of an uploaded proposal returned by
// the analysis endpoint.
type TopicAnalysis struct {
	// Feasibility assesses whether the proposed research is achievable.
	Feasibility string `json:"feasibility"`

	// Innovation assesses the novelty of the proposal.
	Innovation string `json:"innovation"`

	// Suggestions lists concrete improvement points.
	Suggestions []string `json:"suggestions"`

	// RefinedTopic optionally proposes an improved thesis title.
	RefinedTopic string `json:"refined_topic,omitempty"`
}

// OutlineItem is one generated outline entry before it is mapped into a
// Section with a synthetic id.
type OutlineItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Suggestion is one refinement critique pair: a highlighted passage and the
// advisor's comment on it.
type Suggestion struct {
	Text    string `json:"text"`
	Comment string `json:"comment"`
}

// Project is the gateway's record of a persisted writing project.
type Project struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}
