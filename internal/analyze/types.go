package analyze

// Request is one analysis batch: which sellers to inspect and the minimum
// confidence a listing needs to show up in the results. Username order is
// preserved; duplicates are harmless.
type Request struct {
	Usernames []string `json:"usernames"`
	Threshold int      `json:"threshold"`
}

// DefaultThreshold applies when the caller doesn't send one.
const DefaultThreshold = 50

// AnalysisRecord is one listing joined with its assessment. Only listings at
// or above the request threshold become records.
type AnalysisRecord struct {
	ItemID     string `json:"item_id"`
	URL        string `json:"url"`
	ImageURL   string `json:"image_url"`
	Title      string `json:"title"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}

// Response holds the filtered, confidence-sorted records and one error entry
// per seller that yielded nothing.
type Response struct {
	Results []AnalysisRecord `json:"results"`
	Errors  []string         `json:"errors,omitempty"`
}
