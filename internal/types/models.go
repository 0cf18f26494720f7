package types

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	VideoURL        string `json:"video_url"`
	RequestedAccent string `json:"requested_accent"`
}

// AccentProb is one entry of top_3.
type AccentProb struct {
	Accent string  `json:"accent"`
	Prob   float64 `json:"prob"`
}

// ClassifyResponse is the success payload of POST /classify.
type ClassifyResponse struct {
	DetectedAccent        string       `json:"detected_accent"`
	Confidence            float64      `json:"confidence"`
	Top3                  []AccentProb `json:"top_3"`
	RequestedAccentRaw    string       `json:"requested_accent_raw"`
	RequestedAccentParsed *string      `json:"requested_accent_parsed"`
	Match                 bool         `json:"match"`
	MatchType             string       `json:"match_type"`
	Verdict               string       `json:"verdict"`
}

// ErrorResponse is the payload of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// BatchRecord is one row of a batch evaluation sheet.
type BatchRecord struct {
	Row             int    `json:"row"`
	VideoURL        string `json:"video_url"`
	RequestedAccent string `json:"requested_accent"`
}

// BatchResult pairs a row with its outcome: Response on success, Error and
// ErrorKind otherwise.
type BatchResult struct {
	BatchRecord
	Response   *ClassifyResponse `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	ErrorKind  string            `json:"error_kind,omitempty"`
	DurationMs int64             `json:"duration_ms"`
}
