package server

// HTTPError is the error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// DisambiguateRequest is the body of POST /api/lesk/{wordnet,wiki}.
type DisambiguateRequest struct {
	Sentence string `json:"sentence"`
	Target   string `json:"target"`
	POS      string `json:"pos"`
}

// RunRequest is the body of POST /api/aquaint/run.
type RunRequest struct {
	Target string `json:"target"`
	Limit  int    `json:"limit"`
	Method string `json:"method"`
	POS    string `json:"pos"`
}

// CorrelationRequest selects datasets; empty means all.
type CorrelationRequest struct {
	Datasets []string `json:"datasets"`
}

// ConvexRequest names the dataset and the base embedding provider.
type ConvexRequest struct {
	Dataset string `json:"dataset"`
	Base    string `json:"base"`
}

// SimilarityRequest carries word pairs as two-element arrays.
type SimilarityRequest struct {
	Pairs [][]string `json:"pairs"`
}
