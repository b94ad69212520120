package dto

// ErrorResponse mirrors the body written by middleware.ErrorHandler.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WorkerStats describes the generator worker pool.
type WorkerStats struct {
	Allocated int  `json:"allocated"`
	Idle      int  `json:"idle"`
	Bounded   bool `json:"bounded"`
}

// InfoResponse is returned by GET /health/info.
type InfoResponse struct {
	Status   string      `json:"status"`
	Version  string      `json:"version"`
	Machine  string      `json:"machine"`
	Node     string      `json:"node"`
	Epoch    string      `json:"epoch"`
	MaxBatch int         `json:"maxBatch"`
	Workers  WorkerStats `json:"workers"`
}
