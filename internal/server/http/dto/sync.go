package dto

// SyncRequest selects the month to recompute.
type SyncRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// ErrorResponse carries a machine-readable error code alongside the
// human-readable message, so callers can tell retryable conflicts apart.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
