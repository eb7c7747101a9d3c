package dto

import "time"

// APIResponse is the envelope every JSON endpoint answers with
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      any          `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data any) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes where a page sits in the full result set
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// PaginatedResponse represents a paginated list with metadata
type PaginatedResponse struct {
	Items      any            `json:"items"`
	Pagination PaginationInfo `json:"pagination"`
}

// CountResponse carries a single counter
type CountResponse struct {
	Count int64 `json:"count" example:"42"`
}

// AverageResponse carries a single floating point aggregate
type AverageResponse struct {
	Average float64 `json:"average" example:"17.5"`
}

// MessageResponse carries a plain text result
type MessageResponse struct {
	Message string `json:"message"`
}
