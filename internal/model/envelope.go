package model

import "time"

// Response is the envelope every API endpoint wraps its payload in.
type Response[T any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Page is the envelope of list endpoints.
type Page[T any] struct {
	Response[[]T]
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Limit      int `json:"limit"`
	Page       int `json:"page"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
