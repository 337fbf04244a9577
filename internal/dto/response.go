package dto

// APIResponse is the envelope every endpoint answers with.
type APIResponse[T any] struct {
	Data    T       `json:"data"`
	Success bool    `json:"success"`
	Message *string `json:"message"`
}

type PaginatedResponse[T any] struct {
	Data         []T   `json:"data"`
	Total        int64 `json:"total"`
	PageNo       int   `json:"page_no"`
	MaxPerPage   int   `json:"max_per_page"`
	CurrentCount int   `json:"current_count"`
}

// ErrorResponse is APIResponse with no data, used in swagger annotations.
type ErrorResponse struct {
	Data    any    `json:"data" swaggertype:"object"`
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Transaction not found"`
}

func OK[T any](data T) APIResponse[T] {
	return APIResponse[T]{Data: data, Success: true}
}

func Fail(message string) APIResponse[any] {
	return APIResponse[any]{Data: nil, Success: false, Message: &message}
}

type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	Environment string `json:"environment" example:"development"`
	Project     string `json:"project" example:"Expense Tracker API"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}
