package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrTooManyRequests = 1005
	ErrBadRequest      = 1006
	ErrServiceUnavail  = 1007

	// Search errors (2000-2999)
	ErrSearchNotConfigured = 2000
	ErrSearchProvider      = 2001
	ErrSearchQueryRequired = 2002

	// Report errors (3000-3999)
	ErrReportNotFound        = 3000
	ErrReportInvalidInput    = 3001
	ErrReportGeneration      = 3002
	ErrReportMissingAPIKey   = 3003
	ErrReportInvalidModel    = 3004
	ErrReportStorageFailed   = 3005
	ErrReportExportFailed    = 3006
	ErrReportQuotaExhausted  = 3007
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	// Search errors
	ErrSearchNotConfigured: {ErrSearchNotConfigured, http.StatusInternalServerError, "Search API credentials are not configured"},
	ErrSearchProvider:      {ErrSearchProvider, http.StatusBadGateway, "Search provider request failed"},
	ErrSearchQueryRequired: {ErrSearchQueryRequired, http.StatusBadRequest, "Search query is required"},

	// Report errors
	ErrReportNotFound:       {ErrReportNotFound, http.StatusNotFound, "Report not found"},
	ErrReportInvalidInput:   {ErrReportInvalidInput, http.StatusBadRequest, "Invalid report request"},
	ErrReportGeneration:     {ErrReportGeneration, http.StatusInternalServerError, "Report generation failed"},
	ErrReportMissingAPIKey:  {ErrReportMissingAPIKey, http.StatusInternalServerError, "Gemini API key is not configured"},
	ErrReportInvalidModel:   {ErrReportInvalidModel, http.StatusBadRequest, "Invalid model specified"},
	ErrReportStorageFailed:  {ErrReportStorageFailed, http.StatusInternalServerError, "Report storage operation failed"},
	ErrReportExportFailed:   {ErrReportExportFailed, http.StatusInternalServerError, "Report export failed"},
	ErrReportQuotaExhausted: {ErrReportQuotaExhausted, http.StatusTooManyRequests, "Model quota exhausted"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
