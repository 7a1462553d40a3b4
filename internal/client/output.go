// Package client is the HTTP client and CLI output envelope for the
// PromptCheck API.
package client

import (
	"encoding/json"
	"io"
	"time"
)

// Response is the JSON envelope written by every client command. Data and
// Error are mutually exclusive.
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *Error      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Error is the error section of a Response.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteSuccess writes a success envelope carrying data.
func WriteSuccess(w io.Writer, data interface{}) error {
	response := Response{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
	return json.NewEncoder(w).Encode(response)
}

// WriteError writes an error envelope.
func WriteError(w io.Writer, code, message string, details interface{}) error {
	response := Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
	return json.NewEncoder(w).Encode(response)
}
