package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses and locally refused requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"
)

// maxErrorBody bounds how much of an error body is read for its message.
const maxErrorBody = 64 << 10

// RequestError is returned for every failed backend call.
type RequestError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("request failed (%s): %s: %v", e.Class, e.Message, e.Err)
		}
		return fmt.Sprintf("request failed (%s): %s", e.Class, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("request failed (%s, status %d): %s: %v", e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("request failed (%s, status %d): %s", e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status to an error class. Non-error statuses return "".
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// errorBody is the JSON error shape the backend sends.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage extracts the message from an error body: "error" first, then
// "message", then the status text.
func errorMessage(status int, body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err == nil && len(raw) > 0 {
		var parsed errorBody
		if json.Unmarshal(raw, &parsed) == nil {
			if msg := strings.TrimSpace(parsed.Error); msg != "" {
				return msg
			}
			if msg := strings.TrimSpace(parsed.Message); msg != "" {
				return msg
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// newStatusError builds a RequestError from an error response.
func newStatusError(resp *http.Response) *RequestError {
	return &RequestError{
		StatusCode: resp.StatusCode,
		Class:      classifyStatus(resp.StatusCode),
		Message:    errorMessage(resp.StatusCode, resp.Body),
	}
}
