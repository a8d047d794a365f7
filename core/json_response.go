package core

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/newsdesk/pkg/validator"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON creates a 200 JSON response.
func JSON(data any) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Data: data},
	}
}

// JSONStatus creates a JSON response with an explicit status code.
func JSONStatus(status int, data any) Response {
	return jsonResponse{
		status: status,
		body:   JSONResponse{Data: data},
	}
}

// JSONMessage creates a 200 JSON response carrying only a human message.
// Used for acknowledgements that intentionally reveal nothing else.
func JSONMessage(message string) Response {
	return jsonResponse{
		status: http.StatusOK,
		body:   JSONResponse{Message: message},
	}
}

// JSONError creates a JSON error response from an error.
// Validation failures render as 400 with per-field details; HTTPError values
// keep their code and key; anything else is a detail-free 500.
func JSONError(err error) Response {
	status := http.StatusInternalServerError
	code := ErrInternalServerError.Key
	errorDetail := &ErrorDetail{
		Code:    code,
		Message: http.StatusText(status),
	}

	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		status = http.StatusBadRequest
		code = ErrBadRequest.Key
		errorDetail.Code = code
		errorDetail.Message = http.StatusText(status)
		errorDetail.Details = make(map[string][]string, len(verrs.Fields()))
		for _, field := range verrs.Fields() {
			errorDetail.Details[field] = verrs.Get(field)
		}
	} else {
		httpErr := AsHTTPError(err)
		status = httpErr.Code
		code = httpErr.Key
		errorDetail.Code = code
		errorDetail.Message = http.StatusText(httpErr.Code)
	}

	return jsonResponse{
		status: status,
		body: JSONResponse{
			Code:  code,
			Error: errorDetail,
		},
	}
}
