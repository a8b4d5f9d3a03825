package main

import "github.com/gin-gonic/gin"

// APIError is the typed failure carried across the request pipeline and
// rendered as the {status, error, message} envelope at the boundary.
type APIError struct {
	Status  int    `json:"status"`
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func badRequest() *APIError {
	return &APIError{Status: 400, Err: "bad request", Message: "malformed request"}
}

func unauthorized() *APIError {
	return &APIError{Status: 401, Err: "unauthorized", Message: "unauthorized access"}
}

func forbidden() *APIError {
	return &APIError{Status: 403, Err: "forbidden", Message: "forbidden access"}
}

func notFound() *APIError {
	return &APIError{Status: 404, Err: "not found", Message: "invalid resource URI"}
}

func methodNotSupported() *APIError {
	return &APIError{Status: 405, Err: "method not supported", Message: "method is not supported"}
}

// conflict covers both schema validation failures and uniqueness violations;
// the message is the only part that distinguishes them.
func conflict(message string) *APIError {
	return &APIError{Status: 409, Err: "conflict", Message: message}
}

// serverError covers the unhandled remainder: anything that is not one of
// the enumerated outcomes.
func serverError() *APIError {
	return &APIError{Status: 500, Err: "internal server error", Message: "internal server error"}
}

func abortWith(c *gin.Context, e *APIError) {
	c.AbortWithStatusJSON(e.Status, e)
}
