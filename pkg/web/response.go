// Package web defines common components for a web application.
package web

import (
	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into a json friendly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// GetErrorMsg translates a binding validation failure into a client message.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return " field must be greater or equal to " + fe.Param()
	case "max":
		return " field must be less or equal to " + fe.Param()
	case "gt":
		return " field must be greater than " + fe.Param()
	case "uuid":
		return " field must be a valid UUID"
	case "currency":
		return " field must be a supported currency"
	case "concurrencymode":
		return " field must be one of OPTIMISTIC, PESSIMISTIC, SERIALIZABLE"
	default:
		return " field is invalid"
	}
}
