package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends a failure envelope. data is set when the request had a
// partial effect worth returning, such as a stored record whose event could
// not be published.
func ErrorResponse(c *gin.Context, statusCode int, message string, err error, data ...interface{}) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}
	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(statusCode, response)
}

// ValidationErrorResponse sends a 400 listing each failed field.
func ValidationErrorResponse(c *gin.Context, err error) {
	var messages []string

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			messages = append(messages, validationMessage(fieldError))
		}
	} else {
		messages = append(messages, err.Error())
	}

	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Validation failed",
		Error:   messages,
	})
}

func validationMessage(fieldError validator.FieldError) string {
	field := fieldError.Field()

	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fieldError.Kind().String() == "string" {
			return field + " must be at least " + fieldError.Param() + " characters long"
		}
		return field + " must be at least " + fieldError.Param()
	case "max":
		if fieldError.Kind().String() == "string" {
			return field + " must be at most " + fieldError.Param() + " characters long"
		}
		return field + " must be at most " + fieldError.Param()
	case "gt":
		return field + " must be greater than " + fieldError.Param()
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
	case "numeric":
		return field + " must contain only digits"
	default:
		return field + " is invalid"
	}
}
