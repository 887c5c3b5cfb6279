package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/validation"
)

// ValidateJSON binds the JSON body into req. Binding tags are enforced by
// gin's engine once validation.RegisterGinValidations has run.
func ValidateJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

// ValidateQuery binds and validates query parameters into req
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return bindingError(err)
	}
	return nil
}

// RespondWithValidationError writes a 400 envelope with per-field messages
func RespondWithValidationError(c *gin.Context, err error) {
	var valErr *validation.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, common.Response{
			Success: false,
			Data:    gin.H{"fields": valErr.Fields()},
			Error:   &common.ErrorInfo{Code: http.StatusBadRequest, Message: "validation failed"},
		})
		return
	}
	common.ErrorResponse(c, http.StatusBadRequest, err.Error())
}

// ValidateAndBind binds and validates the JSON body. It writes the error
// response and returns false on failure.
func ValidateAndBind(c *gin.Context, req interface{}) bool {
	if err := ValidateJSON(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}

// ValidateAndBindQuery is ValidateAndBind for query parameters
func ValidateAndBindQuery(c *gin.Context, req interface{}) bool {
	if err := ValidateQuery(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}

// MaxBodySize limits the request body size
func MaxBodySize(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}

// binding errors from gin carry validator field errors when the struct tags
// failed, and decoding errors otherwise
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validation.NewValidationError(verrs)
	}
	return err
}
