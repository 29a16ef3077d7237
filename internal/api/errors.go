package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/internal/service"
)

// respondError translates service errors into HTTP responses. Validation
// failures are keyed by field; everything unexpected becomes a 500 with
// the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{validationErr.Field: validationErr.Message})
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusBadRequest, gin.H{"errors": "already exists"})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"errors": "cannot subscribe to yourself"})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusNotFound, gin.H{"errors": "shopping cart is empty"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "object not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"errors": "you do not have permission to perform this action"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid credentials"})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}
