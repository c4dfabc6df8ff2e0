package response

import (
	"log"
	"net/http"

	"anoa.com/vxrank/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// GetUsername retrieves the authenticated username from the context
func GetUsername(c *gin.Context) (string, error) {
	v, exists := c.Get("username")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	username, ok := v.(string)
	if !ok || username == "" {
		return "", apperror.ErrUnauthorized
	}

	return username, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
