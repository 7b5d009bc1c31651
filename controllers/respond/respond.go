// Package respond writes error bodies for the HTTP handlers.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
)

// Error answers with the status of err's kind and a body of the form
// {"error": message, "fields": {...}}. Internal errors are attached to the
// context for the request log and never shown to the caller.
func Error(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), body)
}

// BadRequest reports a body or form that could not be bound.
func BadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
}
