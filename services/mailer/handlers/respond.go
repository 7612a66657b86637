package handlers

import (
	"errors"
	"net/http"

	"novamailer/services/mailer/apperrors"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// respondError maps usecase errors onto HTTP statuses: not-found and
// precondition/validation failures carry their own message, everything
// else is an opaque 500.
func respondError(c *gin.Context, err error, fallback string) {
	requestID := requestid.Get(c)

	status := http.StatusInternalServerError
	message := fallback

	var validationErr *apperrors.ValidationError
	var templateErr *apperrors.TemplateError
	var transportErr *apperrors.TransportError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrPrecondition):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		message = validationErr.Msg
	case errors.As(err, &templateErr):
		status = http.StatusBadRequest
		message = templateErr.Error()
	case errors.As(err, &transportErr):
		status = http.StatusInternalServerError
		message = transportErr.Error()
	}

	c.JSON(status, gin.H{
		"error":      message,
		"request_id": requestID,
	})
}

// badRequest reports a malformed payload
func badRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      "Invalid request body",
		"details":    details,
		"request_id": requestid.Get(c),
	})
}
