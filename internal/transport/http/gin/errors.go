package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/tourdash/internal/admin"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/complaint"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/location"
	"github.com/kirinyoku/tourdash/internal/ticket"
)

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondErr maps service errors to a status and body. resource names what
// was being loaded for backend failures.
func respondErr(c *gin.Context, err error, resource string) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		verr *domain.ValidationError
		rl   *admin.RateLimitError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &rl):
		secs := int(math.Ceil(rl.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(secs, 1)))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many login attempts"})

	// admin
	case errors.Is(err, admin.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	// location
	case errors.Is(err, location.ErrInvalidTouristType):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tourist type must be domestic or international"})

	// tickets
	case errors.Is(err, ticket.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "submission in progress"})
	case errors.Is(err, ticket.ErrPlaceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "place not found"})
	case errors.Is(err, ticket.ErrSubmissionFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "ticket submission failed"})

	// complaints
	case errors.Is(err, complaint.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "complaint not found"})

	// backend
	case errors.Is(err, backend.ErrUnavailable),
		errors.Is(err, backend.ErrUnsuccessful),
		errors.Is(err, backend.ErrBadResponse):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "failed to load " + resource})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
