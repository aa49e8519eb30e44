package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "kaban/internal/errors"
	"kaban/internal/middleware"
	"kaban/internal/uuid"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code, message and optional details.
type ErrorDetail struct {
	Code      string         `json:"code" example:"INSUFFICIENT_FUNDS"`
	Message   string         `json:"message" example:"Insufficient funds: requested ₱300.00, available ₱100.00"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// identity extracts the authenticated actor and tenant from the Gin context.
// Returns ErrUnauthorized if either is missing.
func identity(c *gin.Context) (actor, tenant string, err error) {
	actor = c.GetString(middleware.ActorKey)
	tenant = c.GetString(middleware.TenantKey)
	if actor == "" || tenant == "" {
		return "", "", apperrors.ErrUnauthorized
	}
	return actor, tenant, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseYear reads a fiscal year path parameter.
func parseYear(c *gin.Context, param string) (int, error) {
	year, err := strconv.Atoi(c.Param(param))
	if err != nil || year <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return year, nil
}

// parseFiscalYearQuery reads the optional fiscal_year query parameter.
func parseFiscalYearQuery(c *gin.Context) (*int, error) {
	v := c.Query("fiscal_year")
	if v == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(v)
	if err != nil || year <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "fiscal_year must be a positive integer")
	}
	return &year, nil
}

// respondWithError writes a consistent JSON error response through the
// shared error envelope.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}
