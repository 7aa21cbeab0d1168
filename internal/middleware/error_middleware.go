package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/logger"
)

// errorMapping ties an apperrors sentinel to its HTTP status and error code
type errorMapping struct {
	target error
	status int
	code   dto.ErrorCode
}

// Order matters: the first sentinel matched by errors.Is wins
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{apperrors.ErrDuplicateStop, http.StatusBadRequest, dto.ErrorCodeDuplicateStop},
	{apperrors.ErrAlreadyCheckedIn, http.StatusBadRequest, dto.ErrorCodeAlreadyCheckedIn},
	{apperrors.ErrInvalidState, http.StatusBadRequest, dto.ErrorCodeInvalidState},
	{apperrors.ErrInvalidArgument, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
}

// --- Central Error Handling ---

// HandleAPIError maps service errors to the JSON error envelope. Unknown errors become
// a 500 without leaking their message.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, apperrors.Message(err))
		if details := apperrors.DetailsOf(err); details != nil {
			if field, ok := details["field"].(string); ok {
				detail = detail.WithField(field)
			}
			detail = detail.WithDetails(details)
		}
		if m.status < http.StatusInternalServerError {
			detail = detail.WithSeverity(dto.ErrorSeverityWarning)
		}

		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
}

// HandleBindError answers 400 for a request that failed binding or validation
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// RespondError writes an error envelope with an explicit status and code
func RespondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
