package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/apperror"
	"github.com/irshad/hiring/internal/dto"
	"github.com/rs/zerolog/log"
)

var statusByCode = map[apperror.Code]int{
	apperror.CodeNotFound:        http.StatusNotFound,
	apperror.CodeConflict:        http.StatusConflict,
	apperror.CodeForbidden:       http.StatusForbidden,
	apperror.CodeValidation:      http.StatusBadRequest,
	apperror.CodeExternalService: http.StatusBadGateway,
	apperror.CodeInternal:        http.StatusInternalServerError,
}

// Error writes err as a dto.ErrorResponse. Internal causes are logged, never returned.
func Error(ctx *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Internal("internal server error", err)
	}
	status, known := statusByCode[appErr.Code]
	if !known {
		status = http.StatusInternalServerError
	}

	message := appErr.Message
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg("Request failed")
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	} else {
		log.Debug().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg("Request rejected")
	}

	ctx.JSON(status, dto.ErrorResponse{
		Code:    string(appErr.Code),
		Message: message,
		Details: appErr.Details,
	})
}

// BadRequest reports a body that failed binding or validation.
func BadRequest(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    string(apperror.CodeValidation),
		Message: "invalid request body",
		Details: map[string]string{"error": err.Error()},
	})
}

// PathID parses a positive numeric path parameter. On failure it writes a 400
// and returns false.
func PathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		Error(ctx, apperror.Validation("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// OptionalQueryID parses an optional numeric query parameter. Absent yields nil.
func OptionalQueryID(ctx *gin.Context, name string) (*uint, bool) {
	raw, present := ctx.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		Error(ctx, apperror.Validation("invalid "+name))
		return nil, false
	}
	v := uint(id)
	return &v, true
}
