package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/services"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
)

type ErrorResponse = models.ErrorResponse

// BaseHandler carries what every handler shares: logging and error mapping
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming operation with the request-scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Debug(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// RespondWithError writes an ErrorResponse; a non-nil err goes into details
func (h *BaseHandler) RespondWithError(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(status, resp)
}

// parseIDParam reads a positive numeric path parameter. It writes a 400 and
// returns 0 when the value is not valid.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", name), nil)
		return 0
	}
	return uint(id)
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		details := make([]models.ValidationErrorResponse, 0, len(validationError.Errors))
		for _, e := range validationError.Errors {
			value := ""
			if e.Value != nil {
				value = fmt.Sprint(e.Value)
			}
			details = append(details, models.ValidationErrorResponse{
				Field:   e.Field,
				Message: e.Message,
				Value:   value,
				Code:    e.Rule,
			})
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:            "validation_error",
			Message:          "Error de validación",
			Timestamp:        time.Now().UTC(),
			Path:             c.Request.URL.Path,
			ValidationErrors: details,
		})
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Alumno no encontrado", nil)
	case services.IsDuplicate(err):
		h.RespondWithError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidFile):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), nil)
	case services.IsValidationError(err):
		h.RespondWithError(c, http.StatusBadRequest, "Error de validación", err)
	default:
		h.LogError(c, err, "Unexpected service error")
		h.RespondWithError(c, http.StatusInternalServerError, "Error interno del servidor", err)
	}
}
