package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/services"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type AlumnoHandler struct {
	BaseHandler
	service services.AlumnoService
}

func NewAlumnoHandler(service services.AlumnoService, logger utils.Logger) *AlumnoHandler {
	return &AlumnoHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListAlumnos returns a page of alumnos
// @Summary List alumnos
// @Tags alumnos
// @Produce json
// @Param skip query int false "Offset (default: 0)"
// @Param limit query int false "Page size (default: 100, max: 500)"
// @Param search query string false "Substring over names, matricula and curp"
// @Param nivel_educativo query string false "Preescolar, Primaria, Secundaria or Preparatoria"
// @Param grado query string false "Grado"
// @Param grupo query string false "Grupo"
// @Param estado query string false "Activo, Inactivo or Egresado"
// @Success 200 {object} models.AlumnoListResponse
// @Failure 400 {object} ErrorResponse
// @Router /alumnos/ [get]
func (h *AlumnoHandler) ListAlumnos(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		h.RespondWithError(c, http.StatusBadRequest, "skip debe ser un entero mayor o igual a 0", nil)
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 || limit > maxListLimit {
		h.RespondWithError(c, http.StatusBadRequest, "limit debe ser un entero entre 1 y 500", nil)
		return
	}

	filters := parseAlumnoFilters(c)
	filters.Offset = skip
	filters.Limit = limit

	h.LogRequest(c, "Listing alumnos", "skip", skip, "limit", limit)

	list, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateAlumno registers a new alumno and assigns its matricula
// @Summary Create alumno
// @Tags alumnos
// @Accept json
// @Produce json
// @Param alumno body services.CreateAlumnoRequest true "Alumno data"
// @Success 201 {object} models.Alumno
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /alumnos/ [post]
func (h *AlumnoHandler) CreateAlumno(c *gin.Context) {
	var req services.CreateAlumnoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cuerpo de la solicitud inválido", err)
		return
	}

	h.LogRequest(c, "Creating alumno", "curp", req.CURP)

	alumno, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alumno)
}

// GetAlumno retrieves an alumno by id
// @Summary Get alumno
// @Tags alumnos
// @Produce json
// @Param id path int true "Alumno ID"
// @Success 200 {object} models.Alumno
// @Failure 404 {object} ErrorResponse
// @Router /alumnos/{id} [get]
func (h *AlumnoHandler) GetAlumno(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	alumno, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alumno)
}

// GetAlumnoByMatricula retrieves an alumno by matricula
// @Summary Get alumno by matricula
// @Tags alumnos
// @Produce json
// @Param matricula path string true "Matricula"
// @Success 200 {object} models.Alumno
// @Failure 404 {object} ErrorResponse
// @Router /alumnos/matricula/{matricula} [get]
func (h *AlumnoHandler) GetAlumnoByMatricula(c *gin.Context) {
	alumno, err := h.service.GetByMatricula(c.Request.Context(), c.Param("matricula"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alumno)
}

// UpdateAlumno applies the supplied fields to an alumno
// @Summary Update alumno
// @Description Omitted fields are left unchanged. A supplied contactos_emergencia list, even empty, replaces the current contacts.
// @Tags alumnos
// @Accept json
// @Produce json
// @Param id path int true "Alumno ID"
// @Param alumno body services.UpdateAlumnoRequest true "Fields to update"
// @Success 200 {object} models.Alumno
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /alumnos/{id} [put]
func (h *AlumnoHandler) UpdateAlumno(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateAlumnoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Cuerpo de la solicitud inválido", err)
		return
	}

	h.LogRequest(c, "Updating alumno", "alumno_id", id)

	alumno, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alumno)
}

// DeleteAlumno removes an alumno and its emergency contacts
// @Summary Delete alumno
// @Tags alumnos
// @Param id path int true "Alumno ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /alumnos/{id} [delete]
func (h *AlumnoHandler) DeleteAlumno(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting alumno", "alumno_id", id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetEstadisticas returns enrollment counts by estado and nivel educativo
// @Summary Alumno statistics
// @Tags alumnos
// @Produce json
// @Success 200 {object} models.Estadisticas
// @Router /alumnos/estadisticas/general [get]
func (h *AlumnoHandler) GetEstadisticas(c *gin.Context) {
	stats, err := h.service.GetEstadisticas(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseAlumnoFilters reads the optional list filters; blank values are ignored
func parseAlumnoFilters(c *gin.Context) repositories.AlumnoFilters {
	var filters repositories.AlumnoFilters

	if v := strings.TrimSpace(c.Query("search")); v != "" {
		filters.Search = &v
	}
	if v := strings.TrimSpace(c.Query("nivel_educativo")); v != "" {
		nivel := models.NivelEducativo(v)
		filters.NivelEducativo = &nivel
	}
	if v := strings.TrimSpace(c.Query("grado")); v != "" {
		filters.Grado = &v
	}
	if v := strings.TrimSpace(c.Query("grupo")); v != "" {
		filters.Grupo = &v
	}
	if v := strings.TrimSpace(c.Query("estado")); v != "" {
		estado := models.EstadoAlumno(v)
		filters.Estado = &estado
	}

	return filters
}
