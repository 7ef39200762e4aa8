package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sistema-educativo/alumnos-service/internal/services"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var allowedImportExtensions = map[string]bool{".xlsx": true, ".xls": true}

type ImportacionHandler struct {
	BaseHandler
	service     services.ImportExportService
	maxFileSize int64
}

func NewImportacionHandler(service services.ImportExportService, maxFileSize int64, logger utils.Logger) *ImportacionHandler {
	return &ImportacionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		maxFileSize: maxFileSize,
	}
}

// ImportarAlumnos creates alumnos from an uploaded workbook
// @Summary Import alumnos
// @Description Rows are independent; failures are reported per row in the result
// @Tags importacion
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel file (.xlsx)"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Router /importacion/importar-alumnos [post]
func (h *ImportacionHandler) ImportarAlumnos(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Se requiere el archivo en el campo 'file'", err)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImportExtensions[ext] {
		h.handleServiceError(c, fmt.Errorf("%w: el archivo debe ser un Excel (.xlsx o .xls)", services.ErrInvalidFile))
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.RespondWithError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("El archivo excede el tamaño máximo de %d bytes", h.maxFileSize), nil)
		return
	}

	content, err := readUpload(fileHeader, h.maxFileSize)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Importing alumnos", "filename", fileHeader.Filename, "size", fileHeader.Size)

	result := h.service.ImportAlumnos(c.Request.Context(), content)
	c.JSON(http.StatusOK, result)
}

// DescargarPlantilla serves the import template
// @Summary Download import template
// @Tags importacion
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /importacion/plantilla-excel [get]
func (h *ImportacionHandler) DescargarPlantilla(c *gin.Context) {
	buf, err := h.service.GenerateTemplate(c.Request.Context())
	if err != nil {
		h.LogError(c, err, "Failed to generate template")
		h.RespondWithError(c, http.StatusInternalServerError, "Error al generar plantilla", err)
		return
	}

	sendWorkbook(c, "plantilla_alumnos.xlsx", buf)
}

// ExportarAlumnos serves the filtered alumnos as a workbook
// @Summary Export alumnos
// @Tags importacion
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Substring over names, matricula and curp"
// @Param nivel_educativo query string false "Nivel educativo"
// @Param grado query string false "Grado"
// @Param grupo query string false "Grupo"
// @Param estado query string false "Estado"
// @Success 200 {file} file
// @Router /importacion/exportar-alumnos [get]
func (h *ImportacionHandler) ExportarAlumnos(c *gin.Context) {
	buf, err := h.service.ExportAlumnos(c.Request.Context(), parseAlumnoFilters(c))
	if err != nil {
		h.LogError(c, err, "Failed to export alumnos")
		h.RespondWithError(c, http.StatusInternalServerError, "Error al exportar alumnos", err)
		return
	}

	sendWorkbook(c, "alumnos_export.xlsx", buf)
}

func sendWorkbook(c *gin.Context, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// readUpload reads at most limit bytes of an uploaded file
func readUpload(fileHeader *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrInvalidFile, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: el archivo excede el tamaño máximo", services.ErrInvalidFile)
	}
	return content, nil
}
