package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultExportMaxRows = 10000
	timestampLayout      = "2006-01-02 15:04:05"
)

// sheetDateLayouts are the textual birth date forms accepted on import
var sheetDateLayouts = []string{
	validator.BirthDateLayout,
	timestampLayout,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

type importExportService struct {
	alumnos       AlumnoService
	repo          repositories.Repository
	logger        *slog.Logger
	exportMaxRows int
}

func NewImportExportService(alumnos AlumnoService, repo repositories.Repository, logger *slog.Logger, exportMaxRows int) ImportExportService {
	if exportMaxRows <= 0 {
		exportMaxRows = DefaultExportMaxRows
	}
	return &importExportService{
		alumnos:       alumnos,
		repo:          repo,
		logger:        logger,
		exportMaxRows: exportMaxRows,
	}
}

// ===== IMPORT =====

func (s *importExportService) ImportAlumnos(ctx context.Context, content []byte) *models.ImportResult {
	result := &models.ImportResult{
		Errors:          []string{},
		ImportedAlumnos: []*models.Alumno{},
	}

	headers, rows, lineNos, err := readSheet(content)
	if err != nil {
		s.logger.Warn("Failed to read import file", "error", err)
		result.ErrorCount = 1
		result.Errors = append(result.Errors, fmt.Sprintf("Error al procesar archivo: %v", err))
		return result
	}

	if missing := missingColumns(headers); len(missing) > 0 {
		result.ErrorCount = len(rows)
		result.Errors = append(result.Errors, fmt.Sprintf("Columnas faltantes: %s", strings.Join(missing, ", ")))
		return result
	}

	s.logger.Info("Importing alumnos", "rows", len(rows))

	for i, row := range rows {
		alumno, err := s.importRow(ctx, row)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %s", lineNos[i], err.Error()))
			continue
		}
		result.SuccessCount++
		result.ImportedAlumnos = append(result.ImportedAlumnos, alumno)
	}

	s.logger.Info("Import finished", "success_count", result.SuccessCount, "error_count", result.ErrorCount)
	return result
}

var errCURPExists = errors.New("ya existe")

func (s *importExportService) importRow(ctx context.Context, row sheetRow) (*models.Alumno, error) {
	curp := utils.NormalizeCURP(row.get("curp"))

	exists, err := s.repo.Alumno().ExistsByCURP(ctx, nil, curp, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check curp: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("CURP %s %w", curp, errCURPExists)
	}

	req, err := createRequestFromRow(row)
	if err != nil {
		return nil, err
	}

	return s.alumnos.Create(ctx, req)
}

// createRequestFromRow maps a sheet row to a create request. Blank optional
// cells are treated as absent and a contact is kept only when all three of
// its cells are filled.
func createRequestFromRow(row sheetRow) (*CreateAlumnoRequest, error) {
	fecha, err := parseSheetDate(row.get("fecha_nacimiento"))
	if err != nil {
		return nil, err
	}

	req := &CreateAlumnoRequest{
		Nombre:          row.get("nombre"),
		ApellidoPaterno: row.get("apellido_paterno"),
		FechaNacimiento: fecha,
		CURP:            utils.NormalizeCURP(row.get("curp")),
		NivelEducativo:  models.NivelEducativo(row.get("nivel_educativo")),
		Grado:           row.get("grado"),
		Grupo:           row.get("grupo"),
		Estado:          models.EstadoAlumno(row.get("estado")),
	}
	if materno := row.get("apellido_materno"); materno != "" {
		req.ApellidoMaterno = &materno
	}
	if req.Estado == "" {
		req.Estado = models.EstadoActivo
	}

	for i := 1; i <= maxContactos; i++ {
		cols := contactoColumns(i)
		nombre, telefono, relacion := row.get(cols[0]), row.get(cols[1]), row.get(cols[2])
		if nombre == "" || telefono == "" || relacion == "" {
			continue
		}
		req.ContactosEmergencia = append(req.ContactosEmergencia, ContactoEmergenciaRequest{
			Nombre:   nombre,
			Telefono: telefono,
			Relacion: relacion,
		})
	}

	return req, nil
}

// parseSheetDate accepts textual dates and Excel serial numbers and returns YYYY-MM-DD
func parseSheetDate(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("fecha_nacimiento: es obligatorio")
	}

	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(validator.BirthDateLayout), nil
		}
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(validator.BirthDateLayout), nil
		}
	}

	return "", fmt.Errorf("fecha_nacimiento: formato de fecha inválido %q", raw)
}

// ===== EXPORT =====

func (s *importExportService) ExportAlumnos(ctx context.Context, filters repositories.AlumnoFilters) (*bytes.Buffer, error) {
	filters.Offset = 0
	filters.Limit = s.exportMaxRows

	list, err := s.alumnos.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(list.Items))
	for _, alumno := range list.Items {
		rows = append(rows, exportRow(alumno))
	}

	buf, err := writeSheet(exportColumns(), rows)
	if err != nil {
		return nil, fmt.Errorf("failed to build export: %w", err)
	}

	s.logger.Info("Alumnos exported", "rows", len(rows), "total", list.Total)
	return buf, nil
}

func exportRow(alumno *models.Alumno) []string {
	materno := ""
	if alumno.ApellidoMaterno != nil {
		materno = *alumno.ApellidoMaterno
	}

	row := []string{
		alumno.Matricula,
		alumno.Nombre,
		alumno.ApellidoPaterno,
		materno,
		alumno.BirthDate().Format(validator.BirthDateLayout),
		alumno.CURP,
		string(alumno.NivelEducativo),
		alumno.Grado,
		alumno.Grupo,
		string(alumno.Estado),
		alumno.FechaInscripcion.Format(timestampLayout),
	}

	for i := 0; i < maxContactos; i++ {
		if i < len(alumno.ContactosEmergencia) {
			c := alumno.ContactosEmergencia[i]
			row = append(row, c.Nombre, c.Telefono, c.Relacion)
		} else {
			row = append(row, "", "", "")
		}
	}
	return row
}

// ===== TEMPLATE =====

// templateRows are the example alumnos of the import template
var templateRows = [][]string{
	{
		"Juan", "Pérez", "López", "2010-05-15", "PELJ100515HDFRZN09",
		"Primaria", "6", "A", "Activo",
		"Pedro Pérez", "5551234567", "Padre",
		"Ana López", "5551234568", "Madre",
		"", "", "",
	},
	{
		"María", "González", "Martínez", "2009-08-22", "GOMA090822MDFNRT08",
		"Primaria", "5", "B", "Activo",
		"José González", "5559876543", "Padre",
		"Carmen Martínez", "5559876544", "Madre",
		"", "", "",
	},
}

func (s *importExportService) GenerateTemplate(ctx context.Context) (*bytes.Buffer, error) {
	buf, err := writeSheet(importColumns(maxContactos), templateRows)
	if err != nil {
		return nil, fmt.Errorf("failed to build template: %w", err)
	}
	return buf, nil
}
