package services

import (
	"bytes"
	"context"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateAlumnoRequest = validator.AlumnoCreateRequest
type UpdateAlumnoRequest = validator.AlumnoUpdateRequest
type ContactoEmergenciaRequest = validator.ContactoEmergenciaRequest

// ===== SERVICE INTERFACES =====

type AlumnoService interface {
	Create(ctx context.Context, req *CreateAlumnoRequest) (*models.Alumno, error)
	GetByID(ctx context.Context, id uint) (*models.Alumno, error)
	GetByMatricula(ctx context.Context, matricula string) (*models.Alumno, error)
	GetByCURP(ctx context.Context, curp string) (*models.Alumno, error)
	List(ctx context.Context, filters repositories.AlumnoFilters) (*models.AlumnoListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateAlumnoRequest) (*models.Alumno, error)
	Delete(ctx context.Context, id uint) error

	GetEstadisticas(ctx context.Context) (*models.Estadisticas, error)
}

type ImportExportService interface {
	// ImportAlumnos never fails as a whole; file and row problems are reported in the result
	ImportAlumnos(ctx context.Context, content []byte) *models.ImportResult
	ExportAlumnos(ctx context.Context, filters repositories.AlumnoFilters) (*bytes.Buffer, error)
	GenerateTemplate(ctx context.Context) (*bytes.Buffer, error)
}

type ServiceManager interface {
	Alumno() AlumnoService
	ImportExport() ImportExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
