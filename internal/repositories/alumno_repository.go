package repositories

import (
	"context"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"gorm.io/gorm"
)

// AlumnoRepository interface for alumno persistence
type AlumnoRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, alumno *models.Alumno) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Alumno, error)
	GetByMatricula(ctx context.Context, tx *gorm.DB, matricula string) (*models.Alumno, error)
	GetByCURP(ctx context.Context, tx *gorm.DB, curp string) (*models.Alumno, error)
	Update(ctx context.Context, tx *gorm.DB, alumno *models.Alumno) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Emergency contacts are replaced as a whole
	ReplaceContactos(ctx context.Context, tx *gorm.DB, alumnoID uint, contactos []models.ContactoEmergencia) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters AlumnoFilters) ([]*models.Alumno, error)
	Count(ctx context.Context, tx *gorm.DB, filters AlumnoFilters) (int64, error)

	// Validation and checks
	ExistsByCURP(ctx context.Context, tx *gorm.DB, curp string, excludeID *uint) (bool, error)

	// GetLastMatricula returns the greatest matricula starting with prefix, or "" when none exists
	GetLastMatricula(ctx context.Context, tx *gorm.DB, prefix string) (string, error)
}
