package repositories

import (
	"context"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"gorm.io/gorm"
)

// EstadisticasRepository interface for aggregate counts over alumnos
type EstadisticasRepository interface {
	CountTotal(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByEstado(ctx context.Context, tx *gorm.DB) (map[models.EstadoAlumno]int64, error)

	// CountByNivel counts alumnos of the given estado grouped by nivel educativo
	CountByNivel(ctx context.Context, tx *gorm.DB, estado models.EstadoAlumno) (map[models.NivelEducativo]int64, error)
}
