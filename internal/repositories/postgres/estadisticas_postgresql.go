package postgres

import (
	"context"
	"fmt"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"gorm.io/gorm"
)

type estadisticasRepository struct {
	db *gorm.DB
}

func NewEstadisticasRepository(db *gorm.DB) repositories.EstadisticasRepository {
	return &estadisticasRepository{db: db}
}

func (r *estadisticasRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *estadisticasRepository) CountTotal(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Alumno{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count alumnos: %w", err)
	}

	return count, nil
}

func (r *estadisticasRepository) CountByEstado(ctx context.Context, tx *gorm.DB) (map[models.EstadoAlumno]int64, error) {
	db := r.getDB(tx)

	var results []struct {
		Estado models.EstadoAlumno
		Count  int64
	}

	if err := db.WithContext(ctx).
		Model(&models.Alumno{}).
		Select("estado, COUNT(*) as count").
		Group("estado").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count alumnos by estado: %w", err)
	}

	counts := make(map[models.EstadoAlumno]int64, len(models.EstadosAlumno))
	for _, estado := range models.EstadosAlumno {
		counts[estado] = 0
	}
	for _, r := range results {
		counts[r.Estado] = r.Count
	}

	return counts, nil
}

func (r *estadisticasRepository) CountByNivel(ctx context.Context, tx *gorm.DB, estado models.EstadoAlumno) (map[models.NivelEducativo]int64, error) {
	db := r.getDB(tx)

	var results []struct {
		NivelEducativo models.NivelEducativo
		Count          int64
	}

	if err := db.WithContext(ctx).
		Model(&models.Alumno{}).
		Select("nivel_educativo, COUNT(*) as count").
		Where("estado = ?", estado).
		Group("nivel_educativo").
		Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count alumnos by nivel educativo: %w", err)
	}

	counts := make(map[models.NivelEducativo]int64, len(models.NivelesEducativos))
	for _, nivel := range models.NivelesEducativos {
		counts[nivel] = 0
	}
	for _, r := range results {
		counts[r.NivelEducativo] = r.Count
	}

	return counts, nil
}
