package postgres

import (
	"fmt"
	"strings"

	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common query building operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyAlumnoFilters applies the list filters to an alumnos query.
// LOWER(..) LIKE keeps the search portable across PostgreSQL and SQLite.
func (h *SharedHelpers) ApplyAlumnoFilters(query *gorm.DB, filters repositories.AlumnoFilters) *gorm.DB {
	if filters.Search != nil && strings.TrimSpace(*filters.Search) != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(*filters.Search)) + "%"
		query = query.Where(
			"(LOWER(nombre) LIKE ? OR LOWER(apellido_paterno) LIKE ? OR LOWER(COALESCE(apellido_materno, '')) LIKE ? OR LOWER(matricula) LIKE ? OR LOWER(curp) LIKE ?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if filters.NivelEducativo != nil {
		query = query.Where("nivel_educativo = ?", *filters.NivelEducativo)
	}
	if filters.Grado != nil {
		query = query.Where("grado = ?", *filters.Grado)
	}
	if filters.Grupo != nil {
		query = query.Where("grupo = ?", *filters.Grupo)
	}
	if filters.Estado != nil {
		query = query.Where("estado = ?", *filters.Estado)
	}
	return query
}

// ApplyPagination applies offset/limit; non-positive values are ignored
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}

// handleDBError is a package-level helper for handling database errors
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}
