package repositories

import "github.com/sistema-educativo/alumnos-service/internal/models"

// ===== SHARED FILTER STRUCTS =====

// AlumnoFilters are conjunctive; nil fields are not applied
type AlumnoFilters struct {
	Search         *string                `json:"search"` // substring over names, matricula and curp
	NivelEducativo *models.NivelEducativo `json:"nivel_educativo"`
	Grado          *string                `json:"grado"`
	Grupo          *string                `json:"grupo"`
	Estado         *models.EstadoAlumno   `json:"estado"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
}
