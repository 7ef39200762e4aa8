package models

import "time"

// ===== LIST RESPONSES =====

type AlumnoListResponse struct {
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Pages   int       `json:"pages"`
	Items   []*Alumno `json:"items"`
}

// ===== STATISTICS =====

type Estadisticas struct {
	TotalAlumnos      int64                    `json:"total_alumnos"`
	AlumnosActivos    int64                    `json:"alumnos_activos"`
	AlumnosInactivos  int64                    `json:"alumnos_inactivos"`
	AlumnosEgresados  int64                    `json:"alumnos_egresados"`
	PorNivelEducativo map[NivelEducativo]int64 `json:"por_nivel_educativo"`
}

// ===== IMPORT =====

type ImportResult struct {
	SuccessCount    int       `json:"success_count"`
	ErrorCount      int       `json:"error_count"`
	Errors          []string  `json:"errors"`
	ImportedAlumnos []*Alumno `json:"imported_alumnos"`
}

// ===== ERROR RESPONSES =====

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

type ErrorResponse struct {
	Error            string                    `json:"error,omitempty"`
	Message          string                    `json:"message"`
	Details          interface{}               `json:"details,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Path             string                    `json:"path,omitempty"`
	ValidationErrors []ValidationErrorResponse `json:"validation_errors,omitempty"`
}
