package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
	"gorm.io/datatypes"
)

func normalizeCURP(curp string) string {
	return utils.NormalizeCURP(curp)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func normalizeContactos(contactos []ContactoEmergenciaRequest) {
	for i := range contactos {
		contactos[i].Nombre = strings.TrimSpace(contactos[i].Nombre)
		contactos[i].Telefono = strings.TrimSpace(contactos[i].Telefono)
		contactos[i].Relacion = strings.TrimSpace(contactos[i].Relacion)
	}
}

func normalizeCreateRequest(req *CreateAlumnoRequest) {
	req.Nombre = strings.TrimSpace(req.Nombre)
	req.ApellidoPaterno = strings.TrimSpace(req.ApellidoPaterno)
	trimPtr(req.ApellidoMaterno)
	req.FechaNacimiento = strings.TrimSpace(req.FechaNacimiento)
	req.CURP = normalizeCURP(req.CURP)
	req.NivelEducativo = models.NivelEducativo(strings.TrimSpace(string(req.NivelEducativo)))
	req.Grado = strings.TrimSpace(req.Grado)
	req.Grupo = strings.TrimSpace(req.Grupo)
	req.Estado = models.EstadoAlumno(strings.TrimSpace(string(req.Estado)))
	if req.Estado == "" {
		req.Estado = models.EstadoActivo
	}
	normalizeContactos(req.ContactosEmergencia)
}

func normalizeUpdateRequest(req *UpdateAlumnoRequest) {
	trimPtr(req.Nombre)
	trimPtr(req.ApellidoPaterno)
	trimPtr(req.ApellidoMaterno)
	trimPtr(req.FechaNacimiento)
	trimPtr(req.Grado)
	trimPtr(req.Grupo)
	if req.CURP != nil {
		curp := normalizeCURP(*req.CURP)
		req.CURP = &curp
	}
	if req.NivelEducativo != nil {
		nivel := models.NivelEducativo(strings.TrimSpace(string(*req.NivelEducativo)))
		req.NivelEducativo = &nivel
	}
	if req.Estado != nil {
		estado := models.EstadoAlumno(strings.TrimSpace(string(*req.Estado)))
		req.Estado = &estado
	}
	if req.ContactosEmergencia != nil {
		normalizeContactos(*req.ContactosEmergencia)
	}
}

func parseBirthDate(value string) (datatypes.Date, error) {
	t, err := time.Parse(validator.BirthDateLayout, value)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid fecha_nacimiento %q: %w", value, err)
	}
	return datatypes.Date(t), nil
}

func optionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func contactosFromRequest(reqs []ContactoEmergenciaRequest) []models.ContactoEmergencia {
	contactos := make([]models.ContactoEmergencia, 0, len(reqs))
	for _, c := range reqs {
		contactos = append(contactos, models.ContactoEmergencia{
			Nombre:   c.Nombre,
			Telefono: c.Telefono,
			Relacion: c.Relacion,
		})
	}
	return contactos
}

// buildAlumno maps a validated create request to a new model without matricula
func buildAlumno(req *CreateAlumnoRequest, now time.Time) (*models.Alumno, error) {
	fecha, err := parseBirthDate(req.FechaNacimiento)
	if err != nil {
		return nil, err
	}

	return &models.Alumno{
		Nombre:              req.Nombre,
		ApellidoPaterno:     req.ApellidoPaterno,
		ApellidoMaterno:     optionalString(req.ApellidoMaterno),
		FechaNacimiento:     fecha,
		CURP:                req.CURP,
		NivelEducativo:      req.NivelEducativo,
		Grado:               req.Grado,
		Grupo:               req.Grupo,
		Estado:              req.Estado,
		FechaInscripcion:    now.UTC(),
		ContactosEmergencia: contactosFromRequest(req.ContactosEmergencia),
	}, nil
}

// applyAlumnoUpdates copies every supplied field onto alumno; contacts are handled by the caller
func applyAlumnoUpdates(alumno *models.Alumno, req *UpdateAlumnoRequest) error {
	if req.Nombre != nil {
		alumno.Nombre = *req.Nombre
	}
	if req.ApellidoPaterno != nil {
		alumno.ApellidoPaterno = *req.ApellidoPaterno
	}
	if req.ApellidoMaterno != nil {
		alumno.ApellidoMaterno = optionalString(req.ApellidoMaterno)
	}
	if req.FechaNacimiento != nil {
		fecha, err := parseBirthDate(*req.FechaNacimiento)
		if err != nil {
			return err
		}
		alumno.FechaNacimiento = fecha
	}
	if req.CURP != nil {
		alumno.CURP = *req.CURP
	}
	if req.NivelEducativo != nil {
		alumno.NivelEducativo = *req.NivelEducativo
	}
	if req.Grado != nil {
		alumno.Grado = *req.Grado
	}
	if req.Grupo != nil {
		alumno.Grupo = *req.Grupo
	}
	if req.Estado != nil {
		alumno.Estado = *req.Estado
	}
	return nil
}

// paginationMeta returns the 1-based page of offset and the page count for total
func paginationMeta(total int64, offset, limit int) (page, pages int) {
	if limit <= 0 {
		if total > 0 {
			return 1, 1
		}
		return 1, 0
	}
	page = offset/limit + 1
	pages = int((total + int64(limit) - 1) / int64(limit))
	return page, pages
}
