package validator

import (
	"bytes"
	"encoding/json"

	"github.com/sistema-educativo/alumnos-service/internal/models"
)

// BirthDateLayout is the wire format of fecha_nacimiento
const BirthDateLayout = "2006-01-02"

// ContactoEmergenciaRequest represents one emergency contact in create/update payloads
type ContactoEmergenciaRequest struct {
	Nombre   string `json:"nombre" validate:"required,min=2,max=200"`
	Telefono string `json:"telefono" validate:"required,min=10,max=20,mx_phone"`
	Relacion string `json:"relacion" validate:"required,min=2,max=50"`
}

// AlumnoCreateRequest represents the request structure for creating alumnos
type AlumnoCreateRequest struct {
	Nombre              string                      `json:"nombre" validate:"required,min=2,max=100"`
	ApellidoPaterno     string                      `json:"apellido_paterno" validate:"required,min=2,max=100"`
	ApellidoMaterno     *string                     `json:"apellido_materno" validate:"omitempty,max=100"`
	FechaNacimiento     string                      `json:"fecha_nacimiento" validate:"required,birth_date"`
	CURP                string                      `json:"curp" validate:"required,len=18,mx_curp"`
	NivelEducativo      models.NivelEducativo       `json:"nivel_educativo" validate:"required,nivel_educativo"`
	Grado               string                      `json:"grado" validate:"required,min=1,max=10"`
	Grupo               string                      `json:"grupo" validate:"required,min=1,max=10"`
	Estado              models.EstadoAlumno         `json:"estado" validate:"omitempty,estado_alumno"` // defaults to Activo
	ContactosEmergencia []ContactoEmergenciaRequest `json:"contactos_emergencia" validate:"omitempty,dive"`
}

// AlumnoUpdateRequest carries only the fields to change.
// A nil pointer means the field was not sent. An empty ApellidoMaterno clears
// it; a JSON null for apellido_materno decodes to that empty value. A non-nil
// ContactosEmergencia, even empty, replaces every contact of the alumno.
type AlumnoUpdateRequest struct {
	Nombre              *string                      `json:"nombre" validate:"omitnil,min=2,max=100"`
	ApellidoPaterno     *string                      `json:"apellido_paterno" validate:"omitnil,min=2,max=100"`
	ApellidoMaterno     *string                      `json:"apellido_materno" validate:"omitempty,max=100"`
	FechaNacimiento     *string                      `json:"fecha_nacimiento" validate:"omitnil,birth_date"`
	CURP                *string                      `json:"curp" validate:"omitnil,len=18,mx_curp"`
	NivelEducativo      *models.NivelEducativo       `json:"nivel_educativo" validate:"omitnil,nivel_educativo"`
	Grado               *string                      `json:"grado" validate:"omitnil,min=1,max=10"`
	Grupo               *string                      `json:"grupo" validate:"omitnil,min=1,max=10"`
	Estado              *models.EstadoAlumno         `json:"estado" validate:"omitnil,estado_alumno"`
	ContactosEmergencia *[]ContactoEmergenciaRequest `json:"contactos_emergencia" validate:"omitnil,dive"`
}

// UnmarshalJSON keeps an explicit "apellido_materno": null apart from an omitted key
func (r *AlumnoUpdateRequest) UnmarshalJSON(data []byte) error {
	type plain AlumnoUpdateRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if raw, ok := keys["apellido_materno"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		cleared := ""
		decoded.ApellidoMaterno = &cleared
	}

	*r = AlumnoUpdateRequest(decoded)
	return nil
}
