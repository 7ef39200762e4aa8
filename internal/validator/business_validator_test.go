package validator

import (
	"testing"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 1, 10, 30, 0, 0, time.UTC)
}

func validCreateRequest() *AlumnoCreateRequest {
	materno := "López"
	return &AlumnoCreateRequest{
		Nombre:          "Juan",
		ApellidoPaterno: "Pérez",
		ApellidoMaterno: &materno,
		FechaNacimiento: "2010-05-15",
		CURP:            "PELJ100515HDFRZN09",
		NivelEducativo:  models.NivelPrimaria,
		Grado:           "6",
		Grupo:           "A",
		ContactosEmergencia: []ContactoEmergenciaRequest{
			{Nombre: "Pedro Pérez", Telefono: "5551234567", Relacion: "Padre"},
		},
	}
}

func fieldsOf(errs ValidationErrors) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestBusinessValidator_ValidateAlumnoCreate(t *testing.T) {
	bv := NewBusinessValidatorWithClock(fixedClock)

	tests := []struct {
		name      string
		mutate    func(req *AlumnoCreateRequest)
		wantField string
		wantRule  string
	}{
		{name: "valid", mutate: func(req *AlumnoCreateRequest) {}},
		{
			name:      "missing nombre",
			mutate:    func(req *AlumnoCreateRequest) { req.Nombre = "" },
			wantField: "nombre",
			wantRule:  "required",
		},
		{
			name:      "short apellido paterno",
			mutate:    func(req *AlumnoCreateRequest) { req.ApellidoPaterno = "P" },
			wantField: "apellido_paterno",
			wantRule:  "min",
		},
		{
			name:      "bad curp check digit",
			mutate:    func(req *AlumnoCreateRequest) { req.CURP = "PELJ100515HDFRZN08" },
			wantField: "curp",
			wantRule:  "mx_curp",
		},
		{
			name:      "invalid nivel",
			mutate:    func(req *AlumnoCreateRequest) { req.NivelEducativo = "Universidad" },
			wantField: "nivel_educativo",
			wantRule:  "nivel_educativo",
		},
		{
			name:      "invalid estado",
			mutate:    func(req *AlumnoCreateRequest) { req.Estado = "Suspendido" },
			wantField: "estado",
			wantRule:  "estado_alumno",
		},
		{
			name:      "too young",
			mutate:    func(req *AlumnoCreateRequest) { req.FechaNacimiento = "2023-01-01" },
			wantField: "fecha_nacimiento",
			wantRule:  "birth_date",
		},
		{
			name: "invalid contact phone",
			mutate: func(req *AlumnoCreateRequest) {
				req.ContactosEmergencia[0].Telefono = "12345678901"
			},
			wantField: "contactos_emergencia[0].telefono",
			wantRule:  "mx_phone",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			errs := bv.ValidateAlumnoCreate(req)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Contains(t, fieldsOf(errs), tt.wantField)
			for _, e := range errs {
				if e.Field == tt.wantField {
					assert.Equal(t, tt.wantRule, e.Rule)
				}
			}
		})
	}
}

func TestBusinessValidator_ValidateAlumnoUpdate(t *testing.T) {
	bv := NewBusinessValidatorWithClock(fixedClock)

	empty := ""
	badCURP := "XXXX000000HXXXXX01"
	estado := models.EstadoEgresado
	contacts := []ContactoEmergenciaRequest{}

	assert.Empty(t, bv.ValidateAlumnoUpdate(&AlumnoUpdateRequest{}))
	assert.Empty(t, bv.ValidateAlumnoUpdate(&AlumnoUpdateRequest{Estado: &estado, ContactosEmergencia: &contacts}))
	assert.Empty(t, bv.ValidateAlumnoUpdate(&AlumnoUpdateRequest{ApellidoMaterno: &empty}))

	errs := bv.ValidateAlumnoUpdate(&AlumnoUpdateRequest{Nombre: &empty, CURP: &badCURP})
	assert.ElementsMatch(t, []string{"nombre", "curp"}, fieldsOf(errs))
}

func TestBusinessValidator_ValidBirthDate(t *testing.T) {
	bv := NewBusinessValidatorWithClock(fixedClock)

	tests := []struct {
		date string
		want bool
	}{
		{"2010-05-15", true},
		{"2022-06-01", true},  // exactly 3 today
		{"2022-06-02", false}, // turns 3 tomorrow
		{"2000-06-02", true},  // 24
		{"1999-06-02", true},  // 25
		{"1999-06-01", false}, // 26 today
		{"2025-06-01", false}, // today
		{"2030-01-01", false},
		{"15/05/2010", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, bv.ValidBirthDate(tt.date))
		})
	}
}

func TestAgeAt(t *testing.T) {
	on := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 15, AgeAt(time.Date(2010, time.May, 15, 0, 0, 0, 0, time.UTC), on))
	assert.Equal(t, 14, AgeAt(time.Date(2010, time.June, 2, 0, 0, 0, 0, time.UTC), on))
	assert.Equal(t, 15, AgeAt(time.Date(2010, time.June, 1, 0, 0, 0, 0, time.UTC), on))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "curp", Message: "Formato de CURP inválido"},
		{Field: "grado", Message: "es obligatorio"},
	}
	assert.Equal(t, "curp: Formato de CURP inválido; grado: es obligatorio", errs.Error())
	assert.Equal(t, "validation failed", ValidationErrors{}.Error())
}
