package models

import (
	"time"

	"gorm.io/datatypes"
)

type NivelEducativo string

const (
	NivelPreescolar   NivelEducativo = "Preescolar"
	NivelPrimaria     NivelEducativo = "Primaria"
	NivelSecundaria   NivelEducativo = "Secundaria"
	NivelPreparatoria NivelEducativo = "Preparatoria"
)

// NivelesEducativos lists the educational levels in reporting order
var NivelesEducativos = []NivelEducativo{NivelPreescolar, NivelPrimaria, NivelSecundaria, NivelPreparatoria}

func (n NivelEducativo) IsValid() bool {
	for _, nivel := range NivelesEducativos {
		if n == nivel {
			return true
		}
	}
	return false
}

type EstadoAlumno string

const (
	EstadoActivo   EstadoAlumno = "Activo"
	EstadoInactivo EstadoAlumno = "Inactivo"
	EstadoEgresado EstadoAlumno = "Egresado"
)

var EstadosAlumno = []EstadoAlumno{EstadoActivo, EstadoInactivo, EstadoEgresado}

func (e EstadoAlumno) IsValid() bool {
	for _, estado := range EstadosAlumno {
		if e == estado {
			return true
		}
	}
	return false
}

type Alumno struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Matricula       string         `json:"matricula" gorm:"uniqueIndex;not null;size:20"`
	Nombre          string         `json:"nombre" gorm:"not null;size:100"`
	ApellidoPaterno string         `json:"apellido_paterno" gorm:"not null;size:100"`
	ApellidoMaterno *string        `json:"apellido_materno" gorm:"size:100"`
	FechaNacimiento datatypes.Date `json:"fecha_nacimiento" gorm:"not null"`
	CURP            string         `json:"curp" gorm:"column:curp;uniqueIndex;not null;size:18"`
	NivelEducativo  NivelEducativo `json:"nivel_educativo" gorm:"not null;size:50;index"`
	Grado           string         `json:"grado" gorm:"not null;size:10"`
	Grupo           string         `json:"grupo" gorm:"not null;size:10"`
	Estado          EstadoAlumno   `json:"estado" gorm:"not null;size:20;default:Activo;index"`

	FechaInscripcion time.Time `json:"fecha_inscripcion" gorm:"not null"`

	// Relations
	ContactosEmergencia []ContactoEmergencia `json:"contactos_emergencia" gorm:"foreignKey:AlumnoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

type ContactoEmergencia struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	AlumnoID uint   `json:"alumno_id" gorm:"not null;index"`
	Nombre   string `json:"nombre" gorm:"not null;size:200"`
	Telefono string `json:"telefono" gorm:"not null;size:20"`
	Relacion string `json:"relacion" gorm:"not null;size:50"` // Padre, Madre, Tutor...
}

func (Alumno) TableName() string {
	return "alumnos"
}

func (ContactoEmergencia) TableName() string {
	return "contactos_emergencia"
}

// NombreCompleto joins the given name and both surnames
func (a *Alumno) NombreCompleto() string {
	nombre := a.Nombre + " " + a.ApellidoPaterno
	if a.ApellidoMaterno != nil && *a.ApellidoMaterno != "" {
		nombre += " " + *a.ApellidoMaterno
	}
	return nombre
}

// BirthDate returns the birth date as a time.Time at midnight UTC
func (a *Alumno) BirthDate() time.Time {
	return time.Time(a.FechaNacimiento)
}

// AllModels returns every model handled by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&Alumno{},
		&ContactoEmergencia{},
	}
}
