package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
)

const (
	MinAge = 3
	MaxAge = 25
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return NewBusinessValidatorWithClock(time.Now)
}

// NewBusinessValidatorWithClock is used by tests that need a fixed "today"
func NewBusinessValidatorWithClock(now func() time.Time) *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)

	bv := &BusinessValidator{validate: validate, now: now}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateAlumnoCreate validates an alumno creation request
func (bv *BusinessValidator) ValidateAlumnoCreate(req *AlumnoCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateAlumnoUpdate validates an alumno update request
func (bv *BusinessValidator) ValidateAlumnoUpdate(req *AlumnoUpdateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidBirthDate reports whether value is a YYYY-MM-DD date strictly before
// today whose age falls within MinAge and MaxAge
func (bv *BusinessValidator) ValidBirthDate(value string) bool {
	birth, err := time.Parse(BirthDateLayout, value)
	if err != nil {
		return false
	}

	today := bv.now()
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !birth.Before(todayDate) {
		return false
	}

	age := AgeAt(birth, todayDate)
	return age >= MinAge && age <= MaxAge
}

// AgeAt returns the number of whole years between birth and on
func AgeAt(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("mx_curp", func(fl validator.FieldLevel) bool {
		return utils.ValidateCURP(fl.Field().String())
	})

	bv.validate.RegisterValidation("mx_phone", func(fl validator.FieldLevel) bool {
		return utils.ValidateMexicanPhone(fl.Field().String())
	})

	bv.validate.RegisterValidation("birth_date", func(fl validator.FieldLevel) bool {
		return bv.ValidBirthDate(fl.Field().String())
	})

	bv.validate.RegisterValidation("nivel_educativo", func(fl validator.FieldLevel) bool {
		return models.NivelEducativo(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("estado_alumno", func(fl validator.FieldLevel) bool {
		return models.EstadoAlumno(fl.Field().String()).IsValid()
	})
}
