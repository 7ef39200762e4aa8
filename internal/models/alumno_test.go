package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlumno_NombreCompleto(t *testing.T) {
	materno := "López"
	blank := ""

	tests := []struct {
		name    string
		materno *string
		want    string
	}{
		{name: "both surnames", materno: &materno, want: "Juan Pérez López"},
		{name: "no second surname", materno: nil, want: "Juan Pérez"},
		{name: "blank second surname", materno: &blank, want: "Juan Pérez"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Alumno{Nombre: "Juan", ApellidoPaterno: "Pérez", ApellidoMaterno: tt.materno}
			assert.Equal(t, tt.want, a.NombreCompleto())
		})
	}
}
