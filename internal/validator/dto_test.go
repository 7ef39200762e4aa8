package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlumnoUpdateRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantMaterno  *string
		wantContacts bool
	}{
		{name: "omitted key", body: `{"grado": "4"}`, wantMaterno: nil},
		{name: "explicit null clears", body: `{"apellido_materno": null}`, wantMaterno: strPtr("")},
		{name: "value", body: `{"apellido_materno": "López"}`, wantMaterno: strPtr("López")},
		{name: "null contacts stay untouched", body: `{"contactos_emergencia": null}`, wantMaterno: nil},
		{name: "empty contacts", body: `{"contactos_emergencia": []}`, wantMaterno: nil, wantContacts: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req AlumnoUpdateRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.wantMaterno, req.ApellidoMaterno)
			assert.Equal(t, tt.wantContacts, req.ContactosEmergencia != nil)
		})
	}
}

func TestAlumnoUpdateRequest_UnmarshalJSONKeepsOtherFields(t *testing.T) {
	var req AlumnoUpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"apellido_materno": null, "grado": "5", "estado": "Egresado"}`), &req))
	require.NotNil(t, req.Grado)
	assert.Equal(t, "5", *req.Grado)
	require.NotNil(t, req.Estado)
	assert.Equal(t, "Egresado", string(*req.Estado))
	assert.Nil(t, req.Nombre)

	assert.Error(t, json.Unmarshal([]byte(`{"grado": 5}`), &req))
}

func strPtr(s string) *string {
	return &s
}
