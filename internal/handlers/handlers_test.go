package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sistema-educativo/alumnos-service/internal/locks"
	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories/postgres"
	"github.com/sistema-educativo/alumnos-service/internal/services"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
)

func testClock() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestRouter(t *testing.T, maxFileSize int64) (*gin.Engine, services.ServiceManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	manager := services.NewServiceManager(repo, slogLogger, validator.NewWithClock(testClock), locks.NewLocalLocker(),
		services.ServiceManagerConfig{MatriculaPrefix: "UNI", Clock: testClock})
	require.NoError(t, manager.Initialize(context.Background()))

	logger := utils.NewSlogLogger(slogLogger)
	router := gin.New()
	SetupMiddleware(router, logger, []string{"http://localhost:3000", "http://localhost:5173"})
	NewHandlerManager(manager, logger, maxFileSize).SetupRoutes(router)
	return router, manager
}

func testCURP(t *testing.T, i int) string {
	t.Helper()
	prefix := fmt.Sprintf("HAND%06dMDFRRN0", i)
	digit, ok := utils.CURPCheckDigit(prefix)
	require.True(t, ok)
	return fmt.Sprintf("%s%d", prefix, digit)
}

func alumnoBody(curp string) map[string]interface{} {
	return map[string]interface{}{
		"nombre":           "Lucía",
		"apellido_paterno": "Hernández",
		"fecha_nacimiento": "2014-09-10",
		"curp":             curp,
		"nivel_educativo":  "Primaria",
		"grado":            "5",
		"grupo":            "B",
		"contactos_emergencia": []map[string]string{
			{"nombre": "Rosa Hernández", "telefono": "(55) 1234-5678", "relacion": "Madre"},
		},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAlumnoHandler_CRUD(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := doJSON(t, router, http.MethodPost, "/api/v1/alumnos/", alumnoBody(testCURP(t, 1)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Alumno](t, w)
	assert.Equal(t, "UNI2025001", created.Matricula)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/alumnos/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.CURP, decode[models.Alumno](t, w).CURP)

	w = doJSON(t, router, http.MethodGet, "/api/v1/alumnos/matricula/UNI2025001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Alumno](t, w).ID)

	w = doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/alumnos/%d", created.ID), map[string]interface{}{
		"grupo":                "C",
		"contactos_emergencia": []map[string]string{},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Alumno](t, w)
	assert.Equal(t, "C", updated.Grupo)
	assert.Equal(t, "5", updated.Grado)
	assert.Empty(t, updated.ContactosEmergencia)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/alumnos/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/alumnos/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Alumno no encontrado", decode[ErrorResponse](t, w).Message)
}

func TestAlumnoHandler_UpdateNullSurname(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	body := alumnoBody(testCURP(t, 1))
	body["apellido_materno"] = "Ruiz"
	w := doJSON(t, router, http.MethodPost, "/api/v1/alumnos/", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Alumno](t, w)
	require.NotNil(t, created.ApellidoMaterno)

	path := fmt.Sprintf("/api/v1/alumnos/%d", created.ID)
	w = doJSON(t, router, http.MethodPut, path, map[string]interface{}{"grado": "6"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Alumno](t, w)
	require.NotNil(t, updated.ApellidoMaterno, "an omitted surname is kept")
	assert.Equal(t, "Ruiz", *updated.ApellidoMaterno)
	assert.Len(t, updated.ContactosEmergencia, 1)

	w = doJSON(t, router, http.MethodPut, path, map[string]interface{}{
		"apellido_materno":     nil,
		"contactos_emergencia": nil,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated = decode[models.Alumno](t, w)
	assert.Nil(t, updated.ApellidoMaterno, "an explicit null clears the surname")
	assert.Len(t, updated.ContactosEmergencia, 1, "null contacts leave them untouched")
	assert.Equal(t, "6", updated.Grado)
}

func TestAlumnoHandler_Errors(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := doJSON(t, router, http.MethodPost, "/api/v1/alumnos", alumnoBody(testCURP(t, 1)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{name: "duplicate curp", method: http.MethodPost, path: "/api/v1/alumnos/", body: alumnoBody(testCURP(t, 1)),
			wantStatus: http.StatusConflict, wantMsg: "Ya existe un alumno con esta CURP"},
		{name: "malformed json", method: http.MethodPost, path: "/api/v1/alumnos/", body: "not an object",
			wantStatus: http.StatusBadRequest},
		{name: "non numeric id", method: http.MethodGet, path: "/api/v1/alumnos/abc", wantStatus: http.StatusBadRequest},
		{name: "unknown matricula", method: http.MethodGet, path: "/api/v1/alumnos/matricula/UNI2025999",
			wantStatus: http.StatusNotFound, wantMsg: "Alumno no encontrado"},
		{name: "update missing", method: http.MethodPut, path: "/api/v1/alumnos/999", body: map[string]string{"grupo": "A"},
			wantStatus: http.StatusNotFound},
		{name: "delete missing", method: http.MethodDelete, path: "/api/v1/alumnos/999", wantStatus: http.StatusNotFound},
		{name: "limit zero", method: http.MethodGet, path: "/api/v1/alumnos/?limit=0", wantStatus: http.StatusBadRequest},
		{name: "limit too large", method: http.MethodGet, path: "/api/v1/alumnos/?limit=501", wantStatus: http.StatusBadRequest},
		{name: "negative skip", method: http.MethodGet, path: "/api/v1/alumnos/?skip=-1", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decode[ErrorResponse](t, w).Message)
			}
		})
	}
}

func TestAlumnoHandler_ValidationErrors(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	body := alumnoBody("HAND000001MDFRRN0X")
	body["nivel_educativo"] = "Universidad"
	w := doJSON(t, router, http.MethodPost, "/api/v1/alumnos/", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[ErrorResponse](t, w)
	fields := make([]string, 0, len(resp.ValidationErrors))
	for _, e := range resp.ValidationErrors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "curp")
	assert.Contains(t, fields, "nivel_educativo")
}

func TestAlumnoHandler_ListAndEstadisticas(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	for i := 1; i <= 3; i++ {
		body := alumnoBody(testCURP(t, i))
		if i == 3 {
			body["nombre"] = "Mateo"
			body["estado"] = "Inactivo"
		}
		w := doJSON(t, router, http.MethodPost, "/api/v1/alumnos/", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/alumnos?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.AlumnoListResponse](t, w)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Items, 2)

	w = doJSON(t, router, http.MethodGet, "/api/v1/alumnos/?search=mateo&estado=Inactivo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	filtered := decode[models.AlumnoListResponse](t, w)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "Mateo", filtered.Items[0].Nombre)

	w = doJSON(t, router, http.MethodGet, "/api/v1/alumnos/estadisticas/general", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.Estadisticas](t, w)
	assert.Equal(t, int64(3), stats.TotalAlumnos)
	assert.Equal(t, int64(2), stats.AlumnosActivos)
	assert.Equal(t, int64(1), stats.AlumnosInactivos)
	assert.Equal(t, int64(2), stats.PorNivelEducativo[models.NivelPrimaria])
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/importacion/importar-alumnos", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportacionHandler_TemplateAndImport(t *testing.T) {
	router, _ := newTestRouter(t, 10<<20)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/importacion/plantilla-excel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=plantilla_alumnos.xlsx", w.Header().Get("Content-Disposition"))
	template := w.Body.Bytes()

	w = httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "plantilla_alumnos.xlsx", template))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[models.ImportResult](t, w)
	assert.Equal(t, 2, result.SuccessCount, result.Errors)
	assert.Zero(t, result.ErrorCount)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "segunda.xlsx", template))
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[models.ImportResult](t, w)
	assert.Equal(t, 0, again.SuccessCount)
	assert.Equal(t, 2, again.ErrorCount)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/importacion/exportar-alumnos?grupo=A", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=alumnos_export.xlsx", w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestImportacionHandler_RejectsUploads(t *testing.T) {
	router, _ := newTestRouter(t, 64)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{name: "wrong extension", req: uploadRequest(t, "alumnos.csv", []byte("nombre,curp")), wantStatus: http.StatusBadRequest},
		{name: "too large", req: uploadRequest(t, "alumnos.xlsx", bytes.Repeat([]byte("x"), 128)), wantStatus: http.StatusRequestEntityTooLarge},
		{name: "missing file", req: httptest.NewRequest(http.MethodPost, "/api/v1/importacion/importar-alumnos", nil), wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestImportacionHandler_CorruptWorkbook(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "roto.xlsx", []byte("no es un zip")))
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[models.ImportResult](t, w)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Error al procesar archivo:")
}

func TestRouter_HealthRootAndCORS(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, w)["status"])

	w = doJSON(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, serviceVersion, decode[map[string]string](t, w)["version"])

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/alumnos/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
