package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/locks"
	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/repositories/postgres"
	"github.com/sistema-educativo/alumnos-service/internal/utils"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testClock() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

type testEnv struct {
	db           *gorm.DB
	repo         repositories.Repository
	alumnos      AlumnoService
	importExport ImportExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

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

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	manager := NewServiceManager(repo, slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator.NewWithClock(testClock), locks.NewLocalLocker(),
		ServiceManagerConfig{MatriculaPrefix: "UNI", ExportMaxRows: 1000, Clock: testClock})
	require.NoError(t, manager.Initialize(context.Background()))

	return &testEnv{
		db:           db,
		repo:         repo,
		alumnos:      manager.Alumno(),
		importExport: manager.ImportExport(),
	}
}

// testCURP builds a structurally valid CURP with a correct check digit
func testCURP(t *testing.T, i int) string {
	t.Helper()
	prefix := fmt.Sprintf("PRUE%06dHDFRRN0", i)
	digit, ok := utils.CURPCheckDigit(prefix)
	require.True(t, ok)
	return fmt.Sprintf("%s%d", prefix, digit)
}

func createRequest(t *testing.T, i int) *CreateAlumnoRequest {
	return &CreateAlumnoRequest{
		Nombre:          fmt.Sprintf("Alumno%d", i),
		ApellidoPaterno: "Prueba",
		FechaNacimiento: "2012-03-04",
		CURP:            testCURP(t, i),
		NivelEducativo:  models.NivelPrimaria,
		Grado:           "3",
		Grupo:           "A",
		ContactosEmergencia: []ContactoEmergenciaRequest{
			{Nombre: "Tutor Prueba", Telefono: "5551234567", Relacion: "Tutor"},
		},
	}
}
