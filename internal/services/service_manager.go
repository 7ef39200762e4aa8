package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/locks"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	MatriculaPrefix string
	ExportMaxRows   int

	// Clock drives the matricula year; defaults to time.Now
	Clock func() time.Time
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	locker    locks.Locker
	config    ServiceManagerConfig

	// Service instances
	alumnoService       AlumnoService
	importExportService ImportExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, locker locks.Locker, config ServiceManagerConfig) ServiceManager {
	if locker == nil {
		locker = locks.NewLocalLocker()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		locker:    locker,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.MatriculaPrefix == "" {
		return fmt.Errorf("failed to initialize services: matricula prefix is required")
	}

	generator := NewMatriculaGenerator(sm.config.MatriculaPrefix, sm.config.Clock)

	sm.alumnoService = NewAlumnoService(sm.repo, sm.logger, sm.validator, generator, sm.locker)
	sm.logger.Info("Alumno service initialized")

	sm.importExportService = NewImportExportService(sm.alumnoService, sm.repo, sm.logger, sm.config.ExportMaxRows)
	sm.logger.Info("ImportExport service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Alumno() AlumnoService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.alumnoService
}

func (sm *serviceManager) ImportExport() ImportExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	return sm.importExportService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
