package repositories

import "context"

// Repository groups every repository of the service
type Repository interface {
	Alumno() AlumnoRepository
	Estadisticas() EstadisticasRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
