package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sistema-educativo/alumnos-service/internal/locks"
	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"github.com/sistema-educativo/alumnos-service/internal/validator"
)

type alumnoService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	matricula *MatriculaGenerator
	locker    locks.Locker
	now       func() time.Time
}

func NewAlumnoService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, matricula *MatriculaGenerator, locker locks.Locker) AlumnoService {
	return &alumnoService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		matricula: matricula,
		locker:    locker,
		now:       time.Now,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *alumnoService) Create(ctx context.Context, req *CreateAlumnoRequest) (*models.Alumno, error) {
	normalizeCreateRequest(req)

	if errs := s.validator.GetBusinessValidator().ValidateAlumnoCreate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	exists, err := s.repo.Alumno().ExistsByCURP(ctx, nil, req.CURP, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check curp uniqueness: %w", err)
	}
	if exists {
		return nil, NewDuplicateError("curp", req.CURP)
	}

	alumno, err := buildAlumno(req, s.now())
	if err != nil {
		return nil, err
	}

	prefix := s.matricula.Prefix()
	release, err := s.locker.Acquire(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to lock matricula sequence: %w", err)
	}
	defer release()

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		matricula, err := s.matricula.Next(ctx, txRepo.Alumno(), prefix)
		if err != nil {
			return fmt.Errorf("failed to generate matricula: %w", err)
		}
		alumno.Matricula = matricula

		if err := txRepo.Alumno().Create(ctx, nil, alumno); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, s.duplicateCause(ctx, alumno)
		}
		return nil, fmt.Errorf("failed to create alumno: %w", err)
	}

	s.logger.Info("Alumno created successfully",
		"alumno_id", alumno.ID, "matricula", alumno.Matricula, "nombre", alumno.NombreCompleto())

	return s.GetByID(ctx, alumno.ID)
}

func (s *alumnoService) GetByID(ctx context.Context, id uint) (*models.Alumno, error) {
	alumno, err := s.repo.Alumno().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alumno: %w", err)
	}
	return alumno, nil
}

func (s *alumnoService) GetByMatricula(ctx context.Context, matricula string) (*models.Alumno, error) {
	alumno, err := s.repo.Alumno().GetByMatricula(ctx, nil, matricula)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alumno by matricula: %w", err)
	}
	return alumno, nil
}

func (s *alumnoService) GetByCURP(ctx context.Context, curp string) (*models.Alumno, error) {
	alumno, err := s.repo.Alumno().GetByCURP(ctx, nil, normalizeCURP(curp))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alumno by curp: %w", err)
	}
	return alumno, nil
}

func (s *alumnoService) Update(ctx context.Context, id uint, req *UpdateAlumnoRequest) (*models.Alumno, error) {
	s.logger.Info("Updating alumno", "alumno_id", id)

	alumno, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalizeUpdateRequest(req)

	if errs := s.validator.GetBusinessValidator().ValidateAlumnoUpdate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	if req.CURP != nil && *req.CURP != alumno.CURP {
		exists, err := s.repo.Alumno().ExistsByCURP(ctx, nil, *req.CURP, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check curp uniqueness: %w", err)
		}
		if exists {
			return nil, NewDuplicateError("curp", *req.CURP)
		}
	}

	if err := applyAlumnoUpdates(alumno, req); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Alumno().Update(ctx, nil, alumno); err != nil {
			return err
		}

		// nil leaves the contacts untouched, an empty list removes them
		if req.ContactosEmergencia != nil {
			if err := txRepo.Alumno().ReplaceContactos(ctx, nil, id, contactosFromRequest(*req.ContactosEmergencia)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewDuplicateError("curp", alumno.CURP)
		}
		return nil, fmt.Errorf("failed to update alumno: %w", err)
	}

	s.logger.Info("Alumno updated successfully", "alumno_id", id)

	return s.GetByID(ctx, id)
}

func (s *alumnoService) Delete(ctx context.Context, id uint) error {
	s.logger.Info("Deleting alumno", "alumno_id", id)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Alumno().Delete(ctx, nil, id)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete alumno: %w", err)
	}

	s.logger.Info("Alumno deleted successfully", "alumno_id", id)
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (s *alumnoService) List(ctx context.Context, filters repositories.AlumnoFilters) (*models.AlumnoListResponse, error) {
	total, err := s.repo.Alumno().Count(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count alumnos: %w", err)
	}

	alumnos, err := s.repo.Alumno().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list alumnos: %w", err)
	}

	page, pages := paginationMeta(total, filters.Offset, filters.Limit)

	return &models.AlumnoListResponse{
		Total:   total,
		Page:    page,
		PerPage: filters.Limit,
		Pages:   pages,
		Items:   alumnos,
	}, nil
}

// ===== STATISTICS =====

func (s *alumnoService) GetEstadisticas(ctx context.Context) (*models.Estadisticas, error) {
	total, err := s.repo.Estadisticas().CountTotal(ctx, nil)
	if err != nil {
		return nil, err
	}

	byEstado, err := s.repo.Estadisticas().CountByEstado(ctx, nil)
	if err != nil {
		return nil, err
	}

	// the level breakdown only counts active alumnos
	byNivel, err := s.repo.Estadisticas().CountByNivel(ctx, nil, models.EstadoActivo)
	if err != nil {
		return nil, err
	}

	return &models.Estadisticas{
		TotalAlumnos:      total,
		AlumnosActivos:    byEstado[models.EstadoActivo],
		AlumnosInactivos:  byEstado[models.EstadoInactivo],
		AlumnosEgresados:  byEstado[models.EstadoEgresado],
		PorNivelEducativo: byNivel,
	}, nil
}

// duplicateCause tells a CURP collision from a matricula collision after a failed insert
func (s *alumnoService) duplicateCause(ctx context.Context, alumno *models.Alumno) error {
	exists, err := s.repo.Alumno().ExistsByCURP(ctx, nil, alumno.CURP, nil)
	if err == nil && !exists {
		return NewDuplicateError("matricula", alumno.Matricula)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Failed to classify duplicate key", "error", err)
	}
	return NewDuplicateError("curp", alumno.CURP)
}
