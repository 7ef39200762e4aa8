package postgres

import (
	"context"
	"fmt"

	"github.com/sistema-educativo/alumnos-service/internal/models"
	"github.com/sistema-educativo/alumnos-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type alumnoRepository struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAlumnoPostgreSQL(db *gorm.DB) repositories.AlumnoRepository {
	return &alumnoRepository{db: db, helpers: NewSharedHelpers(db)}
}

func (r *alumnoRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ===== BASIC CRUD OPERATIONS =====

// Create inserts the alumno together with its emergency contacts
func (r *alumnoRepository) Create(ctx context.Context, tx *gorm.DB, alumno *models.Alumno) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(alumno).Error; err != nil {
		return handleDBError(err, "create alumno")
	}
	return nil
}

func (r *alumnoRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Alumno, error) {
	db := r.getDB(tx)
	var alumno models.Alumno

	if err := preloadContactos(db.WithContext(ctx)).First(&alumno, id).Error; err != nil {
		return nil, handleDBError(err, "get alumno by id")
	}

	return &alumno, nil
}

func (r *alumnoRepository) GetByMatricula(ctx context.Context, tx *gorm.DB, matricula string) (*models.Alumno, error) {
	db := r.getDB(tx)
	var alumno models.Alumno

	if err := preloadContactos(db.WithContext(ctx)).
		Where("matricula = ?", matricula).
		First(&alumno).Error; err != nil {
		return nil, handleDBError(err, "get alumno by matricula")
	}

	return &alumno, nil
}

func (r *alumnoRepository) GetByCURP(ctx context.Context, tx *gorm.DB, curp string) (*models.Alumno, error) {
	db := r.getDB(tx)
	var alumno models.Alumno

	if err := preloadContactos(db.WithContext(ctx)).
		Where("curp = ?", curp).
		First(&alumno).Error; err != nil {
		return nil, handleDBError(err, "get alumno by curp")
	}

	return &alumno, nil
}

// Update saves the alumno columns only; contacts go through ReplaceContactos
func (r *alumnoRepository) Update(ctx context.Context, tx *gorm.DB, alumno *models.Alumno) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Omit(clause.Associations).Save(alumno).Error; err != nil {
		return handleDBError(err, "update alumno")
	}
	return nil
}

// Delete removes the alumno and its contacts
func (r *alumnoRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("alumno_id = ?", id).Delete(&models.ContactoEmergencia{}).Error; err != nil {
		return handleDBError(err, "delete contactos de emergencia")
	}

	result := db.Delete(&models.Alumno{}, id)
	if result.Error != nil {
		return handleDBError(result.Error, "delete alumno")
	}
	if result.RowsAffected == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "delete alumno")
	}
	return nil
}

// ReplaceContactos deletes every contact of the alumno and inserts the given ones
func (r *alumnoRepository) ReplaceContactos(ctx context.Context, tx *gorm.DB, alumnoID uint, contactos []models.ContactoEmergencia) error {
	db := r.getDB(tx).WithContext(ctx)

	if err := db.Where("alumno_id = ?", alumnoID).Delete(&models.ContactoEmergencia{}).Error; err != nil {
		return handleDBError(err, "delete contactos de emergencia")
	}
	if len(contactos) == 0 {
		return nil
	}

	for i := range contactos {
		contactos[i].ID = 0
		contactos[i].AlumnoID = alumnoID
	}
	if err := db.Create(&contactos).Error; err != nil {
		return handleDBError(err, "create contactos de emergencia")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *alumnoRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AlumnoFilters) ([]*models.Alumno, error) {
	db := r.getDB(tx)
	var alumnos []*models.Alumno

	query := preloadContactos(db.WithContext(ctx).Model(&models.Alumno{}))
	query = r.helpers.ApplyAlumnoFilters(query, filters)
	query = r.helpers.ApplyPagination(query.Order("id ASC"), filters.Limit, filters.Offset)

	if err := query.Find(&alumnos).Error; err != nil {
		return nil, handleDBError(err, "list alumnos")
	}

	return alumnos, nil
}

func (r *alumnoRepository) Count(ctx context.Context, tx *gorm.DB, filters repositories.AlumnoFilters) (int64, error) {
	db := r.getDB(tx)
	var total int64

	query := r.helpers.ApplyAlumnoFilters(db.WithContext(ctx).Model(&models.Alumno{}), filters)
	if err := query.Count(&total).Error; err != nil {
		return 0, handleDBError(err, "count alumnos")
	}

	return total, nil
}

// ===== VALIDATION AND CHECKS =====

func (r *alumnoRepository) ExistsByCURP(ctx context.Context, tx *gorm.DB, curp string, excludeID *uint) (bool, error) {
	db := r.getDB(tx)
	var count int64

	query := db.WithContext(ctx).Model(&models.Alumno{}).Where("curp = ?", curp)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check curp exists")
	}

	return count > 0, nil
}

func (r *alumnoRepository) GetLastMatricula(ctx context.Context, tx *gorm.DB, prefix string) (string, error) {
	db := r.getDB(tx)
	var matriculas []string

	if err := db.WithContext(ctx).
		Model(&models.Alumno{}).
		Where("matricula LIKE ?", prefix+"%").
		Order("matricula DESC").
		Limit(1).
		Pluck("matricula", &matriculas).Error; err != nil {
		return "", fmt.Errorf("get last matricula for %s failed: %w", prefix, err)
	}

	if len(matriculas) == 0 {
		return "", nil
	}
	return matriculas[0], nil
}

func preloadContactos(db *gorm.DB) *gorm.DB {
	return db.Preload("ContactosEmergencia", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}
