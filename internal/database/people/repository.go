// Package people provides database operations for Person rows.
//
// Students and employees are built on top of this repository: their
// repositories bind it to their own transaction with WithTx.
//
// # Usage
//
//	repo := people.NewRepository(db, logger)
//	taken, err := repo.ExistsByNationalIDOrEmail(ctx, "12345678901", "ana@example.com", 0)
package people

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all person database operations.
type Repository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewRepository creates a new people repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With().Str("repository", "people").Logger()}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, logger: r.logger}
}

// Create inserts a person and returns the stored row with its new id.
func (r *Repository) Create(ctx context.Context, p entities.Person) (*entities.Person, error) {
	p.ID = 0
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, database.Report(r.logger, "create person", err)
	}
	r.logger.Info().Uint("id", p.ID).Msg("person created")
	return &p, nil
}

// FindByID retrieves a person by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Person, error) {
	var p entities.Person
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, database.Report(r.logger, "find person", err)
	}
	return &p, nil
}

// FindByNationalID retrieves a person by national ID.
func (r *Repository) FindByNationalID(ctx context.Context, nationalID string) (*entities.Person, error) {
	var p entities.Person
	if err := r.db.WithContext(ctx).Where("national_id = ?", nationalID).First(&p).Error; err != nil {
		return nil, database.Report(r.logger, "find person by national id", err)
	}
	return &p, nil
}

// FindByEmail retrieves a person by email address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*entities.Person, error) {
	var p entities.Person
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error; err != nil {
		return nil, database.Report(r.logger, "find person by email", err)
	}
	return &p, nil
}

// List retrieves all persons ordered by id.
func (r *Repository) List(ctx context.Context) ([]entities.Person, error) {
	var persons []entities.Person
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&persons).Error; err != nil {
		return nil, database.Report(r.logger, "list persons", err)
	}
	return persons, nil
}

// ExistsByNationalIDOrEmail reports whether another person already uses the
// national ID or the email. excludeID skips the person being updated.
func (r *Repository) ExistsByNationalIDOrEmail(ctx context.Context, nationalID, email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Person{}).
		Where("(national_id = ? OR email = ?)", nationalID, email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check person uniqueness", err)
	}
	return count > 0, nil
}

// Update overwrites the person's attributes. The id is never changed.
func (r *Repository) Update(ctx context.Context, p entities.Person) error {
	result := r.db.WithContext(ctx).Model(&entities.Person{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":        p.Name,
		"birth_date":  p.BirthDate,
		"national_id": p.NationalID,
		"phone":       p.Phone,
		"email":       p.Email,
	})
	if result.Error != nil {
		return database.Report(r.logger, "update person", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.Report(r.logger, "update person", database.NotFound("person", p.ID))
	}
	r.logger.Info().Uint("id", p.ID).Msg("person updated")
	return nil
}

// Delete removes a person that no longer backs a student or employee.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []struct {
			model any
			name  string
		}{
			{&entities.Student{}, "student"},
			{&entities.Employee{}, "employee"},
		} {
			var count int64
			if err := tx.Model(dependent.model).Where("person_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return database.Conflict("person %d is still registered as %s", id, dependent.name)
			}
		}

		result := tx.Delete(&entities.Person{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.NotFound("person", id)
		}
		return nil
	})
	if err != nil {
		return database.Report(r.logger, "delete person", err)
	}
	r.logger.Info().Uint("id", id).Msg("person deleted")
	return nil
}
