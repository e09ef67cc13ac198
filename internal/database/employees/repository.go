// Package employees provides database operations for employees.
//
// An employee is a Person row plus an employees row sharing its id. The
// teachers repository builds on this one for its first two levels.
package employees

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/people"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all employee database operations.
type Repository struct {
	db     *gorm.DB
	people *people.Repository
	logger zerolog.Logger
}

// NewRepository creates a new employees repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{
		db:     db,
		people: people.NewRepository(db, logger),
		logger: logger.With().Str("repository", "employees").Logger(),
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, people: r.people.WithTx(tx), logger: r.logger}
}

// Create inserts the person and the employee row atomically.
func (r *Repository) Create(ctx context.Context, e entities.Employee) (*entities.Employee, error) {
	var created entities.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		person, err := r.people.WithTx(tx).Create(ctx, e.Person)
		if err != nil {
			return err
		}

		row := e
		row.PersonID = person.ID
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		row.Person = *person
		created = row
		return nil
	})
	if err != nil {
		return nil, database.Report(r.logger, "create employee", err)
	}
	r.logger.Info().Uint("id", created.PersonID).Str("role", created.Role).Msg("employee created")
	return &created, nil
}

// FindByID retrieves an employee with its person data.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Employee, error) {
	var e entities.Employee
	if err := r.db.WithContext(ctx).Preload("Person").Where("person_id = ?", id).First(&e).Error; err != nil {
		return nil, database.Report(r.logger, "find employee", err)
	}
	if e.Person.ID == 0 {
		return nil, database.Report(r.logger, "find employee", database.Inconsistent("employee", id, "person"))
	}
	return &e, nil
}

// List retrieves all employees ordered by id.
func (r *Repository) List(ctx context.Context) ([]entities.Employee, error) {
	var rows []entities.Employee
	if err := r.db.WithContext(ctx).Preload("Person").Order("person_id ASC").Find(&rows).Error; err != nil {
		return nil, database.Report(r.logger, "list employees", err)
	}
	return r.complete(rows), nil
}

// ListByRole retrieves employees holding a role.
func (r *Repository) ListByRole(ctx context.Context, role string) ([]entities.Employee, error) {
	var rows []entities.Employee
	err := r.db.WithContext(ctx).Preload("Person").
		Where("role = ?", role).
		Order("person_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.Report(r.logger, "list employees by role", err)
	}
	return r.complete(rows), nil
}

func (r *Repository) complete(rows []entities.Employee) []entities.Employee {
	employees := make([]entities.Employee, 0, len(rows))
	for _, e := range rows {
		if e.Person.ID == 0 {
			_ = database.Report(r.logger, "list employees", database.Inconsistent("employee", e.PersonID, "person"))
			continue
		}
		employees = append(employees, e)
	}
	return employees
}

// Update writes the person attributes and then the employee attributes.
func (r *Repository) Update(ctx context.Context, e entities.Employee) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, e.PersonID); err != nil {
			return err
		}

		person := e.Person
		person.ID = e.PersonID
		if err := r.people.WithTx(tx).Update(ctx, person); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return database.Inconsistent("employee", e.PersonID, "person")
			}
			return err
		}

		return tx.Model(&entities.Employee{}).Where("person_id = ?", e.PersonID).Updates(map[string]any{
			"role":           e.Role,
			"admission_date": e.AdmissionDate,
			"salary":         e.Salary,
		}).Error
	})
	if err != nil {
		return database.Report(r.logger, "update employee", err)
	}
	r.logger.Info().Uint("id", e.PersonID).Msg("employee updated")
	return nil
}

// Delete removes an employee and its person row. An employee that is still a
// teacher must be deleted through the teachers repository.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireEmployee(tx, id); err != nil {
			return err
		}

		var teachers int64
		if err := tx.Model(&entities.Teacher{}).Where("employee_id = ?", id).Count(&teachers).Error; err != nil {
			return err
		}
		if teachers > 0 {
			return database.Conflict("employee %d is a teacher; delete the teacher instead", id)
		}

		if err := tx.Where("person_id = ?", id).Delete(&entities.Employee{}).Error; err != nil {
			return err
		}
		if err := r.people.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return database.Inconsistent("employee", id, "person")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return database.Report(r.logger, "delete employee", err)
	}
	r.logger.Info().Uint("id", id).Msg("employee deleted")
	return nil
}

// ExistsByNationalIDOrEmail reports whether another person already uses the
// national id or the email.
func (r *Repository) ExistsByNationalIDOrEmail(ctx context.Context, nationalID, email string, excludeID uint) (bool, error) {
	return r.people.ExistsByNationalIDOrEmail(ctx, nationalID, email, excludeID)
}

func requireEmployee(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&entities.Employee{}).Where("person_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return database.NotFound("employee", id)
	}
	return nil
}
