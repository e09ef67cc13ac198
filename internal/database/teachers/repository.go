// Package teachers provides database operations for teachers.
//
// A teacher spans three rows: persons, employees and teachers, all keyed by
// the same id. Writes go through the employees repository bound to the same
// transaction, so the three rows are committed or rolled back together.
package teachers

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/database/employees"
	"github.com/mrlokans/gymflow/internal/entities"
)

// Repository handles all teacher database operations.
type Repository struct {
	db        *gorm.DB
	employees *employees.Repository
	logger    zerolog.Logger
}

// NewRepository creates a new teachers repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{
		db:        db,
		employees: employees.NewRepository(db, logger),
		logger:    logger.With().Str("repository", "teachers").Logger(),
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, employees: r.employees.WithTx(tx), logger: r.logger}
}

// Create inserts person, employee and teacher rows in that order.
func (r *Repository) Create(ctx context.Context, t entities.Teacher) (*entities.Teacher, error) {
	var created entities.Teacher
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		employee, err := r.employees.WithTx(tx).Create(ctx, t.Employee)
		if err != nil {
			return err
		}

		row := t
		row.EmployeeID = employee.PersonID
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		row.Employee = *employee
		created = row
		return nil
	})
	if err != nil {
		return nil, database.Report(r.logger, "create teacher", err)
	}
	r.logger.Info().Uint("id", created.EmployeeID).Str("license", created.License).Msg("teacher created")
	return &created, nil
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Employee").Preload("Employee.Person")
}

// FindByID retrieves a teacher with its employee and person data.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Teacher, error) {
	var t entities.Teacher
	if err := r.query(ctx).Where("teachers.employee_id = ?", id).First(&t).Error; err != nil {
		return nil, database.Report(r.logger, "find teacher", err)
	}
	if err := checkChain(t); err != nil {
		return nil, database.Report(r.logger, "find teacher", err)
	}
	return &t, nil
}

// FindByLicense retrieves a teacher by professional license.
func (r *Repository) FindByLicense(ctx context.Context, license string) (*entities.Teacher, error) {
	var t entities.Teacher
	if err := r.query(ctx).Where("teachers.license = ?", license).First(&t).Error; err != nil {
		return nil, database.Report(r.logger, "find teacher by license", err)
	}
	if err := checkChain(t); err != nil {
		return nil, database.Report(r.logger, "find teacher by license", err)
	}
	return &t, nil
}

// List retrieves all teachers ordered by id, leaving out broken chains.
func (r *Repository) List(ctx context.Context) ([]entities.Teacher, error) {
	var rows []entities.Teacher
	if err := r.query(ctx).Order("teachers.employee_id ASC").Find(&rows).Error; err != nil {
		return nil, database.Report(r.logger, "list teachers", err)
	}
	return r.complete(rows), nil
}

// ListBySpecialty retrieves the teachers of a specialty.
func (r *Repository) ListBySpecialty(ctx context.Context, specialty string) ([]entities.Teacher, error) {
	var rows []entities.Teacher
	err := r.query(ctx).
		Where("teachers.specialty = ?", specialty).
		Order("teachers.employee_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.Report(r.logger, "list teachers by specialty", err)
	}
	return r.complete(rows), nil
}

// LicenseExists reports whether another teacher holds the license.
func (r *Repository) LicenseExists(ctx context.Context, license string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&entities.Teacher{}).Where("license = ?", license)
	if excludeID != 0 {
		q = q.Where("employee_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check teacher license", err)
	}
	return count > 0, nil
}

// Exists reports whether a teacher row with the id exists.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Teacher{}).Where("employee_id = ?", id).Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check teacher", err)
	}
	return count > 0, nil
}

func (r *Repository) complete(rows []entities.Teacher) []entities.Teacher {
	teachers := make([]entities.Teacher, 0, len(rows))
	for _, t := range rows {
		if err := checkChain(t); err != nil {
			_ = database.Report(r.logger, "list teachers", err)
			continue
		}
		teachers = append(teachers, t)
	}
	return teachers
}

func checkChain(t entities.Teacher) error {
	if t.Employee.PersonID == 0 {
		return database.Inconsistent("teacher", t.EmployeeID, "employee")
	}
	if t.Employee.Person.ID == 0 {
		return database.Inconsistent("teacher", t.EmployeeID, "person")
	}
	return nil
}

// Update writes person, employee and teacher attributes in that order.
func (r *Repository) Update(ctx context.Context, t entities.Teacher) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTeacher(tx, t.EmployeeID); err != nil {
			return err
		}

		employee := t.Employee
		employee.PersonID = t.EmployeeID
		if err := r.employees.WithTx(tx).Update(ctx, employee); err != nil {
			return parentError(err, t.EmployeeID)
		}

		return tx.Model(&entities.Teacher{}).Where("employee_id = ?", t.EmployeeID).Updates(map[string]any{
			"specialty": t.Specialty,
			"license":   t.License,
		}).Error
	})
	if err != nil {
		return database.Report(r.logger, "update teacher", err)
	}
	r.logger.Info().Uint("id", t.EmployeeID).Msg("teacher updated")
	return nil
}

// Delete removes the teacher, then its employee row, then its person row.
// Workouts and evaluations that referenced the teacher are kept without one.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireTeacher(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&entities.Workout{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.Evaluation{}).Where("teacher_id = ?", id).Update("teacher_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&entities.Teacher{}).Error; err != nil {
			return err
		}
		if err := r.employees.WithTx(tx).Delete(ctx, id); err != nil {
			return parentError(err, id)
		}
		return nil
	})
	if err != nil {
		return database.Report(r.logger, "delete teacher", err)
	}
	r.logger.Info().Uint("id", id).Msg("teacher deleted")
	return nil
}

// ExistsByNationalIDOrEmail reports whether another person already uses the
// national id or the email.
func (r *Repository) ExistsByNationalIDOrEmail(ctx context.Context, nationalID, email string, excludeID uint) (bool, error) {
	return r.employees.ExistsByNationalIDOrEmail(ctx, nationalID, email, excludeID)
}

// parentError turns a missing employee row into a consistency failure.
func parentError(err error, id uint) error {
	if errors.Is(err, database.ErrNotFound) && !errors.Is(err, database.ErrConsistency) {
		return database.Inconsistent("teacher", id, "employee")
	}
	return err
}

func requireTeacher(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&entities.Teacher{}).Where("employee_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return database.NotFound("teacher", id)
	}
	return nil
}
