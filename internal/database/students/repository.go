// Package students provides database operations for students.
//
// A student is stored as a Person row plus a students row sharing its id.
// Both rows are written and removed together in one transaction.
package students

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

// Repository handles all student database operations.
type Repository struct {
	db     *gorm.DB
	people *people.Repository
	logger zerolog.Logger
}

// NewRepository creates a new students repository.
func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository {
	return &Repository{
		db:     db,
		people: people.NewRepository(db, logger),
		logger: logger.With().Str("repository", "students").Logger(),
	}
}

// WithTx returns a repository bound to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, people: r.people.WithTx(tx), logger: r.logger}
}

// Create inserts the person and the student row atomically and returns the
// stored student.
func (r *Repository) Create(ctx context.Context, s entities.Student) (*entities.Student, error) {
	var created entities.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		person, err := r.people.WithTx(tx).Create(ctx, s.Person)
		if err != nil {
			return err
		}

		row := s
		row.PersonID = person.ID
		row.Plan = nil
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		row.Person = *person
		created = row
		return nil
	})
	if err != nil {
		return nil, database.Report(r.logger, "create student", err)
	}
	r.logger.Info().Uint("id", created.PersonID).Msg("student created")
	return &created, nil
}

func (r *Repository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Person").Preload("Plan")
}

// FindByID retrieves a student with its person data and plan.
func (r *Repository) FindByID(ctx context.Context, id uint) (*entities.Student, error) {
	var s entities.Student
	if err := r.query(ctx).Where("students.person_id = ?", id).First(&s).Error; err != nil {
		return nil, database.Report(r.logger, "find student", err)
	}
	if s.Person.ID == 0 {
		return nil, database.Report(r.logger, "find student", database.Inconsistent("student", id, "person"))
	}
	return &s, nil
}

// FindByNationalID retrieves a student by the national ID of its person.
func (r *Repository) FindByNationalID(ctx context.Context, nationalID string) (*entities.Student, error) {
	var s entities.Student
	err := r.query(ctx).
		Joins("JOIN persons ON persons.id = students.person_id").
		Where("persons.national_id = ?", nationalID).
		First(&s).Error
	if err != nil {
		return nil, database.Report(r.logger, "find student by national id", err)
	}
	return &s, nil
}

// List retrieves all students ordered by id. Students whose person row is
// missing are logged and left out.
func (r *Repository) List(ctx context.Context) ([]entities.Student, error) {
	var rows []entities.Student
	if err := r.query(ctx).Order("students.person_id ASC").Find(&rows).Error; err != nil {
		return nil, database.Report(r.logger, "list students", err)
	}
	return r.complete(rows), nil
}

// ListByPlan retrieves the students subscribed to a plan.
func (r *Repository) ListByPlan(ctx context.Context, planID uint) ([]entities.Student, error) {
	var rows []entities.Student
	if err := r.query(ctx).Where("students.plan_id = ?", planID).Order("students.person_id ASC").Find(&rows).Error; err != nil {
		return nil, database.Report(r.logger, "list students by plan", err)
	}
	return r.complete(rows), nil
}

func (r *Repository) complete(rows []entities.Student) []entities.Student {
	students := make([]entities.Student, 0, len(rows))
	for _, s := range rows {
		if s.Person.ID == 0 {
			_ = database.Report(r.logger, "list students", database.Inconsistent("student", s.PersonID, "person"))
			continue
		}
		students = append(students, s)
	}
	return students
}

// Update writes the person attributes and then the student attributes in one
// transaction.
func (r *Repository) Update(ctx context.Context, s entities.Student) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireStudent(tx, s.PersonID); err != nil {
			return err
		}

		person := s.Person
		person.ID = s.PersonID
		if err := r.people.WithTx(tx).Update(ctx, person); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return database.Inconsistent("student", s.PersonID, "person")
			}
			return err
		}

		return tx.Model(&entities.Student{}).Where("person_id = ?", s.PersonID).Updates(map[string]any{
			"enrollment_date": s.EnrollmentDate,
			"signature_date":  s.SignatureDate,
			"plan_id":         s.PlanID,
		}).Error
	})
	if err != nil {
		return database.Report(r.logger, "update student", err)
	}
	r.logger.Info().Uint("id", s.PersonID).Msg("student updated")
	return nil
}

// Delete removes a student together with its person row. Workout assignments
// and evaluations of the student are deleted; its fees are kept and detached.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireStudent(tx, id); err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&entities.StudentWorkout{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&entities.Evaluation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.MonthlyFee{}).Where("student_id = ?", id).Update("student_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&entities.Student{}).Error; err != nil {
			return err
		}
		if err := r.people.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return database.Inconsistent("student", id, "person")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return database.Report(r.logger, "delete student", err)
	}
	r.logger.Info().Uint("id", id).Msg("student deleted")
	return nil
}

// Exists reports whether a student row with the id exists.
func (r *Repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Student{}).Where("person_id = ?", id).Count(&count).Error; err != nil {
		return false, database.Report(r.logger, "check student", err)
	}
	return count > 0, nil
}

// ExistsByNationalIDOrEmail reports whether another person already uses the
// national id or the email.
func (r *Repository) ExistsByNationalIDOrEmail(ctx context.Context, nationalID, email string, excludeID uint) (bool, error) {
	return r.people.ExistsByNationalIDOrEmail(ctx, nationalID, email, excludeID)
}

func requireStudent(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&entities.Student{}).Where("person_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return database.NotFound("student", id)
	}
	return nil
}
