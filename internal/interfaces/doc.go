// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help contributors understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Member Stores (internal/services/interfaces.go)
//
//   - PersonChecker: uniqueness of national id and email across all people
//   - StudentStore: students and their person rows
//   - EmployeeStore: employees and their person rows
//   - TeacherStore: teachers with their employee and person rows
//
// ## Catalogue Stores
//
//   - PlanStore: membership plans
//   - ExerciseStore: the exercise catalogue
//
// ## Training Stores
//
//   - WorkoutStore: workouts and their ordered exercise lists
//   - AssignmentStore: workouts assigned to students for a period
//   - EvaluationStore: physical evaluations
//
// ## Billing Stores
//
//   - FeeStore: monthly fees, payments and generation
//
// # Adding a New Entity
//
// To add a new table (e.g., class bookings):
//
//  1. Define the entity in internal/entities/ with gorm and validate tags and
//     add it to the models list in internal/database/database.go.
//
//  2. Create sub-package internal/database/bookings/:
//
//     type Repository struct {
//         db     *gorm.DB
//         logger zerolog.Logger
//     }
//
//     func NewRepository(db *gorm.DB, logger zerolog.Logger) *Repository
//
//     Every method takes a context, runs on r.db.WithContext(ctx) and returns
//     errors through database.Report so callers can match the sentinels.
//
//  3. Declare the store the service needs in internal/services/interfaces.go:
//
//     type BookingStore interface {
//         Create(ctx context.Context, b entities.Booking) (*entities.Booking, error)
//         ListByStudent(ctx context.Context, studentID uint) ([]entities.Booking, error)
//     }
//
//  4. Add a compile-time check to checks.go:
//
//     var _ services.BookingStore = (*bookings.Repository)(nil)
//
//  5. Wire the repository in internal/entrypoint and add a command in internal/cli.
//
// # Multi-table Writes
//
// A repository that writes several tables runs them in one transaction and
// reuses the lower-level repository bound to it:
//
//	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
//	    created, err := r.people.WithTx(tx).Create(ctx, s.Person)
//	    ...
//	})
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
