// Package database provides the data access layer for the gym.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection pool, pragmas, migrations
//	├── errors.go        # Sentinel errors and constraint translation
//	├── people/          # Person rows
//	├── students/        # Student = Person + student row
//	├── employees/       # Employee = Person + employee row
//	├── teachers/        # Teacher = Employee + teacher row
//	├── plans/           # Membership plans
//	├── exercises/       # Exercise catalogue
//	├── workouts/        # Workouts and their ordered exercise lists
//	├── assignments/     # Workouts assigned to students
//	├── evaluations/     # Physical evaluations
//	├── fees/            # Monthly fees and payments
//	├── audit/           # Audit trail
//	└── dbtest/          # Test helpers
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built from the shared pool:
//
//	db, err := database.NewDatabase(cfg.Database, logger, nil)
//	defer db.Close()
//
//	studentsRepo := students.NewRepository(db.DB, logger)
//	student, err := studentsRepo.FindByID(ctx, 42)
//
// # Transactions
//
// Multi-row writes run inside db.Transaction. Repositories expose WithTx so a
// composite repository can reuse a lower level one on the same transaction;
// a transaction opened inside another becomes a savepoint.
//
// # Errors
//
// Repositories return ErrNotFound, ErrConflict, ErrConsistency,
// ErrMissingReference or ErrInvalidPosition (test with errors.Is), or a
// *StorageError wrapping the driver failure.
package database
