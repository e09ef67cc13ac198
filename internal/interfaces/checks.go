package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/gymflow/internal/database/assignments"
	"github.com/mrlokans/gymflow/internal/database/employees"
	"github.com/mrlokans/gymflow/internal/database/evaluations"
	"github.com/mrlokans/gymflow/internal/database/exercises"
	"github.com/mrlokans/gymflow/internal/database/fees"
	"github.com/mrlokans/gymflow/internal/database/people"
	"github.com/mrlokans/gymflow/internal/database/plans"
	"github.com/mrlokans/gymflow/internal/database/students"
	"github.com/mrlokans/gymflow/internal/database/teachers"
	"github.com/mrlokans/gymflow/internal/database/workouts"
	"github.com/mrlokans/gymflow/internal/services"
)

// =============================================================================
// Members
// =============================================================================

// PersonChecker implementations
var _ services.PersonChecker = (*people.Repository)(nil)
var _ services.PersonChecker = (*students.Repository)(nil)
var _ services.PersonChecker = (*employees.Repository)(nil)
var _ services.PersonChecker = (*teachers.Repository)(nil)

var _ services.StudentStore = (*students.Repository)(nil)
var _ services.EmployeeStore = (*employees.Repository)(nil)
var _ services.TeacherStore = (*teachers.Repository)(nil)

// =============================================================================
// Catalogue
// =============================================================================

var _ services.PlanStore = (*plans.Repository)(nil)
var _ services.ExerciseStore = (*exercises.Repository)(nil)

// =============================================================================
// Training
// =============================================================================

var _ services.WorkoutStore = (*workouts.Repository)(nil)
var _ services.AssignmentStore = (*assignments.Repository)(nil)
var _ services.EvaluationStore = (*evaluations.Repository)(nil)

// =============================================================================
// Billing
// =============================================================================

var _ services.FeeStore = (*fees.Repository)(nil)
