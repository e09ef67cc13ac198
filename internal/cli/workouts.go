package cli

import (
	"context"
	"fmt"

	"github.com/mrlokans/gymflow/internal/entities"
)

var workoutActions = []string{
	"add", "list", "show", "update", "delete",
	"add-exercise", "set-exercise", "move-exercise", "remove-exercise",
	"assign", "assignments", "end", "renew", "unassign",
}

// WorkoutCommand manages workouts, the ordered exercises inside them and
// their assignment to students.
type WorkoutCommand struct {
	common
	Action string

	ID        uint
	Name      string
	Notes     string
	TeacherID uint
	StudentID uint
	Exercises idList

	ExerciseID  uint
	Position    int
	Repetitions int
	Sets        int
	Load        float64

	Start      dateValue
	End        dateValue
	Days       int
	ActiveOnly bool
}

func NewWorkoutCommand() *WorkoutCommand {
	return &WorkoutCommand{}
}

func (cmd *WorkoutCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("workout", args, workoutActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("workout", action,
		"Manage workouts. Exercises inside a workout keep positions 1..N; adding appends\n"+
			"unless -position is given, removing closes the gap and moving shifts the range between.",
		workoutActions)
	cmd.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Workout id")
	fs.StringVar(&cmd.Name, "name", "", "Workout name, unique")
	fs.StringVar(&cmd.Notes, "notes", "", "Notes for the workout or the exercise")
	fs.UintVar(&cmd.TeacherID, "teacher", 0, "Teacher id; filters list")
	fs.UintVar(&cmd.StudentID, "student", 0, "Student id; filters list and selects the assignment")
	fs.Var(&cmd.Exercises, "exercises", "Comma-separated exercise ids, in order (add)")
	fs.UintVar(&cmd.ExerciseID, "exercise", 0, "Exercise id inside the workout")
	fs.IntVar(&cmd.Position, "position", 0, "Position inside the workout, starting at 1")
	fs.IntVar(&cmd.Repetitions, "reps", 0, "Repetitions per set")
	fs.IntVar(&cmd.Sets, "sets", 0, "Number of sets")
	fs.Float64Var(&cmd.Load, "load", 0, "Load")
	fs.Var(&cmd.Start, "start", "Assignment start date (default: today)")
	fs.Var(&cmd.End, "end", "Assignment end date")
	fs.IntVar(&cmd.Days, "days", 0, "Days to extend an assignment by (renew)")
	fs.BoolVar(&cmd.ActiveOnly, "active", false, "Only assignments covering today (assignments)")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require("name")
	case "show", "update", "delete":
		return cmd.require("id")
	case "add-exercise", "set-exercise", "remove-exercise":
		return cmd.require("id", "exercise")
	case "move-exercise":
		return cmd.require("id", "exercise", "position")
	case "assign", "end", "unassign":
		return cmd.require("id", "student")
	case "renew":
		return cmd.require("id", "student", "days")
	case "assignments":
		if !cmd.isSet("id") && !cmd.isSet("student") {
			return fmt.Errorf("one of -id or -student is required")
		}
	}
	return nil
}

func (cmd *WorkoutCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	svc := app.Workouts

	switch cmd.Action {
	case "add":
		w, err := svc.CreateWorkout(ctx, entities.Workout{
			Name:      cmd.Name,
			Notes:     cmd.Notes,
			TeacherID: optionalID(cmd.TeacherID),
		}, cmd.Exercises)
		if err != nil {
			return err
		}
		cmd.printf("Created workout %d: %s with %d exercises\n", w.ID, w.Name, len(cmd.Exercises))

	case "list":
		var list []entities.Workout
		switch {
		case cmd.TeacherID != 0:
			list, err = svc.WorkoutsByTeacher(ctx, cmd.TeacherID)
		case cmd.StudentID != 0:
			list, err = svc.WorkoutsByStudent(ctx, cmd.StudentID)
		default:
			list, err = svc.Workouts(ctx)
		}
		if err != nil {
			return err
		}
		w := cmd.table("ID", "NAME", "CREATED", "TEACHER")
		for _, wo := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", wo.ID, wo.Name, entities.FormatDate(wo.CreationDate), formatOptionalID(wo.TeacherID))
		}
		return w.Flush()

	case "show":
		wo, err := svc.Workout(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printf("Workout %d: %s\n", wo.ID, wo.Name)
		cmd.printf("  Created: %s\n", entities.FormatDate(wo.CreationDate))
		if wo.Teacher != nil {
			cmd.printf("  Teacher: %s (%d)\n", wo.Teacher.Name(), wo.Teacher.ID())
		}
		if wo.Notes != "" {
			cmd.printf("  Notes:   %s\n", wo.Notes)
		}
		return cmd.printExercises(ctx, app.Workouts.Exercises, wo.ID)

	case "update":
		wo, err := svc.Workout(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.isSet("name") {
			wo.Name = cmd.Name
		}
		if cmd.isSet("notes") {
			wo.Notes = cmd.Notes
		}
		if cmd.isSet("teacher") {
			wo.TeacherID = optionalID(cmd.TeacherID)
		}
		wo.Teacher = nil
		wo.Exercises = nil
		if err := svc.UpdateWorkout(ctx, *wo); err != nil {
			return err
		}
		cmd.printf("Updated workout %d\n", wo.ID)

	case "delete":
		if err := svc.DeleteWorkout(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted workout %d\n", cmd.ID)

	case "add-exercise":
		we := entities.WorkoutExercise{
			WorkoutID:   cmd.ID,
			ExerciseID:  cmd.ExerciseID,
			Repetitions: cmd.Repetitions,
			Sets:        cmd.Sets,
			Load:        cmd.Load,
			Position:    cmd.Position,
			Notes:       cmd.Notes,
		}
		if !cmd.isSet("reps") {
			we.Repetitions = app.Config.Workouts.DefaultRepetitions
		}
		if !cmd.isSet("sets") {
			we.Sets = app.Config.Workouts.DefaultSets
		}
		if !cmd.isSet("load") {
			we.Load = app.Config.Workouts.DefaultLoad
		}
		added, err := svc.AddExercise(ctx, we)
		if err != nil {
			return err
		}
		cmd.printf("Added exercise %d to workout %d at position %d\n", added.ExerciseID, added.WorkoutID, added.Position)

	case "set-exercise":
		current, err := cmd.findExercise(ctx, app.Workouts.Exercises)
		if err != nil {
			return err
		}
		if cmd.isSet("reps") {
			current.Repetitions = cmd.Repetitions
		}
		if cmd.isSet("sets") {
			current.Sets = cmd.Sets
		}
		if cmd.isSet("load") {
			current.Load = cmd.Load
		}
		if cmd.isSet("notes") {
			current.Notes = cmd.Notes
		}
		current.Position = 0
		if cmd.isSet("position") {
			current.Position = cmd.Position
		}
		current.Exercise = entities.Exercise{}
		if err := svc.UpdateExercise(ctx, *current); err != nil {
			return err
		}
		cmd.printf("Updated exercise %d in workout %d\n", cmd.ExerciseID, cmd.ID)

	case "move-exercise":
		if err := svc.MoveExercise(ctx, cmd.ID, cmd.ExerciseID, cmd.Position); err != nil {
			return err
		}
		cmd.printf("Moved exercise %d to position %d\n", cmd.ExerciseID, cmd.Position)
		return cmd.printExercises(ctx, app.Workouts.Exercises, cmd.ID)

	case "remove-exercise":
		if err := svc.RemoveExercise(ctx, cmd.ID, cmd.ExerciseID); err != nil {
			return err
		}
		cmd.printf("Removed exercise %d from workout %d\n", cmd.ExerciseID, cmd.ID)

	case "assign":
		sw, err := svc.Assign(ctx, entities.StudentWorkout{
			StudentID: cmd.StudentID,
			WorkoutID: cmd.ID,
			StartDate: cmd.Start.t,
			EndDate:   cmd.End.ptr(),
			Notes:     cmd.Notes,
		})
		if err != nil {
			return err
		}
		cmd.printf("Assigned workout %d to student %d from %s until %s\n",
			sw.WorkoutID, sw.StudentID, entities.FormatDate(sw.StartDate), entities.FormatOptionalDate(sw.EndDate))

	case "assignments":
		var list []entities.StudentWorkout
		if cmd.StudentID != 0 {
			list, err = svc.Assignments(ctx, cmd.StudentID, cmd.ActiveOnly)
		} else {
			list, err = svc.AssignmentsOfWorkout(ctx, cmd.ID)
		}
		if err != nil {
			return err
		}
		today := svc.Today()
		w := cmd.table("STUDENT", "WORKOUT", "START", "END", "ACTIVE", "DAYS LEFT")
		for _, sw := range list {
			days := "-"
			if n, ok := sw.DaysToExpire(today); ok {
				days = fmt.Sprint(n)
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%t\t%s\n", sw.StudentID, sw.WorkoutID,
				entities.FormatDate(sw.StartDate), entities.FormatOptionalDate(sw.EndDate), sw.IsActive(today), days)
		}
		return w.Flush()

	case "end":
		if err := svc.EndAssignment(ctx, cmd.StudentID, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Ended workout %d for student %d as of %s\n", cmd.ID, cmd.StudentID, entities.FormatDate(svc.Today()))

	case "renew":
		end, err := svc.RenewAssignment(ctx, cmd.StudentID, cmd.ID, cmd.Days)
		if err != nil {
			return err
		}
		cmd.printf("Renewed workout %d for student %d until %s\n", cmd.ID, cmd.StudentID, entities.FormatDate(end))

	case "unassign":
		if err := svc.RemoveAssignment(ctx, cmd.StudentID, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Removed workout %d from student %d\n", cmd.ID, cmd.StudentID)
	}
	return nil
}

type exerciseLister func(ctx context.Context, workoutID uint) ([]entities.WorkoutExercise, error)

func (cmd *WorkoutCommand) printExercises(ctx context.Context, list exerciseLister, workoutID uint) error {
	exercises, err := list(ctx, workoutID)
	if err != nil {
		return err
	}
	if len(exercises) == 0 {
		cmd.printf("No exercises\n")
		return nil
	}
	w := cmd.table("POS", "EXERCISE", "NAME", "REPS", "SETS", "LOAD")
	for _, we := range exercises {
		fmt.Fprintf(w, "%d\t%d\t%s\t%d\t%d\t%s\n", we.Position, we.ExerciseID, we.Exercise.Name, we.Repetitions, we.Sets, money(we.Load))
	}
	return w.Flush()
}

func (cmd *WorkoutCommand) findExercise(ctx context.Context, list exerciseLister) (*entities.WorkoutExercise, error) {
	exercises, err := list(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		if exercises[i].ExerciseID == cmd.ExerciseID {
			return &exercises[i], nil
		}
	}
	return nil, fmt.Errorf("exercise %d is not part of workout %d", cmd.ExerciseID, cmd.ID)
}
