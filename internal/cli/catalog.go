package cli

import (
	"fmt"

	"github.com/mrlokans/gymflow/internal/entities"
)

var planActions = []string{"add", "list", "show", "update", "delete"}

// PlanCommand manages membership plans.
type PlanCommand struct {
	common
	Action string

	ID             uint
	Name           string
	Description    string
	DurationMonths int
	MonthlyPrice   float64
}

func NewPlanCommand() *PlanCommand {
	return &PlanCommand{}
}

func (cmd *PlanCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("plan", args, planActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("plan", action, "Manage membership plans. The total value is duration x monthly price.", planActions)
	cmd.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Plan id (show, update, delete)")
	fs.StringVar(&cmd.Name, "name", "", "Plan name, unique")
	fs.StringVar(&cmd.Description, "description", "", "Free text description")
	fs.IntVar(&cmd.DurationMonths, "months", 0, "Duration in months")
	fs.Float64Var(&cmd.MonthlyPrice, "price", 0, "Monthly price")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require("name", "months", "price")
	case "show", "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *PlanCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "add":
		p, err := app.Catalog.CreatePlan(ctx, entities.Plan{
			Name:           cmd.Name,
			Description:    cmd.Description,
			DurationMonths: cmd.DurationMonths,
			MonthlyPrice:   cmd.MonthlyPrice,
		})
		if err != nil {
			return err
		}
		cmd.printf("Created plan %d: %s (total %s)\n", p.ID, p.Name, money(p.TotalValue()))

	case "list":
		list, err := app.Catalog.Plans(ctx)
		if err != nil {
			return err
		}
		w := cmd.table("ID", "NAME", "MONTHS", "MONTHLY", "TOTAL")
		for _, p := range list {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.DurationMonths, money(p.MonthlyPrice), money(p.TotalValue()))
		}
		return w.Flush()

	case "show":
		p, err := app.Catalog.Plan(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printf("Plan %d: %s\n", p.ID, p.Name)
		cmd.printf("  Duration:    %d months\n", p.DurationMonths)
		cmd.printf("  Monthly:     %s\n", money(p.MonthlyPrice))
		cmd.printf("  Total:       %s\n", money(p.TotalValue()))
		if p.Description != "" {
			cmd.printf("  Description: %s\n", p.Description)
		}

	case "update":
		p, err := app.Catalog.Plan(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.isSet("name") {
			p.Name = cmd.Name
		}
		if cmd.isSet("description") {
			p.Description = cmd.Description
		}
		if cmd.isSet("months") {
			p.DurationMonths = cmd.DurationMonths
		}
		if cmd.isSet("price") {
			p.MonthlyPrice = cmd.MonthlyPrice
		}
		if err := app.Catalog.UpdatePlan(ctx, *p); err != nil {
			return err
		}
		cmd.printf("Updated plan %d\n", p.ID)

	case "delete":
		if err := app.Catalog.DeletePlan(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted plan %d\n", cmd.ID)
	}
	return nil
}

var exerciseActions = []string{"add", "list", "show", "update", "delete"}

// ExerciseCommand manages the exercise catalogue.
type ExerciseCommand struct {
	common
	Action string

	ID          uint
	Name        string
	Description string
	MuscleGroup string
	WorkoutID   uint
}

func NewExerciseCommand() *ExerciseCommand {
	return &ExerciseCommand{}
}

func (cmd *ExerciseCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("exercise", args, exerciseActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("exercise", action, "Manage the exercise catalogue. Deleting an exercise removes it from every workout.", exerciseActions)
	cmd.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Exercise id (show, update, delete)")
	fs.StringVar(&cmd.Name, "name", "", "Exercise name, unique")
	fs.StringVar(&cmd.Description, "description", "", "Free text description")
	fs.StringVar(&cmd.MuscleGroup, "muscle-group", "", "Muscle group; filters list")
	fs.UintVar(&cmd.WorkoutID, "workout", 0, "List the exercises of this workout in order")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require("name")
	case "show", "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *ExerciseCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "add":
		e, err := app.Catalog.CreateExercise(ctx, entities.Exercise{
			Name:        cmd.Name,
			Description: cmd.Description,
			MuscleGroup: cmd.MuscleGroup,
		})
		if err != nil {
			return err
		}
		cmd.printf("Created exercise %d: %s\n", e.ID, e.Name)

	case "list":
		var list []entities.Exercise
		if cmd.WorkoutID != 0 {
			list, err = app.Catalog.ExercisesOfWorkout(ctx, cmd.WorkoutID)
		} else {
			list, err = app.Catalog.Exercises(ctx, cmd.MuscleGroup)
		}
		if err != nil {
			return err
		}
		w := cmd.table("ID", "NAME", "MUSCLE GROUP")
		for _, e := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Name, e.MuscleGroup)
		}
		return w.Flush()

	case "show":
		e, err := app.Catalog.Exercise(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printf("Exercise %d: %s\n", e.ID, e.Name)
		if e.MuscleGroup != "" {
			cmd.printf("  Muscle group: %s\n", e.MuscleGroup)
		}
		if e.Description != "" {
			cmd.printf("  Description:  %s\n", e.Description)
		}

	case "update":
		e, err := app.Catalog.Exercise(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.isSet("name") {
			e.Name = cmd.Name
		}
		if cmd.isSet("description") {
			e.Description = cmd.Description
		}
		if cmd.isSet("muscle-group") {
			e.MuscleGroup = cmd.MuscleGroup
		}
		if err := app.Catalog.UpdateExercise(ctx, *e); err != nil {
			return err
		}
		cmd.printf("Updated exercise %d\n", e.ID)

	case "delete":
		if err := app.Catalog.DeleteExercise(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted exercise %d\n", cmd.ID)
	}
	return nil
}
