package cli

import (
	"fmt"

	"github.com/mrlokans/gymflow/internal/entities"
	"github.com/mrlokans/gymflow/internal/services"
)

var evaluationActions = []string{"add", "history", "report", "update", "delete"}

// EvaluationCommand records physical evaluations and reports BMI changes.
type EvaluationCommand struct {
	common
	Action string

	ID        uint
	StudentID uint
	TeacherID uint
	Date      dateValue
	Weight    float64
	Height    float64
	Notes     string
}

func NewEvaluationCommand() *EvaluationCommand {
	return &EvaluationCommand{}
}

func (cmd *EvaluationCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("evaluation", args, evaluationActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("evaluation", action,
		"Record physical evaluations. Height may be given in metres or centimetres.\n"+
			"report shows BMI, its category and the change since the previous evaluation.",
		evaluationActions)
	cmd.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Evaluation id (report, update, delete)")
	fs.UintVar(&cmd.StudentID, "student", 0, "Student id")
	fs.UintVar(&cmd.TeacherID, "teacher", 0, "Evaluating teacher id")
	fs.Var(&cmd.Date, "date", "Evaluation date (default: today)")
	fs.Float64Var(&cmd.Weight, "weight", 0, "Weight in kg")
	fs.Float64Var(&cmd.Height, "height", 0, "Height in m or cm")
	fs.StringVar(&cmd.Notes, "notes", "", "Notes")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add", "history":
		return cmd.require("student")
	case "report", "update", "delete":
		return cmd.require("id")
	}
	return nil
}

func (cmd *EvaluationCommand) measure(name string, v float64) *float64 {
	if !cmd.isSet(name) {
		return nil
	}
	return &v
}

func (cmd *EvaluationCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	svc := app.Evaluations

	switch cmd.Action {
	case "add":
		e, err := svc.Record(ctx, entities.Evaluation{
			StudentID: cmd.StudentID,
			TeacherID: optionalID(cmd.TeacherID),
			Date:      cmd.Date.t,
			Weight:    cmd.measure("weight", cmd.Weight),
			Height:    cmd.measure("height", cmd.Height),
			Notes:     cmd.Notes,
		})
		if err != nil {
			return err
		}
		cmd.printf("Recorded evaluation %d for student %d on %s\n", e.ID, e.StudentID, entities.FormatDate(e.Date))

	case "history":
		list, err := svc.History(ctx, cmd.StudentID)
		if err != nil {
			return err
		}
		w := cmd.table("ID", "DATE", "WEIGHT", "HEIGHT", "BMI", "CATEGORY")
		for _, e := range list {
			bmi, ok := e.BMI()
			bmiText := "-"
			if ok {
				bmiText = fmt.Sprintf("%.2f", bmi)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, entities.FormatDate(e.Date),
				formatOptionalFloat(e.Weight), formatOptionalFloat(e.Height), bmiText, e.BMICategory())
		}
		return w.Flush()

	case "report":
		report, err := svc.Report(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printReport(report)

	case "update":
		e, err := svc.Evaluation(ctx, cmd.ID)
		if err != nil {
			return err
		}
		updated := *e
		updated.Student, updated.Teacher = entities.Student{}, nil
		if cmd.isSet("teacher") {
			updated.TeacherID = optionalID(cmd.TeacherID)
		}
		if cmd.isSet("date") {
			updated.Date = cmd.Date.t
		}
		if cmd.isSet("weight") {
			updated.Weight = cmd.measure("weight", cmd.Weight)
		}
		if cmd.isSet("height") {
			updated.Height = cmd.measure("height", cmd.Height)
		}
		if cmd.isSet("notes") {
			updated.Notes = cmd.Notes
		}
		if err := svc.Update(ctx, updated); err != nil {
			return err
		}
		cmd.printf("Updated evaluation %d\n", updated.ID)

	case "delete":
		if err := svc.Delete(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted evaluation %d\n", cmd.ID)
	}
	return nil
}

func (cmd *EvaluationCommand) printReport(r *services.EvaluationReport) {
	e := r.Evaluation
	cmd.printf("Evaluation %d of student %d on %s\n", e.ID, e.StudentID, entities.FormatDate(e.Date))
	cmd.printf("  Weight:   %s\n", formatOptionalFloat(e.Weight))
	cmd.printf("  Height:   %s\n", formatOptionalFloat(e.Height))
	if r.HasBMI {
		cmd.printf("  BMI:      %.2f (%s)\n", r.BMI, r.Category)
	} else {
		cmd.printf("  BMI:      %s\n", r.Category)
	}
	if e.Notes != "" {
		cmd.printf("  Notes:    %s\n", e.Notes)
	}
	if r.Comparison == nil {
		cmd.printf("  First evaluation, nothing to compare\n")
		return
	}
	cmd.printf("  Since %s:\n", entities.FormatDate(r.Comparison.Previous))
	cmd.printf("    Weight: %s\n", r.Comparison.Weight)
	cmd.printf("    BMI:    %s\n", r.Comparison.BMI)
}
