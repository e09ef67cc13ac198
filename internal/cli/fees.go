package cli

import (
	"fmt"
	"time"

	"github.com/mrlokans/gymflow/internal/entities"
)

var feeActions = []string{"add", "list", "show", "update", "delete", "pay", "generate", "overdue", "due", "paid"}

// FeeCommand manages monthly fees.
type FeeCommand struct {
	common
	Action string

	ID        uint
	StudentID uint
	PlanID    uint
	DueDate   dateValue
	PaidOn    dateValue
	Amount    float64
	Status    string
	Months    int
	From      dateValue
	To        dateValue
}

func NewFeeCommand() *FeeCommand {
	return &FeeCommand{}
}

func (cmd *FeeCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("fee", args, feeActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("fee", action,
		"Manage monthly fees. generate creates one pending fee per month at the plan's monthly price;\n"+
			"overdue lists unpaid fees due before today.",
		feeActions)
	cmd.register(fs)
	fs.UintVar(&cmd.ID, "id", 0, "Fee id (show, update, delete, pay)")
	fs.UintVar(&cmd.StudentID, "student", 0, "Student id; filters list")
	fs.UintVar(&cmd.PlanID, "plan", 0, "Plan id; filters list")
	fs.Var(&cmd.DueDate, "due", "Due date (add, update)")
	fs.Var(&cmd.PaidOn, "date", "Payment date (pay; default: today)")
	fs.Float64Var(&cmd.Amount, "amount", 0, "Amount (add, update; pay defaults to the amount billed)")
	fs.StringVar(&cmd.Status, "status", "", "Pending or Paid; filters list")
	fs.IntVar(&cmd.Months, "months", 0, "Number of monthly fees to generate")
	fs.Var(&cmd.From, "from", "Period start (due, paid; generate: first due date, default today)")
	fs.Var(&cmd.To, "to", "Period end (due, paid)")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}

	switch action {
	case "add":
		return cmd.require("due", "amount")
	case "show", "update", "delete", "pay":
		return cmd.require("id")
	case "generate":
		return cmd.require("student", "plan", "months")
	case "due", "paid":
		return cmd.require("from", "to")
	}
	return nil
}

func (cmd *FeeCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	svc := app.Billing

	switch cmd.Action {
	case "add":
		f, err := svc.CreateFee(ctx, entities.MonthlyFee{
			StudentID: optionalID(cmd.StudentID),
			PlanID:    optionalID(cmd.PlanID),
			DueDate:   cmd.DueDate.t,
			Amount:    cmd.Amount,
			Status:    entities.FeeStatus(cmd.Status),
		})
		if err != nil {
			return err
		}
		cmd.printf("Created fee %d due %s\n", f.ID, entities.FormatDate(f.DueDate))

	case "list":
		var list []entities.MonthlyFee
		switch {
		case cmd.StudentID != 0:
			list, err = svc.FeesOfStudent(ctx, cmd.StudentID)
		case cmd.PlanID != 0:
			list, err = svc.FeesOfPlan(ctx, cmd.PlanID)
		case cmd.Status != "":
			list, err = svc.FeesByStatus(ctx, entities.FeeStatus(cmd.Status))
		default:
			list, err = svc.Fees(ctx)
		}
		if err != nil {
			return err
		}
		return cmd.printFees(list, svc.Today())

	case "show":
		f, err := svc.Fee(ctx, cmd.ID)
		if err != nil {
			return err
		}
		cmd.printf("Fee %d\n", f.ID)
		cmd.printf("  Student:  %s\n", formatOptionalID(f.StudentID))
		cmd.printf("  Plan:     %s\n", formatOptionalID(f.PlanID))
		cmd.printf("  Due:      %s\n", entities.FormatDate(f.DueDate))
		cmd.printf("  Amount:   %s\n", money(f.Amount))
		cmd.printf("  Status:   %s\n", f.Status)
		cmd.printf("  Paid on:  %s\n", entities.FormatOptionalDate(f.PaymentDate))
		cmd.printf("  Overdue:  %t\n", f.IsOverdue(svc.Today()))

	case "update":
		f, err := svc.Fee(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if cmd.isSet("student") {
			f.StudentID = optionalID(cmd.StudentID)
		}
		if cmd.isSet("plan") {
			f.PlanID = optionalID(cmd.PlanID)
		}
		if cmd.isSet("due") {
			f.DueDate = cmd.DueDate.t
		}
		if cmd.isSet("amount") {
			f.Amount = cmd.Amount
		}
		if cmd.isSet("status") {
			f.Status = entities.FeeStatus(cmd.Status)
		}
		f.Student, f.Plan = nil, nil
		if err := svc.UpdateFee(ctx, *f); err != nil {
			return err
		}
		cmd.printf("Updated fee %d\n", f.ID)

	case "delete":
		if err := svc.DeleteFee(ctx, cmd.ID); err != nil {
			return err
		}
		cmd.printf("Deleted fee %d\n", cmd.ID)

	case "pay":
		if err := svc.RegisterPayment(ctx, cmd.ID, cmd.PaidOn.t, cmd.Amount); err != nil {
			return err
		}
		cmd.printf("Registered payment of fee %d\n", cmd.ID)

	case "generate":
		generated, correlationID, err := svc.GenerateFees(ctx, cmd.StudentID, cmd.PlanID, cmd.Months, cmd.From.t)
		if err != nil {
			return err
		}
		cmd.printf("Generated %d fees for student %d (audit correlation %s)\n", len(generated), cmd.StudentID, correlationID)
		return cmd.printFees(generated, svc.Today())

	case "overdue":
		list, err := svc.Overdue(ctx)
		if err != nil {
			return err
		}
		return cmd.printFees(list, svc.Today())

	case "due":
		list, err := svc.DueBetween(ctx, cmd.From.t, cmd.To.t)
		if err != nil {
			return err
		}
		return cmd.printFees(list, svc.Today())

	case "paid":
		list, err := svc.PaidBetween(ctx, cmd.From.t, cmd.To.t)
		if err != nil {
			return err
		}
		return cmd.printFees(list, svc.Today())
	}
	return nil
}

func (cmd *FeeCommand) printFees(list []entities.MonthlyFee, today time.Time) error {
	w := cmd.table("ID", "STUDENT", "PLAN", "DUE", "AMOUNT", "STATUS", "PAID ON", "OVERDUE")
	var total float64
	for _, f := range list {
		total += f.Amount
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n", f.ID, formatOptionalID(f.StudentID), formatOptionalID(f.PlanID),
			entities.FormatDate(f.DueDate), money(f.Amount), f.Status, entities.FormatOptionalDate(f.PaymentDate), f.IsOverdue(today))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.printf("%d fees, total %s\n", len(list), money(total))
	return nil
}
