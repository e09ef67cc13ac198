package cli

import (
	"fmt"

	"github.com/mrlokans/gymflow/internal/entities"
)

var auditActions = []string{"list", "prune"}

// AuditCommand shows and prunes the audit trail.
type AuditCommand struct {
	common
	Action string

	Type          string
	EntityType    string
	EntityID      uint
	CorrelationID string
	Limit         int
	Offset        int
	RetentionDays int
}

func NewAuditCommand() *AuditCommand {
	return &AuditCommand{}
}

func (cmd *AuditCommand) ParseFlags(args []string) error {
	action, rest, err := splitAction("audit", args, auditActions)
	if err != nil {
		return err
	}
	cmd.Action = action

	fs := newFlagSet("audit", action, "Inspect the audit trail, newest first, or delete events past their retention.", auditActions)
	cmd.register(fs)
	fs.StringVar(&cmd.Type, "type", "", "Event type: create, update, delete, payment, generate, reorder")
	fs.StringVar(&cmd.EntityType, "entity", "", "Entity type, e.g. student or workout")
	fs.UintVar(&cmd.EntityID, "entity-id", 0, "Entity id (with -entity)")
	fs.StringVar(&cmd.CorrelationID, "correlation", "", "Show the events of one multi-row operation")
	fs.IntVar(&cmd.Limit, "limit", 50, "Maximum number of events")
	fs.IntVar(&cmd.Offset, "offset", 0, "Events to skip")
	fs.IntVar(&cmd.RetentionDays, "days", 0, "Retention in days (prune; default: $AUDIT_RETENTION_DAYS)")

	if err := cmd.parse(fs, rest); err != nil {
		return err
	}
	if cmd.isSet("entity-id") && !cmd.isSet("entity") {
		return fmt.Errorf("-entity-id requires -entity")
	}
	return nil
}

func (cmd *AuditCommand) Run() error {
	app, err := cmd.open()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.Context()
	defer cancel()

	switch cmd.Action {
	case "list":
		var (
			events []entities.AuditEvent
			total  int64
		)
		switch {
		case cmd.CorrelationID != "":
			events, err = app.Audit.Correlated(ctx, cmd.CorrelationID)
			total = int64(len(events))
		case cmd.EntityType != "":
			events, total, err = app.Audit.History(ctx, cmd.EntityType, cmd.EntityID, cmd.Limit, cmd.Offset)
		case cmd.Type != "":
			events, total, err = app.Audit.GetEventsByType(ctx, entities.AuditEventType(cmd.Type), cmd.Limit, cmd.Offset)
		default:
			events, total, err = app.Audit.GetEvents(ctx, cmd.Limit, cmd.Offset)
		}
		if err != nil {
			return err
		}
		w := cmd.table("ID", "WHEN", "TYPE", "ACTION", "ENTITY", "STATUS", "DESCRIPTION")
		for _, e := range events {
			entity := e.EntityType
			if e.EntityID != nil {
				entity = fmt.Sprintf("%s %d", e.EntityType, *e.EntityID)
			}
			description := e.Description
			if e.ErrorMsg != "" {
				description += " (" + e.ErrorMsg + ")"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.EventType, e.Action, entity, e.Status, description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.printf("Showing %d of %d events\n", len(events), total)

	case "prune":
		days := app.Config.Audit.RetentionDays
		if cmd.isSet("days") {
			days = cmd.RetentionDays
		}
		if days <= 0 {
			return fmt.Errorf("retention must be a positive number of days")
		}
		deleted, err := app.Audit.Prune(ctx, days)
		if err != nil {
			return err
		}
		cmd.printf("Deleted %d events older than %d days\n", deleted, days)
	}
	return nil
}
