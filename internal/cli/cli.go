// Package cli implements the gymflow subcommands. Each command parses its own
// flags, opens the application for the duration of Run and prints results to
// stdout; logs go to stderr.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/entities"
	"github.com/mrlokans/gymflow/internal/entrypoint"
)

// Command is a parsed, runnable subcommand.
type Command interface {
	ParseFlags(args []string) error
	Run() error
}

// common holds the flags every command accepts.
type common struct {
	DatabasePath string
	Verbose      bool

	out io.Writer
	set map[string]bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.DatabasePath, "db", "", "Path to the database file (default: $DATABASE_PATH or "+config.DefaultDatabasePath+")")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&c.Verbose, "v", false, "Shorthand for -verbose")
}

// parse parses args and remembers which flags were given explicitly.
func (c *common) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		c.set[f.Name] = true
	})
	return nil
}

func (c *common) isSet(name string) bool {
	return c.set[name]
}

// require reports the first of names that was not given.
func (c *common) require(names ...string) error {
	for _, name := range names {
		if !c.set[name] {
			return fmt.Errorf("required flag -%s not provided", name)
		}
	}
	return nil
}

func (c *common) stdout() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *common) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout(), format, args...)
}

// open loads configuration, applies the command-line overrides, opens the
// database and prunes expired audit events.
func (c *common) open() (*entrypoint.App, error) {
	cfg := config.NewConfig()
	if c.DatabasePath != "" {
		absDBPath, err := filepath.Abs(c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for database: %w", err)
		}
		cfg.Database.Path = absDBPath
	}
	if c.Verbose {
		cfg.Log.Level = "debug"
	}

	app, err := entrypoint.New(cfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := app.Context()
	defer cancel()
	app.PruneAudit(ctx)
	return app, nil
}

// table returns a writer aligning tab-separated columns. Flush it when done.
func (c *common) table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(c.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

// splitAction separates the action word from the flags that follow it.
func splitAction(command string, args []string, actions []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("%s: action required (one of: %s)", command, strings.Join(actions, ", "))
	}
	for _, a := range actions {
		if args[0] == a {
			return a, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("%s: unknown action %q (one of: %s)", command, args[0], strings.Join(actions, ", "))
}

func newFlagSet(command, action, description string, actions []string) *flag.FlagSet {
	fs := flag.NewFlagSet(command+" "+action, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s %s [options]\n\n", os.Args[0], command, action)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nOther actions: %s\n", strings.Join(actions, ", "))
	}
	return fs
}

// dateValue is a flag holding a YYYY-MM-DD date.
type dateValue struct {
	t time.Time
}

func (d *dateValue) String() string {
	if d == nil || d.t.IsZero() {
		return ""
	}
	return entities.FormatDate(d.t)
}

func (d *dateValue) Set(s string) error {
	t, err := entities.ParseDate(s)
	if err != nil {
		return fmt.Errorf("expected a date as %s", entities.DateLayout)
	}
	d.t = t
	return nil
}

func (d *dateValue) ptr() *time.Time {
	if d.t.IsZero() {
		return nil
	}
	t := d.t
	return &t
}

// idList is a flag holding comma-separated identifiers, kept in order.
type idList []uint

func (l *idList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, id := range *l {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (l *idList) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 0)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid id %q", part)
		}
		*l = append(*l, uint(id))
	}
	return nil
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func formatOptionalID(id *uint) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*id), 10)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Names returns the registered command names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type entry struct {
	summary string
	build   func() Command
}

var registry = map[string]entry{
	"migrate":    {"Create or update the database schema and show pool status", func() Command { return NewMigrateCommand() }},
	"plan":       {"Manage membership plans", func() Command { return NewPlanCommand() }},
	"exercise":   {"Manage the exercise catalogue", func() Command { return NewExerciseCommand() }},
	"student":    {"Manage students", func() Command { return NewStudentCommand() }},
	"employee":   {"Manage employees", func() Command { return NewEmployeeCommand() }},
	"teacher":    {"Manage teachers", func() Command { return NewTeacherCommand() }},
	"workout":    {"Manage workouts, their exercises and student assignments", func() Command { return NewWorkoutCommand() }},
	"fee":        {"Manage monthly fees and payments", func() Command { return NewFeeCommand() }},
	"evaluation": {"Record and compare physical evaluations", func() Command { return NewEvaluationCommand() }},
	"audit":      {"Inspect and prune the audit trail", func() Command { return NewAuditCommand() }},
}

// Lookup returns a fresh command by name.
func Lookup(name string) (Command, bool) {
	e, ok := registry[name]
	if !ok {
		return nil, false
	}
	return e.build(), true
}

// Summary is the one-line description of a command.
func Summary(name string) string {
	return registry[name].summary
}
