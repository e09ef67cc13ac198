package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

func (c *common) setOutput(w io.Writer) {
	c.out = w
}

// run parses and runs a command against dbPath and returns what it printed.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()

	cmd, ok := Lookup(args[0])
	require.True(t, ok, "unknown command %s", args[0])

	var out bytes.Buffer
	cmd.(interface{ setOutput(io.Writer) }).setOutput(&out)

	if err := cmd.ParseFlags(append(args[1:], "-db", dbPath)); err != nil {
		return "", err
	}
	err := cmd.Run()
	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	require.NoError(t, err, "gymflow %s", strings.Join(args, " "))
	return out
}

func TestSplitAction(t *testing.T) {
	actions := []string{"add", "list"}

	action, rest, err := splitAction("plan", []string{"add", "-name", "x"}, actions)
	require.NoError(t, err)
	assert.Equal(t, "add", action)
	assert.Equal(t, []string{"-name", "x"}, rest)

	_, _, err = splitAction("plan", nil, actions)
	assert.ErrorContains(t, err, "action required")

	_, _, err = splitAction("plan", []string{"-name", "x"}, actions)
	assert.ErrorContains(t, err, "action required")

	_, _, err = splitAction("plan", []string{"drop"}, actions)
	assert.ErrorContains(t, err, `unknown action "drop"`)
}

func TestDateValue(t *testing.T) {
	var d dateValue
	assert.Nil(t, d.ptr())
	assert.Equal(t, "", d.String())

	require.NoError(t, d.Set("2026-02-28"))
	assert.Equal(t, "2026-02-28", d.String())
	require.NotNil(t, d.ptr())

	assert.Error(t, d.Set("28/02/2026"))
}

func TestIDList(t *testing.T) {
	var l idList
	require.NoError(t, l.Set("3, 1,2"))
	assert.Equal(t, idList{3, 1, 2}, l)
	assert.Equal(t, "3,1,2", l.String())

	assert.Error(t, l.Set("1,x"))
	assert.Error(t, l.Set("0"))
}

func TestParseFlags_RequiredFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"plan", "add", "-name", "Monthly"}, "-months"},
		{[]string{"plan", "show"}, "-id"},
		{[]string{"student", "add", "-name", "Ana"}, "-birth"},
		{[]string{"student", "show"}, "one of -id or -national-id"},
		{[]string{"teacher", "show"}, "one of -id or -license"},
		{[]string{"workout", "move-exercise", "-id", "1", "-exercise", "2"}, "-position"},
		{[]string{"workout", "renew", "-id", "1", "-student", "2"}, "-days"},
		{[]string{"fee", "generate", "-student", "1"}, "-plan"},
		{[]string{"fee", "due", "-from", "2026-01-01"}, "-to"},
		{[]string{"evaluation", "report"}, "-id"},
		{[]string{"audit", "list", "-entity-id", "3"}, "-entity-id requires -entity"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, ok := Lookup(tt.args[0])
			require.True(t, ok)
			err := cmd.ParseFlags(tt.args[1:])
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseFlags_Verbose(t *testing.T) {
	for _, flagName := range []string{"-v", "-verbose"} {
		t.Run(flagName, func(t *testing.T) {
			cmd := NewPlanCommand()
			require.NoError(t, cmd.ParseFlags([]string{"list", flagName}))
			assert.True(t, cmd.Verbose)
			assert.Equal(t, "list", cmd.Action)
		})
	}

	cmd := NewPlanCommand()
	require.NoError(t, cmd.ParseFlags([]string{"list"}))
	assert.False(t, cmd.Verbose)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		cmd, ok := Lookup(name)
		assert.True(t, ok)
		assert.NotNil(t, cmd)
		assert.NotEmpty(t, Summary(name))
	}
	_, ok := Lookup("serve")
	assert.False(t, ok)
}

func TestCommands_EndToEnd(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_SQL_LEVEL", "silent")
	db := filepath.Join(t.TempDir(), "gymflow.db")

	out := mustRun(t, db, "migrate")
	assert.Contains(t, out, "Schema is up to date")

	out = mustRun(t, db, "plan", "add", "-name", "Annual", "-months", "12", "-price", "99.90")
	assert.Contains(t, out, "Created plan 1: Annual (total 1198.80)")

	out = mustRun(t, db, "student", "add", "-name", "Ana Lima", "-birth", "1995-06-20",
		"-national-id", "123.456.789-01", "-email", "ana@gymflow.test", "-plan", "1")
	assert.Contains(t, out, "Registered student 1: Ana Lima")

	_, err := run(t, db, "student", "add", "-name", "Bruno", "-birth", "1990-01-01",
		"-national-id", "12345678901", "-email", "bruno@gymflow.test")
	assert.ErrorIs(t, err, database.ErrConflict)

	for _, name := range []string{"Squat", "Bench press", "Row"} {
		mustRun(t, db, "exercise", "add", "-name", name)
	}
	out = mustRun(t, db, "workout", "add", "-name", "Full body", "-exercises", "1,2,3")
	assert.Contains(t, out, "Created workout 1: Full body with 3 exercises")

	mustRun(t, db, "workout", "remove-exercise", "-id", "1", "-exercise", "2")
	out = mustRun(t, db, "workout", "move-exercise", "-id", "1", "-exercise", "3", "-position", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^1\s+3\s+Row`, lines[2])
	assert.Regexp(t, `^2\s+1\s+Squat`, lines[3])

	_, err = run(t, db, "workout", "move-exercise", "-id", "1", "-exercise", "3", "-position", "5")
	assert.ErrorIs(t, err, database.ErrInvalidPosition)

	mustRun(t, db, "workout", "assign", "-id", "1", "-student", "1", "-start", "2020-01-01", "-end", "2020-02-01")
	out = mustRun(t, db, "workout", "assignments", "-student", "1")
	assert.Regexp(t, `2020-02-01\s+false\s+-1`, out)

	out = mustRun(t, db, "fee", "generate", "-student", "1", "-plan", "1", "-months", "2", "-from", "2020-01-31")
	assert.Contains(t, out, "Generated 2 fees")
	assert.Contains(t, out, "2020-02-29")

	out = mustRun(t, db, "fee", "overdue")
	assert.Contains(t, out, "2 fees, total 199.80")

	mustRun(t, db, "fee", "pay", "-id", "1")
	out = mustRun(t, db, "fee", "list", "-status", string(entities.FeeStatusPaid))
	assert.Contains(t, out, "1 fees, total 99.90")

	mustRun(t, db, "evaluation", "add", "-student", "1", "-date", "2026-01-10", "-weight", "72", "-height", "175")
	mustRun(t, db, "evaluation", "add", "-student", "1", "-date", "2026-02-10", "-weight", "70", "-height", "1.75")
	out = mustRun(t, db, "evaluation", "report", "-id", "2")
	assert.Contains(t, out, "BMI:      22.86 (Normal weight)")
	assert.Contains(t, out, "Weight: decrease of 2.00")

	out = mustRun(t, db, "audit", "list", "-type", "generate")
	assert.Contains(t, out, "Showing 3 of 3 events")

	mustRun(t, db, "student", "delete", "-id", "1")
	_, err = run(t, db, "student", "show", "-id", "1")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
