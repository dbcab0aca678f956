package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/flowrecon/internal/app"
	"github.com/specialistvlad/flowrecon/internal/hcl"
	"github.com/specialistvlad/flowrecon/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	err := Execute(context.Background(), args, out, logs, hcl.NewLoader())
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("--- Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return out.String(), err
}

func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{nil, {"--help"}, {"simulate", "-h"}} {
		out, err := execute(t, args...)
		require.NoError(t, err, "args %v", args)
		assert.Contains(t, out, "Usage:")
	}
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown flag", args: []string{"list", "--this-is-not-a-valid-flag"}, msg: "unknown flag: --this-is-not-a-valid-flag"},
		{name: "bad output", args: []string{"list", "-o", "csv"}, msg: "invalid configuration"},
		{name: "bad log level", args: []string{"--log-level", "loud", "list"}, msg: "invalid configuration"},
		{name: "missing example", args: []string{"plan"}, msg: "expected one example id"},
		{name: "extra arguments", args: []string{"list", "x"}, msg: "unexpected arguments"},
		{name: "bad runs type", args: []string{"simulate", "if-else", "--runs", "many"}, msg: "invalid argument"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}

func TestExecute_RuntimeErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown example", args: []string{"plan", "nope"}, msg: "unknown example"},
		{name: "unknown edge", args: []string{"reconstruct", "if-else", "--known", "zz=1"}, msg: "unknown edge"},
		{name: "invalid runs", args: []string{"simulate", "if-else", "--runs", "-3"}, msg: "invalid simulation config"},
		{name: "missing catalog entries are skipped", args: []string{"--catalog", "/does/not/exist", "plan", "nope"}, msg: "unknown example"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, 1, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.msg)
		})
	}
}

func TestExecute_List(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "loop-if")
}

func TestExecute_PlanJSON(t *testing.T) {
	out, err := execute(t, "plan", "if-else", "--output", "json")
	require.NoError(t, err)

	var r app.PlanReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, []string{"e6", "e1", "e2", "e4", "e3", "e0"}, r.Spanning)
}

func TestExecute_SimulateSeeded(t *testing.T) {
	first, err := execute(t, "simulate", "loop-if", "--runs", "30", "--seed", "42", "-o", "json")
	require.NoError(t, err)
	second, err := execute(t, "simulate", "loop-if", "--runs", "30", "--seed", "42", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, first, second, "the same seed gives the same counters")

	var r app.SimulationReport
	require.NoError(t, json.Unmarshal([]byte(first), &r))
	assert.Equal(t, 30, r.Runs)
}

func TestExecute_Reconstruct(t *testing.T) {
	out, err := execute(t, "reconstruct", "if-else", "--known", "entry=100 e5=41")
	require.NoError(t, err)
	assert.Contains(t, out, "Counters from: known")
	assert.Contains(t, out, "Step 4: e2 = 59")
}
