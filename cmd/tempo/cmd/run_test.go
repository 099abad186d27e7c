package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandText(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run", "--", "echo", "hello"})
	require.NoError(t, cmd.Execute())

	output := buf.String()
	// Child output passes through, then the measurement.
	assert.Contains(t, output, "hello")
	assert.Contains(t, output, "echo: ")
}

func TestRunCommandCustomLabelAndStyle(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run", "--label", "greeting", "--style", "big", "--", "echo", "hi"})
	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "| greeting | Time = ")
	assert.Contains(t, output, "-----------------------------------------")
}

func TestRunCommandJSON(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run", "--format", "json", "--label", "noop", "--", "true"})
	require.NoError(t, cmd.Execute())

	var res runResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	assert.Equal(t, "noop", res.Label)
	assert.Equal(t, []string{"true"}, res.Command)
	assert.Positive(t, res.DurationNs)
	assert.NotEmpty(t, res.Elapsed)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunCommandFailingChild(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run", "--format", "text", "--", "false"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with status")

	// The measurement is still reported.
	assert.Contains(t, buf.String(), "false: ")
}

func TestRunCommandMissingBinary(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run", "--", "definitely-not-a-real-binary-12345"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running definitely-not-a-real-binary-12345")
}

func TestRunCommandRequiresArgs(t *testing.T) {
	cmd := GetRootCommand()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"run"})
	assert.Error(t, cmd.Execute())
}
