package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"gopkg.in/yaml.v3"
)

// durationPattern matches rendered measurements such as "1.234 ms" or "42 us".
var durationPattern = regexp.MustCompile(`\d+(\.\d+)?(e[+-]\d+)? (ns|us|ms|s)\b`)

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	command = testCtx.substituteCommandVariables(command)

	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// aConfigFileContaining writes the doc string to a temp config file for {config} substitution.
func (testCtx *TestContext) aConfigFileContaining(content *godog.DocString) error {
	path := testCtx.GetTempFile(".yaml")
	if err := os.WriteFile(path, []byte(content.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	testCtx.ConfigFile = path
	return nil
}

// theEnvironmentVariableIsSetTo sets an environment variable for subsequent commands.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldReportADuration verifies a rendered measurement is present.
func (testCtx *TestContext) theOutputShouldReportADuration() error {
	if !durationPattern.MatchString(testCtx.LastOutput) {
		return fmt.Errorf("output does not contain a duration\nActual output: %s", testCtx.LastOutput)
	}
	return nil
}

// jsonPart extracts the JSON document from the output, skipping log lines.
func (testCtx *TestContext) jsonPart() (string, error) {
	output := strings.TrimSpace(testCtx.LastOutput)

	jsonStart := -1
	for i, r := range output {
		if r == '{' || r == '[' {
			jsonStart = i
			break
		}
	}
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in output: %s", testCtx.LastOutput)
	}
	return output[jsonStart:], nil
}

// theOutputShouldBeValidJSON verifies the output is valid JSON.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	part, err := testCtx.jsonPart()
	if err != nil {
		return err
	}

	var js json.RawMessage
	if err := json.Unmarshal([]byte(part), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nJSON part: %s", err, part)
	}
	return nil
}

// theJSONShouldContain verifies JSON contains a specific field.
func (testCtx *TestContext) theJSONShouldContain(field string) error {
	part, err := testCtx.jsonPart()
	if err != nil {
		return err
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(part), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	current := data
	parts := strings.Split(field, ".")
	for i, p := range parts {
		val, exists := current[p]
		if !exists {
			return fmt.Errorf("field '%s' not found in JSON", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return nil
		}
		nextMap, ok := val.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot navigate deeper into non-object field '%s'", p)
		}
		current = nextMap
	}
	return nil
}

// theOutputShouldBeValidYAML verifies the output parses as YAML.
func (testCtx *TestContext) theOutputShouldBeValidYAML() error {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(testCtx.LastOutput), &doc); err != nil {
		return fmt.Errorf("output is not valid YAML: %w\nActual output: %s", err, testCtx.LastOutput)
	}
	if len(doc) == 0 {
		return fmt.Errorf("YAML output is empty: %s", testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastOutput
	if testCtx.LastError != nil {
		fullErrorText += " " + testCtx.LastError.Error()
	}

	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}

	return nil
}

// theOutputShouldContainUsageInformation verifies output contains usage information.
func (testCtx *TestContext) theOutputShouldContainUsageInformation() error {
	usageIndicators := []string{"Usage:", "usage:", "help", "Help"}
	for _, indicator := range usageIndicators {
		if strings.Contains(testCtx.LastOutput, indicator) {
			return nil
		}
	}
	return fmt.Errorf("output does not contain usage information: %s", testCtx.LastOutput)
}

// theOutputShouldListAvailableSubcommands verifies available subcommands are listed.
func (testCtx *TestContext) theOutputShouldListAvailableSubcommands() error {
	subcommands := []string{"run", "bench", "serve"}
	for _, cmd := range subcommands {
		if !strings.Contains(testCtx.LastOutput, cmd) {
			return fmt.Errorf("subcommand not listed: %s", cmd)
		}
	}
	return nil
}

// buildInformationShouldBeIncluded verifies the version output format.
func (testCtx *TestContext) buildInformationShouldBeIncluded() error {
	requiredParts := []string{"version", "Build:", "Commit:", "Date:"}
	for _, part := range requiredParts {
		if !strings.Contains(testCtx.LastOutput, part) {
			return fmt.Errorf("version output missing '%s'\nActual output: %s", part, testCtx.LastOutput)
		}
	}
	return nil
}

// substituteCommandVariables replaces variables in command strings.
func (testCtx *TestContext) substituteCommandVariables(command string) string {
	if testCtx.ConfigFile != "" {
		command = strings.ReplaceAll(command, "{config}", testCtx.ConfigFile)
	}
	return command
}

// RegisterCommonSteps registers all common step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^a config file containing:$`, testCtx.aConfigFileContaining)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should report a duration$`, testCtx.theOutputShouldReportADuration)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the output should be valid YAML$`, testCtx.theOutputShouldBeValidYAML)
	sc.Step(`^the JSON should contain "([^"]*)"$`, testCtx.theJSONShouldContain)
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
	sc.Step(`^the output should contain usage information$`, testCtx.theOutputShouldContainUsageInformation)
	sc.Step(`^the output should list available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)
	sc.Step(`^build information should be included$`, testCtx.buildInformationShouldBeIncluded)
}
