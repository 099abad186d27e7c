package cmd

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/MeKo-Tech/tempo/internal/config"
	"github.com/MeKo-Tech/tempo/internal/stopwatch"
	"github.com/spf13/cobra"
)

// runResult is the structured output of the run command.
type runResult struct {
	Label      string   `json:"label" yaml:"label"`
	Command    []string `json:"command" yaml:"command"`
	DurationNs int64    `json:"duration_ns" yaml:"duration_ns"`
	Elapsed    string   `json:"elapsed" yaml:"elapsed"`
	ExitCode   int      `json:"exit_code" yaml:"exit_code"`
}

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Time a single execution of a command",
	Long: `Run a command once and report how long it took. The child's
standard streams pass through, with the measurement printed afterwards.

Examples:
  tempo run -- sleep 0.2
  tempo run --label compile --style big -- make build
  tempo run --format json -- curl -s https://example.com`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		label, _ := cmd.Flags().GetString("label")
		if label == "" {
			label = args[0]
		}

		style := cfg.Output.Style
		if cmd.Flags().Changed("style") {
			style, _ = cmd.Flags().GetString("style")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		formatter := config.OutputConfig{Style: style}.Formatter()

		child := exec.Command(args[0], args[1:]...) //nolint:gosec // G204: the whole point is running the user's command
		child.Stdin = cmd.InOrStdin()
		child.Stdout = cmd.OutOrStdout()
		child.Stderr = cmd.ErrOrStderr()

		sw := stopwatch.NewFormatted(label, formatter)
		runErr := child.Run()
		elapsed := sw.Elapsed()

		exitCode := 0
		var exitErr *exec.ExitError
		switch {
		case runErr == nil:
		case errors.As(runErr, &exitErr):
			exitCode = exitErr.ExitCode()
		default:
			return fmt.Errorf("running %s: %w", args[0], runErr)
		}

		out := cmd.OutOrStdout()
		rendered := formatter(label, stopwatch.FormatDuration(elapsed))

		if format == "json" || format == "yaml" {
			res := runResult{
				Label:      label,
				Command:    args,
				DurationNs: elapsed.Nanoseconds(),
				Elapsed:    stopwatch.FormatDuration(elapsed),
				ExitCode:   exitCode,
			}
			if err := writeStructured(out, format, res); err != nil {
				return err
			}
		} else {
			_, _ = fmt.Fprintln(out, rendered)
		}

		if exitCode != 0 {
			return fmt.Errorf("command exited with status %d", exitCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("label", "", "display name for the measurement (default: the command name)")
	runCmd.Flags().String("style", "simple", "measurement style: simple or big")
	runCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
}
