package cmd

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/MeKo-Tech/tempo/internal/bench"
	"github.com/MeKo-Tech/tempo/internal/config"
	"github.com/MeKo-Tech/tempo/internal/stopwatch"
	"github.com/spf13/cobra"
)

// benchResult is the structured output of the bench command.
type benchResult struct {
	Label        string   `json:"label" yaml:"label"`
	Command      []string `json:"command" yaml:"command"`
	Iterations   int      `json:"iterations" yaml:"iterations"`
	TotalNs      int64    `json:"total_ns" yaml:"total_ns"`
	AvgNs        int64    `json:"avg_ns" yaml:"avg_ns"`
	Avg          string   `json:"avg" yaml:"avg"`
	MemoryBefore string   `json:"memory_before,omitempty" yaml:"memory_before,omitempty"`
	MemoryAfter  string   `json:"memory_after,omitempty" yaml:"memory_after,omitempty"`
}

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench [flags] -- <command> [args...]",
	Short: "Estimate per-run cost by repeating a command",
	Long: `Repeat a command until a target total duration is reached (or an
iteration cap is hit, whichever comes first) and report the average
per-run cost. The command always runs at least once. Child output is
discarded while benchmarking.

Examples:
  tempo bench -- gzip -9 big.log
  tempo bench --target 5s --max-tries 50 -- ./script.sh
  tempo bench --warmup 3 --mem --format yaml -- sort data.txt`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		label, _ := cmd.Flags().GetString("label")
		if label == "" {
			label = args[0]
		}

		target := cfg.Timing.Target()
		if cmd.Flags().Changed("target") {
			target, _ = cmd.Flags().GetDuration("target")
		}

		maxTries := cfg.Timing.MaxTries
		if cmd.Flags().Changed("max-tries") {
			maxTries, _ = cmd.Flags().GetInt("max-tries")
		}
		if maxTries < 1 {
			return fmt.Errorf("invalid max-tries: %d (must be at least 1)", maxTries)
		}

		warmup := cfg.Timing.Warmup
		if cmd.Flags().Changed("warmup") {
			warmup, _ = cmd.Flags().GetInt("warmup")
		}

		style := cfg.Output.Style
		if cmd.Flags().Changed("style") {
			style, _ = cmd.Flags().GetString("style")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		withMem, _ := cmd.Flags().GetBool("mem")

		fn := func() error {
			child := exec.Command(args[0], args[1:]...) //nolint:gosec // G204: the whole point is running the user's command
			child.Stdout = io.Discard
			child.Stderr = io.Discard
			return child.Run()
		}

		// Warm-up runs are excluded from the measurement.
		for i := 0; i < warmup; i++ {
			_ = fn()
		}

		suite := bench.NewSuite()
		suite.Add(label, fn)
		result := suite.Run(label, target, maxTries)
		if result.Error != nil {
			return fmt.Errorf("benchmarking %s: %w", args[0], result.Error)
		}

		out := cmd.OutOrStdout()
		if format == "json" || format == "yaml" {
			res := benchResult{
				Label:      label,
				Command:    args,
				Iterations: result.Iterations,
				TotalNs:    result.Total.Nanoseconds(),
				AvgNs:      result.Avg.Nanoseconds(),
				Avg:        stopwatch.FormatDuration(result.Avg),
			}
			if withMem {
				res.MemoryBefore = result.MemoryBefore.String()
				res.MemoryAfter = result.MemoryAfter.String()
			}
			return writeStructured(out, format, res)
		}

		formatter := config.OutputConfig{Style: style}.Formatter()
		timing := stopwatch.FormatDuration(result.Avg) + " for " + strconv.Itoa(result.Iterations) + " tries"
		_, _ = fmt.Fprintln(out, formatter(label, timing))
		if withMem {
			_, _ = fmt.Fprintf(out, "mem before: %s\n", result.MemoryBefore)
			_, _ = fmt.Fprintf(out, "mem after:  %s\n", result.MemoryAfter)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().String("label", "", "display name for the measurement (default: the command name)")
	benchCmd.Flags().DurationP("target", "t", time.Second, "target total duration for the calibration loop")
	benchCmd.Flags().Int("max-tries", stopwatch.MaxTries, "maximum number of runs")
	benchCmd.Flags().Int("warmup", 0, "unmeasured warm-up runs before benchmarking")
	benchCmd.Flags().Bool("mem", false, "report memory statistics around the run")
	benchCmd.Flags().String("style", "simple", "measurement style: simple or big")
	benchCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
}
