package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/shiftgrid/shiftgrid/internal/config"
	"github.com/shiftgrid/shiftgrid/pkg/core/model"
	"github.com/shiftgrid/shiftgrid/pkg/core/roster"
)

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute a roster from a request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			timeout, _ := cmd.Flags().GetFloat64("timeout")
			workers, _ := cmd.Flags().GetInt("workers")

			req, err := config.LoadRequest(file)
			if err != nil {
				return err
			}
			config.ApplyDefaults(req, app.Cfg)
			if timeout > 0 {
				req.TimeoutSeconds = timeout
			}
			if workers > 0 {
				req.Workers = workers
			}

			result, err := roster.Solve(app.Ctx, req, app.Logger)
			if err != nil {
				return err
			}

			if !result.Success {
				fmt.Printf("No schedule produced: %s\n", result.Status)
				for _, hint := range result.Hints {
					fmt.Printf("  - %s\n", hint)
				}
				return fmt.Errorf("solve finished with status %s", result.Status)
			}

			printSchedule(req, result)
			printReport(result)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the solve request YAML file")
	cmd.MarkFlagRequired("file")
	cmd.Flags().Float64("timeout", 0, "Solver wall-clock budget in seconds (overrides request and environment)")
	cmd.Flags().Int("workers", 0, "Parallel solver workers (overrides request and environment)")

	return cmd
}

// printSchedule renders the roster grid with staff as rows and dates as
// columns. Blank cells are ordinary work days.
func printSchedule(req *model.Request, result *model.Result) {
	nameWidth := len("staff")
	for _, st := range req.Staff {
		if len(st.ID) > nameWidth {
			nameWidth = len(st.ID)
		}
	}

	fmt.Printf("%-*s", nameWidth, "staff")
	for _, date := range req.Dates {
		// Column header shows the day of month only; full dates are in the file.
		fmt.Printf("  %5s", date[len(date)-5:])
	}
	fmt.Println()

	for _, st := range req.Staff {
		fmt.Printf("%-*s", nameWidth, st.ID)
		for _, date := range req.Dates {
			fmt.Printf("  %5s", result.Schedule[st.ID][date])
		}
		fmt.Println()
	}
}

func printReport(result *model.Result) {
	fmt.Println()
	if len(result.Overrides) > 0 {
		fmt.Println("Calendar overrides (pre-filled cells kept):")
		for _, note := range result.Overrides {
			fmt.Printf("  - %s\n", note)
		}
	}

	if len(result.Violations) == 0 {
		fmt.Println("No soft constraints violated.")
	} else {
		fmt.Println("Violations:")
		violations := append([]model.ViolationGroup(nil), result.Violations...)
		sort.SliceStable(violations, func(i, j int) bool {
			return violations[i].Penalty > violations[j].Penalty
		})
		for _, v := range violations {
			fmt.Printf("  %-18s count=%d weight=%d penalty=%d\n", v.Category, v.Count, v.Weight, v.Penalty)
			for _, detail := range v.Details {
				fmt.Printf("    - %s\n", detail)
			}
		}
	}

	optimality := "optimal"
	if !result.IsOptimal {
		optimality = "not proven optimal (timeout)"
	}
	fmt.Printf("\nTotal penalty: %d (%s), solved in %s\n",
		result.TotalPenalty, optimality, result.Duration.Round(time.Millisecond))
}
