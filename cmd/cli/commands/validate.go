package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiftgrid/shiftgrid/internal/config"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a solve request file without solving",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			req, err := config.LoadRequest(file)
			if err != nil {
				return err
			}

			fmt.Printf("Request valid: %d staff, %d dates, %d calendar rules, %d groups, %d soft categories enabled\n",
				len(req.Staff), len(req.Dates), len(req.CalendarRules), len(req.Groups), len(req.Weights))
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Path to the solve request YAML file")
	cmd.MarkFlagRequired("file")

	return cmd
}
