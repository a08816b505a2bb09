package cmd

import (
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/config"
	"github.com/spf13/cobra"
)

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scenarios.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.NewInputParser().WriteExample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example scenarios written to %s\n", path)
			return nil
		},
	}
}
