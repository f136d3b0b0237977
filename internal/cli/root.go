package cli

import "github.com/spf13/cobra"

// RootCommand assembles the gwreport command tree.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gwreport",
		Short:         "Groundwater progress and financial reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ReportCommand(), ImportCommand())
	return root
}
