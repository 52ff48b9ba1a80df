package repo

import (
	"github.com/spf13/cobra"
)

// NewRepoCommand groups administrative repository operations
func NewRepoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Administrative operations on the local repository",
	}
	cmd.AddCommand(NewMaintenanceCommand())
	return cmd
}
