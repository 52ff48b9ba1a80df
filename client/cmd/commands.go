package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/goto/diffpack/client/cmd/pack"
	"github.com/goto/diffpack/client/cmd/repo"
	"github.com/goto/diffpack/client/cmd/version"
)

// New constructs the diffpack command tree
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use: "diffpack <command>",
		Long: heredoc.Doc(`
			Package the difference between two revisions of a repository into a
			single archive with before and after trees, ready for any
			directory-diff tool.`),
		SilenceUsage: true,
		Example: heredoc.Doc(`
			$ diffpack create --left main --right feature/search
			$ diffpack repo maintenance
			$ diffpack version
		`),
	}

	cmd.AddCommand(
		pack.NewCreateCommand(),
		repo.NewRepoCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}
