package repo

import (
	"context"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/log"
	"github.com/spf13/cobra"

	"github.com/goto/diffpack/client/cmd/internal/logger"
	"github.com/goto/diffpack/client/cmd/internal/progressbar"
	lerrors "github.com/goto/diffpack/client/local/errors"
	"github.com/goto/diffpack/config"
	"github.com/goto/diffpack/ext/git/gitcli"
	"github.com/goto/diffpack/internal/utils"
)

type maintenanceCommand struct {
	logger log.Logger

	configFilePath string
	clientConfig   *config.ClientConfig

	repoPath string
}

// NewMaintenanceCommand initializes the command that compacts repository
// history storage
func NewMaintenanceCommand() *cobra.Command {
	maintenance := &maintenanceCommand{
		logger: logger.NewClientLogger(),
	}

	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Expire the reflog and repack the repository",
		Long: heredoc.Doc(`Run the administrative history maintenance of the repository:
			expire the reflog, repack objects and prune what became unreachable.
			This never touches the diff pipeline.`),
		Example: "diffpack repo maintenance -p ./my-repo",
		RunE:    maintenance.RunE,
		PreRunE: maintenance.PreRunE,
	}
	cmd.Flags().StringVarP(&maintenance.configFilePath, "config", "c", config.EmptyPath, "File path for client configuration")
	cmd.Flags().StringVarP(&maintenance.repoPath, "path", "p", "", "Path of the repository clone")
	return cmd
}

func (m *maintenanceCommand) PreRunE(_ *cobra.Command, _ []string) error {
	conf, err := config.LoadClientConfig(m.configFilePath)
	if err != nil {
		return err
	}
	m.clientConfig = conf
	return nil
}

func (m *maintenanceCommand) RunE(_ *cobra.Command, _ []string) error {
	repoPath := utils.GetFirstNonEmpty(m.repoPath, m.clientConfig.Repository.Path, ".")
	gitClient := gitcli.NewClient(m.logger, repoPath, m.clientConfig.Repository.Binary)

	spinner := progressbar.NewProgressBar()
	spinner.Start("compacting repository...")
	err := gitClient.Maintenance(context.Background())
	spinner.Stop()
	if err != nil {
		return lerrors.NewWarnErrorf("maintenance did not complete: %s", err)
	}
	m.logger.Info("repository maintenance finished")
	return nil
}
