package version

import (
	"github.com/goto/salt/log"
	"github.com/goto/salt/version"
	"github.com/spf13/cobra"

	"github.com/goto/diffpack/client/cmd/internal/logger"
	"github.com/goto/diffpack/config"
)

type versionCommand struct {
	logger log.Logger
}

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	v := &versionCommand{
		logger: logger.NewClientLogger(),
	}

	return &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "diffpack version",
		RunE:    v.RunE,
	}
}

func (v *versionCommand) RunE(_ *cobra.Command, _ []string) error {
	v.logger.Info("Client: %s-%s", config.BuildVersion, config.BuildCommit)

	githubRepo := "goto/diffpack"
	if updateNotice := version.UpdateNotice(config.BuildVersion, githubRepo); updateNotice != "" {
		v.logger.Info(updateNotice)
	}
	return nil
}
