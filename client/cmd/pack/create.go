package pack

import (
	"context"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/goto/diffpack/client/cmd/internal/logger"
	"github.com/goto/diffpack/client/cmd/internal/progressbar"
	"github.com/goto/diffpack/client/cmd/internal/survey"
	lerrors "github.com/goto/diffpack/client/local/errors"
	"github.com/goto/diffpack/config"
	"github.com/goto/diffpack/core/bundle"
	"github.com/goto/diffpack/ext/git/gitcli"
	"github.com/goto/diffpack/internal/compress"
	"github.com/goto/diffpack/internal/utils"
)

type createCommand struct {
	logger     log.Logger
	packSurvey *survey.PackSurvey

	configFilePath string
	clientConfig   *config.ClientConfig

	repoPath    string
	leftRef     string
	rightRef    string
	outputDir   string
	archiveName string
	exclusions  []string
	stagingDir  string
}

// NewCreateCommand initializes the command that builds a diff archive
// between two revisions
func NewCreateCommand() *cobra.Command {
	l := logger.NewClientLogger()
	create := &createCommand{
		logger:     l,
		packSurvey: survey.NewPackSurvey(l),
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a diff archive between two revisions",
		Long: heredoc.Doc(`Compute the changed paths between two revisions and package the
			before and after content of every change, placeholders included,
			into a single zip that any directory-diff tool can open.`),
		Example: "diffpack create --left main --right feature/search -o ./archives",
		Annotations: map[string]string{
			"group:core": "true",
		},
		RunE:    create.RunE,
		PreRunE: create.PreRunE,
	}
	create.injectFlags(cmd)
	return cmd
}

func (c *createCommand) injectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.configFilePath, "config", "c", config.EmptyPath, "File path for client configuration")
	cmd.Flags().StringVarP(&c.repoPath, "path", "p", "", "Path of the repository clone to compare")
	cmd.Flags().StringVarP(&c.leftRef, "left", "l", "", "Left revision of the comparison")
	cmd.Flags().StringVarP(&c.rightRef, "right", "r", "", "Right revision of the comparison")
	cmd.Flags().StringVarP(&c.outputDir, "output-dir", "o", "", "Directory the archive is written to")
	cmd.Flags().StringVarP(&c.archiveName, "name", "n", "", "Archive file name, derived from the revisions when omitted")
	cmd.Flags().StringSliceVarP(&c.exclusions, "exclude", "x", nil, "Substrings of absolute paths to leave out of the archive")
	cmd.Flags().StringVar(&c.stagingDir, "staging-dir", "", "Override for the temporary staging area")
}

func (c *createCommand) PreRunE(_ *cobra.Command, _ []string) error {
	conf, err := config.LoadClientConfig(c.configFilePath)
	if err != nil {
		return err
	}
	c.clientConfig = conf
	return nil
}

func (c *createCommand) RunE(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if err := c.resolveInputs(ctx); err != nil {
		return err
	}

	fs := afero.NewOsFs()
	gitClient := gitcli.NewClient(c.logger, c.repoPath, c.clientConfig.Repository.Binary)
	service, err := bundle.NewService(c.logger, fs, gitClient, compress.NewZipAssembler(c.logger, fs))
	if err != nil {
		return err
	}

	spinner := progressbar.NewProgressBar()
	spinner.Start("comparing revisions...")
	result, err := service.Build(ctx, bundle.BuildParams{
		LeftRef:     c.leftRef,
		RightRef:    c.rightRef,
		OutputDir:   c.outputDir,
		ArchiveName: c.archiveName,
		Exclusions:  append(c.exclusions, c.clientConfig.Archive.Exclusions...),
		StagingDir:  utils.GetFirstNonEmpty(c.stagingDir, c.clientConfig.Archive.StagingDir),
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	if result.NoChanges {
		return lerrors.NewWarnErrorf("no changes between %s and %s, no archive produced", result.Left.Name, result.Right.Name)
	}

	c.renderSummary(result)
	c.logger.Info("archive written to %s", result.ArchivePath)
	return nil
}

func (c *createCommand) resolveInputs(ctx context.Context) error {
	var err error
	c.repoPath = utils.GetFirstNonEmpty(c.repoPath, c.clientConfig.Repository.Path)
	if c.repoPath == "" {
		if c.repoPath, err = c.packSurvey.AskRepositoryPath(); err != nil {
			return err
		}
	}

	if c.leftRef == "" || c.rightRef == "" {
		gitClient := gitcli.NewClient(c.logger, c.repoPath, c.clientConfig.Repository.Binary)
		branches, err := gitClient.Branches(ctx)
		if err != nil {
			c.logger.Warn("unable to list branches: %s", err)
		}
		if c.leftRef == "" {
			if c.leftRef, err = c.packSurvey.AskRevision("left", branches, "main"); err != nil {
				return err
			}
		}
		if c.rightRef == "" {
			if c.rightRef, err = c.packSurvey.AskRevision("right", branches, ""); err != nil {
				return err
			}
		}
	}
	if c.leftRef == "" || c.rightRef == "" {
		return lerrors.NewValidationErrorf("both revisions are required, got left [%s] and right [%s]", c.leftRef, c.rightRef)
	}

	c.outputDir = utils.GetFirstNonEmpty(c.outputDir, c.clientConfig.Archive.OutputDir)
	if c.outputDir == "" {
		if c.outputDir, err = c.packSurvey.AskOutputDirectory("."); err != nil {
			return err
		}
	}
	c.archiveName = utils.GetFirstNonEmpty(c.archiveName, c.clientConfig.Archive.Name)
	return nil
}

func (c *createCommand) renderSummary(result *bundle.BuildResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Status", "Count"})
	table.SetBorder(false)
	for _, sc := range result.Summary {
		table.Append([]string{string(sc.Status), strconv.Itoa(sc.Count)})
	}
	table.Render()
}
