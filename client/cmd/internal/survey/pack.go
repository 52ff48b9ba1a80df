package survey

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/goto/salt/log"

	"github.com/goto/diffpack/internal/utils"
)

// PackSurvey asks for the comparison inputs the flags did not supply.
type PackSurvey struct {
	logger log.Logger
}

// NewPackSurvey initializes the archive creation survey
func NewPackSurvey(logger log.Logger) *PackSurvey {
	return &PackSurvey{logger: logger}
}

// AskRepositoryPath asks where the local repository clone lives.
func (*PackSurvey) AskRepositoryPath() (string, error) {
	var repoPath string
	if err := survey.AskOne(&survey.Input{
		Message: "Where is the repository?",
		Default: ".",
		Help:    "Path of the local clone to compare",
	}, &repoPath, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return repoPath, nil
}

// AskRevision asks for one side of the comparison, offering a branch
// selection when the repository reported any.
func (*PackSurvey) AskRevision(side string, branches []string, defaultRef string) (string, error) {
	if len(branches) > 0 {
		prompt := &survey.Select{
			Message: fmt.Sprintf("Select the %s revision", side),
			Options: branches,
			Help:    "Any branch, tag or commit can also be passed through flags",
		}
		if utils.ContainsString(branches, defaultRef) {
			prompt.Default = defaultRef
		}
		var selected string
		if err := survey.AskOne(prompt, &selected); err != nil {
			return "", err
		}
		return selected, nil
	}

	var name string
	if err := survey.AskOne(&survey.Input{
		Message: fmt.Sprintf("What is the %s revision?", side),
		Default: defaultRef,
	}, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return name, nil
}

// AskOutputDirectory asks where the archive should be written.
func (*PackSurvey) AskOutputDirectory(defaultDir string) (string, error) {
	var outputDir string
	if err := survey.AskOne(&survey.Input{
		Message: "Where should the archive be written?",
		Default: defaultDir,
	}, &outputDir, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return outputDir, nil
}
