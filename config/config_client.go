package config

type ClientConfig struct {
	Log        LogConfig        `mapstructure:"log"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
}

type LogConfig struct {
	Level LogLevel `default:"INFO" mapstructure:"level"` // log level - debug, info, warning, error
}

type RepositoryConfig struct {
	Path   string `mapstructure:"path"`                 // local clone to compare, defaults to the working directory
	Binary string `default:"git" mapstructure:"binary"` // version control binary to invoke
}

type ArchiveConfig struct {
	OutputDir  string   `default:"." mapstructure:"output_dir"` // where the archive file is written
	Name       string   `mapstructure:"name"`                   // optional fixed archive name
	Exclusions []string `mapstructure:"exclusions"`             // substrings of absolute paths to leave out
	StagingDir string   `mapstructure:"staging_dir"`            // override for the temp staging area
}
