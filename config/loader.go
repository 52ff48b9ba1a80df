package config

import (
	"errors"
	"os"
	"strings"

	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFilename = "diffpack"
	DefaultFileExtension  = "yaml"
	DefaultEnvPrefix      = "DIFFPACK"
)

// LoadClientConfig loads the client configuration from the given file, or
// from ./diffpack.yaml and the home directory when no file is given. A
// missing config file is not an error, every setting has a usable default
// or can be supplied through flags and prompts.
func LoadClientConfig(filePath string) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	defaults.SetDefaults(cfg)

	v := viper.New()
	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath == EmptyPath {
		v.SetConfigName(DefaultConfigFilename)
		v.SetConfigType(DefaultFileExtension)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return cfg, nil
			}
			return nil, err
		}
	} else {
		v.SetConfigFile(filePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}
