// Package config provides a reusable loader for avmc configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/avmforge/avmc/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for one compiler invocation. It
// mirrors the structure of the YAML files under cmd/config and the
// "Compilation options" described by the external-interfaces section of
// the specification: target AVM version, optimization level, output
// directory, and template-variable bindings.
type Config struct {
	Compile struct {
		TargetAVMVersion int    `mapstructure:"target_avm_version" json:"target_avm_version"`
		OptimizationLevel int   `mapstructure:"optimization_level" json:"optimization_level"`
		OutDir           string `mapstructure:"out_dir" json:"out_dir"`
	} `mapstructure:"compile" json:"compile"`

	// TemplateVariables binds TMPL_-prefixed assembler placeholders to
	// their literal replacement text (hex-encoded bytes, or a decimal
	// integer, depending on the variable's wtype) ahead of assembly.
	TemplateVariables map[string]string `mapstructure:"template_variables" json:"template_variables"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up AVMC_-prefixed overrides once SetEnvPrefix is called by the caller

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the AVMC_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("AVMC_ENV", ""))
}
