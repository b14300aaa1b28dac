package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Dirs        []string `json:"dirs,omitempty" yaml:"dirs,omitempty"`               // Default search directories
	Excludes    []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`       // Default exclusion patterns
	NumObsolete int      `json:"numobsolete,omitempty" yaml:"numobsolete,omitempty"` // Default number of obsolete versions to keep
	IgnoreArch  bool     `json:"ignorearch,omitempty" yaml:"ignorearch,omitempty"`   // Compare packages across architectures
	LogLevel    string   `json:"loglevel,omitempty" yaml:"loglevel,omitempty"`       // Default log level
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setTidyParams fills in flag values not given on the command line from the
// configuration file.
func (c *CLIConfig) setTidyParams(flags *flagsT) {
	if len(flags.tidy.Dirs) == 0 {
		flags.tidy.Dirs = c.Dirs
	}
	if len(c.Excludes) > 0 {
		flags.tidy.Excludes = append(flags.tidy.Excludes, c.Excludes...)
	}
	if flags.tidy.NumObsolete == unsetRetention && c.NumObsolete > 0 {
		flags.tidy.NumObsolete = c.NumObsolete
	}
	if c.IgnoreArch {
		flags.tidy.IgnoreArch = true
	}
	if flags.root.logLevel == "" && c.LogLevel != "" {
		flags.root.logLevel = c.LogLevel
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the tidy-rpm-cache config",
	Long: `Commands to manage the tidy-rpm-cache CLI config.

Configuration for tidy-rpm-cache is the common set of flags that are needed
for most commands and do not change across runs, analogous to "git config ...".`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the effective config",
	Long:  `Shows the config file values merged with flag defaults, as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		out, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("marshal config", err)
			return
		}
		infoLogger.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
