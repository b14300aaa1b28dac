package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tidy-rpm-cache",
	Short: "tidy-rpm-cache deletes obsolete RPM package files from cache directories",
	Long: `tidy-rpm-cache deletes obsolete files by comparing the version information
of all RPM package files which provide the same software package.

Package managers such as YUM or DNF can keep downloaded package files in a
cache directory for later use, but provide no way to delete files which have
become obsolete because a newer version of the same package was downloaded.

Any number of search directories may be given, and specific packages can be
excluded from the obsolescence test with regular expressions matched against
the filename.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if tidyFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note: *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tidyFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addCPUProfFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", defaultLogLevel)
	if os.Getenv("TIDY_RPM_CACHE_CONFIG") != "" {
		// Use config file from the flag.
		viper.SetConfigFile(os.Getenv("TIDY_RPM_CACHE_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.tidy-rpm-cache")
		viper.AddConfigPath("/etc/tidy-rpm-cache")
		viper.SetConfigName("tidy-rpm-cache")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setTidyParams(&tidyFlags)
}
