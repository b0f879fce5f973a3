package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm/tmplcmp/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// settings is the loaded configuration shared by subcommands.
type settings struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:   "tmplcmp",
		Short: "Render, diff and preview HTML components",
		Long: `tmplcmp drives the tmplcmp component runtime from files.

Templates are HTML files with {{name}} placeholders. Values come from a
YAML data file; plain placeholders are escaped, {{raw:name}} is inserted
verbatim and {{safe:name}} is sanitized. A sibling .css file is scoped to
the mount point and injected once.

Configuration is read from .tmplcmp.yml (or --config, or TMPLCMP_CONFIG_FILE)
and TMPLCMP_<SECTION>_<OPTION> environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initConfig(cmd, cfgFile)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			s.cfg = cfg
			s.logger = cfg.Log.Logger(cmd.ErrOrStderr())
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .tmplcmp.yml, can also use TMPLCMP_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	bindFlags(flags, "log-level", "log-format")

	rootCmd.AddCommand(
		renderCmd(s),
		morphCmd(s),
		serveCmd(s),
		tailCmd(s),
		versionCmd(),
	)
	return rootCmd
}

// bindFlags binds flags to viper keys of the same name.
func bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig points viper at the config file.
//
// Priority: --config flag, then TMPLCMP_CONFIG_FILE, then .tmplcmp.yml in the
// current directory. A missing file is not an error.
func initConfig(cmd *cobra.Command, cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TMPLCMP_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tmplcmp")
	}

	viper.SetEnvPrefix("TMPLCMP")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
	}
}
