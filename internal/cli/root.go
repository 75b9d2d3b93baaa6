// Package cli implements the meritcalc command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hammad-111/HamSync-sub000/internal/logx"
)

// Set by the linker at release time.
var version = "dev"

// NewRootCmd builds the full command tree. v holds config-file, env and
// flag values; pass viper.New() in tests.
func NewRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "meritcalc",
		Short: "Admission aggregate calculator for NUST, UET and FAST.",
		Long: `meritcalc computes admission aggregates from matric, intermediate and
entrance-test marks, or solves for the test score a target aggregate needs.

Marks are given as obtained/total (890/1100) or, for tests with a fixed
maximum, just the obtained score.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			return logx.SetLevel(v.GetString("loglevel"))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meritcalc.yaml)")
	pf.StringP("loglevel", "l", "warn", "Set log level. Available: debug, info, warn, error, fatal")
	pf.StringP("output", "o", "text", "Output format: text or json")
	pf.String("server", "http://localhost:8080", "meritd base URL for --save and history")
	pf.String("token", "", "Bearer token for the server (a guest token is fetched when empty)")
	for _, name := range []string{"loglevel", "output", "server", "token"} {
		_ = v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		newProfilesCmd(v),
		newCalcCmd(v),
		newTargetCmd(v),
		newHistoryCmd(v),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI against the process-wide viper instance.
func Execute() {
	if err := NewRootCmd(viper.GetViper()).Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig reads the config file, if any, and MERITCALC_* env variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		v.AddConfigPath(home)
		v.SetConfigName(".meritcalc")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("meritcalc")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config %s: %w", filepath.Base(v.ConfigFileUsed()), err)
	}
	logx.Log.WithField("file", v.ConfigFileUsed()).Debug("using config file")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "meritcalc", version)
		},
	}
}
