/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/ctoa/common"
	"github.com/rotblauer/ctoa/params"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"strings"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   params.AppName,
	Short: "Remove elevation outliers from GPX tracks",
	Long: `ctoa finds GPX track points whose elevation deviates too far from the
average of their neighbors, and removes them.

Every flag can also be set in the config file (default $HOME/.ctoa.yaml)
or through the environment, prefixed CTOA_ with dashes as underscores,
eg. CTOA_RADIUS=4 or CTOA_LOG_LEVEL=debug.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+params.ConfigFileName+".yaml)")
	pFlags.String("log-level", "info", "Log level: debug, info, warn, error")
	pFlags.String("log-format", "text", "Log format: text or json")
	cobra.CheckErr(viper.BindPFlags(pFlags))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(params.ConfigFileName)
	}

	viper.SetEnvPrefix(params.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("Using config file", "file", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		// An explicit config file must exist.
		cobra.CheckErr(err)
	}
}

// setDefaultSlog installs the process-wide logger, writing to stderr.
// An unusable level or format falls back to text at info.
func setDefaultSlog(cmd *cobra.Command, args []string) {
	level, err := common.ParseSlogLevel(viper.GetString("log-level"))
	if err != nil {
		slog.Warn("Invalid log level, using info", "error", err)
	}
	handler, err := common.NewSlogHandler(cmd.ErrOrStderr(), viper.GetString("log-format"), level)
	if err != nil {
		slog.Warn("Invalid log format, using text", "error", err)
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Command", "name", cmd.Name(), "args", args)
}
