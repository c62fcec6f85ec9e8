package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/maximthomas/gradify/pkg/config"
	"github.com/maximthomas/gradify/pkg/log"
	"github.com/maximthomas/gradify/pkg/server"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "gradify",
		Short: "Gradify is a gateway to the gradify Keycloak realm",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.RunServer()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Shown version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/gradify-config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	configLogger := log.WithField("module", "cmd")
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("gradify-config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// the whole configuration may come from the environment
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return err
		}
		configLogger.Warn("no config file found, using environment only")
	} else {
		configLogger.Infof("using config file: %s", viper.ConfigFileUsed())
	}
	return config.InitConfig()
}
