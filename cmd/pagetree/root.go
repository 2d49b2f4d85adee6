package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pagetree",
	Short: "pagetree - an include/macro composition loader for page markup",
	Long: `pagetree resolves a page's <:include>/<:import> directives and
<:define>/<:slot> macro uses into a single expanded tree, rooted at a
confined document directory.

Configuration file locations (in order of precedence):
  1. --config flag
  2. pagetree.yaml / .pagetree.yaml in the current directory
  3. ~/.config/pagetree/config.yaml`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is pagetree.yaml)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(debugCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		path := ""
		for _, name := range []string{"pagetree.yaml", ".pagetree.yaml"} {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			if home, err := os.UserHomeDir(); err == nil {
				path = filepath.Join(home, ".config", "pagetree", "config.yaml")
			}
		}
		if path != "" {
			viper.SetConfigFile(path)
		}
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PAGETREE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
