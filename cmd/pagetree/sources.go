package main

import (
	"fmt"
	"os"

	"github.com/arjunmehta/pagetree"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the named sources configured in pagetree.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		configPath, err := pagetree.FindConfig(cwd)
		if err != nil {
			return fmt.Errorf("no pagetree.yaml found: %w", err)
		}
		cfg, err := pagetree.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if len(cfg.Sources) == 0 {
			fmt.Println("No sources configured")
			return nil
		}
		for name, src := range cfg.Sources {
			fmt.Printf("@%s -> %s@%s (path=%q)\n", name, src.URL, src.Ref, src.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
