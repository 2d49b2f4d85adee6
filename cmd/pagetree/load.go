package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunmehta/pagetree"
	"github.com/spf13/cobra"
)

var (
	docRoot      string
	panicOnError bool
	memstats     bool
)

var loadCmd = &cobra.Command{
	Use:   "load <entry-file>",
	Short: "Load an entry file, resolving every include and macro use",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&docRoot, "root", ".", "document root every path is confined to")
	loadCmd.Flags().BoolVar(&panicOnError, "panic-on-error", false, "panic on the first error-severity diagnostic")
	loadCmd.Flags().BoolVar(&memstats, "memstats", false, "report heap usage before/after the load")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	entry := args[0]

	opts := []pagetree.Option{pagetree.WithPanicOnError(panicOnError)}

	root, _ := filepath.Abs(docRoot)
	if configPath, err := pagetree.FindConfig(root); err == nil {
		if cfg, err := pagetree.LoadConfig(configPath); err == nil {
			opts = append(opts, pagetree.WithConfig(cfg, root))
		}
	}

	var stats *pagetree.MemStats
	if memstats {
		stats = pagetree.NewMemStats()
		stats.SnapshotWithGC("before-load")
	}

	s, err := pagetree.Load(docRoot, entry, opts...)
	if err != nil {
		return err
	}

	if stats != nil {
		stats.SnapshotWithGC("after-load")
		stats.Report(os.Stdout)
		fmt.Println()
	}

	fmt.Printf("files read: %d\n", len(s.Files))
	for _, f := range s.Files {
		fmt.Printf("  %s\n", f)
	}

	if len(s.Diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	fmt.Println("diagnostics:")
	for _, d := range s.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
	if pagetree.HasErrors(s.Diagnostics) {
		os.Exit(1)
	}
	return nil
}
