package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arjunmehta/pagetree"
	"github.com/spf13/cobra"
)

var dotOutput bool

var debugCmd = &cobra.Command{
	Use:   "debug <entry-file>",
	Short: "Summarize the file dependency graph a load actually walked",
	Long: `Loads entry-file the same way 'pagetree load' does, then reports which
files were read and how many times. Unlike a static grep-based dependency
scan, this walks the real, confined Path Resolver, so it can't be fooled by
a commented-out or string-literal-only "<:include ...>".`,
	Args: cobra.ExactArgs(1),
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().StringVar(&docRoot, "root", ".", "document root every path is confined to")
	debugCmd.Flags().BoolVar(&dotOutput, "dot", false, "emit a Graphviz DOT file-occurrence graph instead")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	entry := args[0]

	var opts []pagetree.Option
	root, _ := filepath.Abs(docRoot)
	if configPath, err := pagetree.FindConfig(root); err == nil {
		if cfg, err := pagetree.LoadConfig(configPath); err == nil {
			opts = append(opts, pagetree.WithConfig(cfg, root))
		}
	}

	s, err := pagetree.Load(docRoot, entry, opts...)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	var order []string
	for _, f := range s.Files {
		if counts[f] == 0 {
			order = append(order, f)
		}
		counts[f]++
	}

	if dotOutput {
		fmt.Println("digraph pagetree {")
		for _, f := range order {
			fmt.Printf("  %q [label=%q];\n", f, fmt.Sprintf("%s (x%d)", f, counts[f]))
		}
		fmt.Println("}")
		return nil
	}

	fmt.Printf("%d distinct file(s), %d total read(s)\n", len(order), len(s.Files))
	for _, f := range order {
		reused := ""
		if counts[f] > 1 {
			reused = fmt.Sprintf("  (read %d times)", counts[f])
		}
		fmt.Printf("  %s%s\n", f, reused)
	}
	if len(s.Macros) > 0 {
		fmt.Printf("\n%d macro(s) registered:\n", len(s.Macros))
		for name, m := range s.Macros {
			base := m.Base
			if m.From != nil {
				base = "inherits " + m.From.Name
			}
			fmt.Printf("  %s (%s)\n", name, base)
		}
	}
	if pagetree.HasErrors(s.Diagnostics) {
		os.Exit(1)
	}
	return nil
}
