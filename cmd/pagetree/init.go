package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new pagetree.yaml configuration",
	Long: `Initialize a new pagetree.yaml configuration file in the current
directory, with a minimal example source and sensible defaults.

Examples:
  # Create pagetree.yaml in current directory
  pagetree init

  # Overwrite an existing pagetree.yaml
  pagetree init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing pagetree.yaml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "pagetree.yaml"

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("pagetree.yaml already exists. Use --force to overwrite")
	}

	if err := os.MkdirAll("pages", 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create pages directory: %v\n", err)
	}

	content := `# pagetree configuration

# Named external sources, addressable from a page as @name/path.
# Run 'pagetree get' after adding one to fetch it.
sources:
  # uikit:
  #   url: github.com/example/uikit
  #   path: pages       # subdirectory within the repo (optional)
  #   ref: v1.0.0        # tag, branch, or commit

# Where vendored sources are checked out.
vendor_dir: ./vendor

# Upper bound on inclusion and macro-expansion nesting depth.
max_nesting: 100
`

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write pagetree.yaml: %w", err)
	}

	absPath, _ := filepath.Abs(configPath)
	fmt.Printf("Created %s\n", absPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add sources to pagetree.yaml")
	fmt.Println("  2. Run 'pagetree get' to fetch them")
	fmt.Println("  3. Reference them with @sourcename/path syntax")
	return nil
}
