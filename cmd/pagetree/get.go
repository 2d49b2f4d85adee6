package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arjunmehta/pagetree"
	"github.com/spf13/cobra"
)

var (
	updateFlag bool
	verifyFlag bool
	dryRunFlag bool
	verbose    bool
)

var getCmd = &cobra.Command{
	Use:   "get [source...]",
	Short: "Fetch external page sources",
	Long: `Fetch external page sources defined in pagetree.yaml.

Examples:
  # Fetch all configured sources
  pagetree get

  # Fetch a specific source
  pagetree get @uikit

  # Verify local checkouts match the lock file
  pagetree get --verify

  # Show what would be fetched without doing it
  pagetree get --dry-run`,
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVarP(&updateFlag, "update", "u", false, "Update to latest versions matching refs")
	getCmd.Flags().BoolVar(&verifyFlag, "verify", false, "Verify local checkouts match the lock file")
	getCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show what would be fetched without doing it")
	getCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath, err := pagetree.FindConfig(cwd)
	if err != nil {
		return fmt.Errorf("no pagetree.yaml found: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Using config: %s\n", configPath)
	}

	cfg, err := pagetree.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		fmt.Println("No sources configured in pagetree.yaml")
		return nil
	}

	var names []string
	if len(args) > 0 {
		for _, arg := range args {
			name := arg
			if len(name) > 0 && name[0] == '@' {
				name = name[1:]
			}
			if _, ok := cfg.Sources[name]; !ok {
				return fmt.Errorf("source %q not found in pagetree.yaml", name)
			}
			names = append(names, name)
		}
	} else {
		for name := range cfg.Sources {
			names = append(names, name)
		}
	}

	if dryRunFlag {
		fmt.Println("Would fetch:")
		for _, name := range names {
			src := cfg.Sources[name]
			dest := filepath.Join(cfg.ResolveVendorDir(), src.URL)
			fmt.Printf("  %s: %s@%s -> %s\n", name, src.URL, src.Ref, dest)
		}
		return nil
	}

	if verifyFlag {
		return runVerify(cfg, configPath, names)
	}

	fmt.Printf("Fetching %d source(s)...\n", len(names))
	results := make(map[string]*pagetree.FetchResult)
	for _, name := range names {
		src := cfg.Sources[name]
		fmt.Printf("  %s: %s@%s... ", name, src.URL, src.Ref)

		result, err := pagetree.FetchSource(cfg, name)
		if err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("failed to fetch %q: %w", name, err)
		}
		results[name] = result
		fmt.Printf("OK (%s)\n", result.ResolvedCommit[:7])
	}

	lockPath := filepath.Join(filepath.Dir(configPath), "pagetree.lock")
	lock := &pagetree.Lock{Version: 1, Sources: make(map[string]pagetree.LockedRef)}
	if existing, err := pagetree.LoadLockFile(lockPath); err == nil {
		lock = existing
	}
	for name, result := range results {
		lock.Sources[name] = pagetree.LockedRef{
			URL:            result.URL,
			Ref:            result.Ref,
			ResolvedCommit: result.ResolvedCommit,
			FetchedAt:      result.FetchedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if err := pagetree.WriteLockFile(lockPath, lock); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}

	fmt.Printf("\nWrote %s\n", lockPath)
	return nil
}

func runVerify(cfg *pagetree.Config, configPath string, names []string) error {
	lockPath := filepath.Join(filepath.Dir(configPath), "pagetree.lock")
	lock, err := pagetree.LoadLockFile(lockPath)
	if err != nil {
		return fmt.Errorf("no lock file found: %w", err)
	}

	allGood := true
	for _, name := range names {
		src := cfg.Sources[name]
		dest := filepath.Join(cfg.ResolveVendorDir(), src.URL)

		locked, ok := lock.Sources[name]
		if !ok {
			fmt.Printf("MISSING %s: not in lock file\n", name)
			allGood = false
			continue
		}
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			fmt.Printf("MISSING %s: not fetched\n", name)
			allGood = false
			continue
		}
		head, err := exec.Command("git", "-C", dest, "rev-parse", "HEAD").Output()
		if err != nil || strings.TrimSpace(string(head)) != locked.ResolvedCommit {
			fmt.Printf("MISMATCH %s: checkout is not at locked commit %s\n", name, locked.ResolvedCommit)
			allGood = false
			continue
		}
		fmt.Printf("OK %s: matches lock (%s)\n", name, locked.ResolvedCommit[:7])
	}
	if !allGood {
		return fmt.Errorf("verification failed")
	}
	return nil
}
