package pagetree

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Lock is the shape of pagetree.lock: the resolved, fetched state of every
// vendor source a Config named, so repeat loads don't silently float to
// whatever a ref now points at.
type Lock struct {
	Version int                   `yaml:"version"`
	Sources map[string]LockedRef `yaml:"sources"`
}

// LockedRef records exactly what was fetched for one named source.
type LockedRef struct {
	URL            string `yaml:"url"`
	Ref            string `yaml:"ref"`
	ResolvedCommit string `yaml:"resolved_commit"`
	FetchedAt      string `yaml:"fetched_at"`
}

// FetchResult is the outcome of fetching a single configured source.
type FetchResult struct {
	SourceName     string
	URL            string
	Ref            string
	ResolvedCommit string
	DestDir        string
	FetchedAt      time.Time
}

// FetchSource clones (or updates and checks out) one named source from cfg
// into its vendor directory.
func FetchSource(cfg *Config, sourceName string) (*FetchResult, error) {
	source, ok := cfg.Sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("source %q not found in config", sourceName)
	}

	destDir := filepath.Join(cfg.ResolveVendorDir(), source.URL)

	commit, err := gitCloneOrUpdate(source.URL, source.Ref, destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source %q: %w", sourceName, err)
	}

	return &FetchResult{
		SourceName:     sourceName,
		URL:            source.URL,
		Ref:            source.Ref,
		ResolvedCommit: commit,
		DestDir:        destDir,
		FetchedAt:      time.Now(),
	}, nil
}

// FetchAllSources fetches every source named in cfg, stopping at the first
// failure.
func FetchAllSources(cfg *Config) (map[string]*FetchResult, error) {
	results := make(map[string]*FetchResult, len(cfg.Sources))
	for name := range cfg.Sources {
		r, err := FetchSource(cfg, name)
		if err != nil {
			return results, fmt.Errorf("failed to fetch %q: %w", name, err)
		}
		results[name] = r
	}
	return results, nil
}

// WriteLockFile writes lock to path as YAML, with a header warning against
// hand-editing.
func WriteLockFile(path string, lock *Lock) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to marshal lock file: %w", err)
	}
	header := "# AUTO-GENERATED - do not edit by hand\n# Run 'pagetree get' to regenerate\n\n"
	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// LoadLockFile reads a pagetree.lock file back in.
func LoadLockFile(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock file: %w", err)
	}
	var lock Lock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &lock, nil
}

func gitCloneOrUpdate(url, ref, destDir string) (string, error) {
	gitURL := url
	if strings.HasPrefix(url, "github.com/") {
		gitURL = "https://" + url + ".git"
	}

	if _, err := os.Stat(destDir); err == nil {
		return gitFetchAndCheckout(destDir, ref)
	}

	if err := os.MkdirAll(filepath.Dir(destDir), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	cmd := exec.Command("git", "clone", "--quiet", gitURL, destDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git clone failed: %s: %w", string(output), err)
	}
	return gitCheckout(destDir, ref)
}

func gitFetchAndCheckout(dir, ref string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "fetch", "--all", "--quiet")
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git fetch failed: %s: %w", string(output), err)
	}
	return gitCheckout(dir, ref)
}

func gitCheckout(dir, ref string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "checkout", "--quiet", ref)
	if output, err := cmd.CombinedOutput(); err != nil {
		cmd = exec.Command("git", "-C", dir, "checkout", "--quiet", "origin/"+ref)
		if output2, err2 := cmd.CombinedOutput(); err2 != nil {
			return "", fmt.Errorf("git checkout failed: %s / %s: %w", string(output), string(output2), err)
		}
	}

	cmd = exec.Command("git", "-C", dir, "rev-parse", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
