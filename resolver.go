package pagetree

import (
	"path/filepath"
	"strings"
)

// PathResolver confines every requested name to a single fixed root,
// matching the teacher library's FileSystemLoader folder-search idea but
// collapsed to one root with no fallthrough: names that would escape it are
// rejected outright rather than silently skipped.
type PathResolver struct {
	root    string // absolute, cleaned
	sources map[string]string
}

// NewPathResolver builds a resolver rooted at root. root is made absolute
// and cleaned; it does not need to exist on disk (tests may point it at a
// MapFileSystem's logical namespace).
func NewPathResolver(root string) (*PathResolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &PathResolver{root: filepath.Clean(abs)}, nil
}

// Root returns the resolver's fixed, absolute root.
func (r *PathResolver) Root() string { return r.root }

// SetSources registers named vendor sources (see config.go), each mounted
// as a subdirectory beneath the resolver's fixed root — named sources never
// introduce an independent search root, only a shorthand for one of its
// subdirectories.
func (r *PathResolver) SetSources(sources map[string]string) {
	r.sources = sources
}

// Resolve maps (requested, currentDir) to a root-relative path, or a fatal
// Diagnostic if the request would escape the root.
//
// requested may start with "/" (re-rooted to the document root, current dir
// reset to empty), name a vendor source as "@name/rest" (re-rooted to that
// source's mounted subdirectory), or be relative to currentDir (itself
// always root-relative).
func (r *PathResolver) Resolve(requested, currentDir string, loc Position) (string, *Diagnostic) {
	cur := currentDir
	if strings.HasPrefix(requested, "@") {
		name, rest, _ := strings.Cut(requested[1:], "/")
		sub, ok := r.sources[name]
		if !ok {
			d := errorAt(loc, "unknown source %q", name)
			return "", &d
		}
		requested = rest
		cur = sub
	} else if strings.HasPrefix(requested, "/") {
		cur = ""
	}
	joined := filepath.Join(r.root, cur, requested)
	clean := filepath.Clean(joined)

	rel, err := filepath.Rel(r.root, clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		d := errorAt(loc, "forbidden pathname %q", requested)
		return "", &d
	}
	if rel == "." {
		rel = ""
	}
	return filepath.ToSlash(rel), nil
}

// AbsPath joins a root-relative path back onto the resolver's root, for
// handing to a FileSystem.
func (r *PathResolver) AbsPath(relPath string) string {
	return filepath.Join(r.root, filepath.FromSlash(relPath))
}
