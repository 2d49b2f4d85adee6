package pagetree

// Session holds everything produced by one Load call: the final expanded
// tree, every file actually read (duplicates included, one entry per
// :include — see trimOuterWhitespace/processInclusion), the accumulated
// diagnostics, and the macro registry built up along the way.
type Session struct {
	Tree        *Element
	Files       []string
	Diagnostics []Diagnostic
	Macros      map[string]*MacroDescriptor

	// PanicOnError makes panicOrDiagnostic panic on the first error-severity
	// diagnostic instead of merely recording it. Off by default; also
	// settable via PAGETREE_PANIC_ON_ERRORS=true (see errors.go).
	PanicOnError bool

	resolver   *PathResolver
	fs         FileSystem
	parse      ParseFunc
	visited    map[string]bool
	maxNesting int
}

// Option configures a Session before Load runs.
type Option func(*Session)

// WithFileSystem overrides the default OSFileSystem collaborator.
func WithFileSystem(fs FileSystem) Option {
	return func(s *Session) { s.fs = fs }
}

// WithParseFunc overrides DefaultParse.
func WithParseFunc(p ParseFunc) Option {
	return func(s *Session) { s.parse = p }
}

// WithPanicOnError makes the session panic on the first error diagnostic.
func WithPanicOnError(v bool) Option {
	return func(s *Session) { s.PanicOnError = v }
}

func newSession(root string, opts ...Option) (*Session, error) {
	resolver, err := NewPathResolver(root)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Macros:     map[string]*MacroDescriptor{},
		visited:    map[string]bool{},
		fs:         OSFileSystem{},
		parse:      DefaultParse,
		resolver:   resolver,
		maxNesting: MaxNesting,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load resolves entryFile against root, reads and recursively processes
// every `:include`/`:import`/`:define` directive it (and everything it
// pulls in) contains, then applies every registered macro across the
// settled tree. Diagnostics accumulate on the returned Session regardless
// of whether any are fatal; a nil Tree means the entry file itself could
// not be produced.
func Load(root, entryFile string, opts ...Option) (*Session, error) {
	s, err := newSession(root, opts...)
	if err != nil {
		return nil, err
	}

	relPath, errDiag := s.resolver.Resolve(entryFile, "", Position{File: entryFile})
	if errDiag != nil {
		s.panicOrDiagnostic(*errDiag)
		return s, nil
	}

	tree := s.processFile(relPath, 1, false)
	if tree == nil {
		return s, nil
	}

	expanded, diags := s.expandMacros(tree)
	for _, d := range diags {
		s.panicOrDiagnostic(d)
	}
	s.Tree = expanded
	return s, nil
}
