package pagetree

import "os"

// panicOrDiagnostic is a helper mirroring the teacher library's
// panicOrError: diagnostics are the normal error-reporting channel for this
// package, but a caller (typically a test, or a fail-fast CLI invocation) can
// ask for fatal diagnostics to panic instead by setting
// PAGETREE_PANIC_ON_ERRORS=true, or by setting Session.PanicOnError.
func (s *Session) panicOrDiagnostic(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
	if d.Severity != SeverityError {
		return
	}
	if s.PanicOnError || os.Getenv("PAGETREE_PANIC_ON_ERRORS") == "true" {
		panic(d.String())
	}
}
