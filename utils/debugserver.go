// Package utils holds small, server-shaped helpers that sit around the
// pagetree package itself rather than inside it.
package utils

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/arjunmehta/pagetree"
)

// DebugServer serves one request per page: it loads the requested path as
// an entry file under Root and dumps the expanded tree plus any
// diagnostics, rather than rendering anything. Handy for watching what a
// set of includes/macros actually resolve to without a separate CLI step.
type DebugServer struct {
	Root       string
	StaticDirs []string

	mux *http.ServeMux
}

func (d *DebugServer) Init() {
	if d.Root == "" {
		d.Root = "."
	}
	if len(d.StaticDirs) == 0 {
		d.StaticDirs = []string{"static:./static"}
	}
	d.createMux()
}

func (d *DebugServer) createMux() {
	d.mux = http.NewServeMux()

	for _, entry := range d.StaticDirs {
		prefix, folder, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		prefix = "/" + strings.TrimPrefix(prefix, "/") + "/"
		d.mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(folder))))
	}

	d.mux.HandleFunc("/", d.handlePage)
}

func (d *DebugServer) handlePage(w http.ResponseWriter, r *http.Request) {
	entry := strings.TrimPrefix(r.URL.Path, "/")
	slog.Info("loading page", "path", entry)

	s, err := pagetree.Load(d.Root, entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "entry: %s\nfiles read: %d\n\n", entry, len(s.Files))
	for _, f := range s.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w, "\ndiagnostics:")
	for _, diag := range s.Diagnostics {
		fmt.Fprintf(w, "  %s\n", diag)
	}
	if s.Tree != nil {
		fmt.Fprintln(w, "\ntree:")
		dumpTree(w, s.Tree, 0)
	}
}

func dumpTree(w http.ResponseWriter, c pagetree.Child, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := c.(type) {
	case *pagetree.Element:
		fmt.Fprintf(w, "%s<%s>\n", indent, v.Tag)
		for _, ch := range v.Children {
			dumpTree(w, ch, depth+1)
		}
	case *pagetree.Text:
		fmt.Fprintf(w, "%s%q\n", indent, v.Value)
	case *pagetree.Expr:
		fmt.Fprintf(w, "%s{{%s}}\n", indent, v.Source)
	}
}

// Serve starts the HTTP server and blocks until ctx is cancelled or
// ListenAndServe returns.
func (d *DebugServer) Serve(ctx context.Context, addr string) error {
	d.Init()
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:        addr,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
		Handler:     d.mux,
	}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()
	slog.Info("starting debug server", "addr", addr)
	return server.ListenAndServe()
}
