package pagetree

import "testing"

func TestPathResolverRelative(t *testing.T) {
	r, err := NewPathResolver("/site")
	if err != nil {
		t.Fatal(err)
	}
	rel, diag := r.Resolve("partials/header.html", "pages", Position{})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if rel != "pages/partials/header.html" {
		t.Fatalf("got %q", rel)
	}
}

func TestPathResolverAbsoluteWithinRoot(t *testing.T) {
	r, _ := NewPathResolver("/site")
	rel, diag := r.Resolve("/partials/header.html", "pages/nested", Position{})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if rel != "partials/header.html" {
		t.Fatalf("got %q", rel)
	}
}

func TestPathResolverForbidsEscape(t *testing.T) {
	r, _ := NewPathResolver("/site")
	_, diag := r.Resolve("../../etc/passwd", "pages", Position{})
	if diag == nil {
		t.Fatal("expected forbidden-path diagnostic, got nil")
	}
	if diag.Severity != SeverityError {
		t.Fatalf("expected error severity, got %v", diag.Severity)
	}
}

func TestPathResolverSource(t *testing.T) {
	r, _ := NewPathResolver("/site")
	r.SetSources(map[string]string{"widgets": "vendor/github.com/acme/widgets"})

	rel, diag := r.Resolve("@widgets/button.html", "pages/nested", Position{})
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if rel != "vendor/github.com/acme/widgets/button.html" {
		t.Fatalf("got %q", rel)
	}
}

func TestPathResolverUnknownSource(t *testing.T) {
	r, _ := NewPathResolver("/site")
	_, diag := r.Resolve("@missing/x.html", "", Position{})
	if diag == nil {
		t.Fatal("expected unknown-source diagnostic, got nil")
	}
}
