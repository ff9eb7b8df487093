package hint

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/j0lvera/wisdomcards/internal/disk"
)

// --- Mock Linker ---
type mockLinker struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (m *mockLinker) DownloadLink(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	if m.err != nil {
		return "", m.err
	}
	return "https://downloader.example/" + strings.TrimPrefix(path, "disk:/"), nil
}

// staticIndex serves a fixed listing.
type staticIndex []FileEntry

func (s staticIndex) ListImages(ctx context.Context) []FileEntry { return s }

// fixedRand always picks the same position.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func entries(names ...string) staticIndex {
	out := make(staticIndex, 0, len(names))
	for _, n := range names {
		out = append(out, FileEntry{Path: "disk:/cards/" + n, Name: n})
	}
	return out
}

func TestResolver_ResolvesListedPath(t *testing.T) {
	index := entries("a.png", "b.png", "c.png")
	linker := &mockLinker{}
	r := NewResolver(index, linker, nopLogger(), WithRand(fixedRand(1)))

	img, err := r.PickRandomImageURL(context.Background())
	if err != nil {
		t.Fatalf("PickRandomImageURL() error = %v", err)
	}
	if img.URL != "https://downloader.example/cards/b.png" {
		t.Errorf("URL = %q", img.URL)
	}
	if len(linker.calls) != 1 || linker.calls[0] != "disk:/cards/b.png" {
		t.Errorf("link calls = %v", linker.calls)
	}
}

func TestResolver_URLAlwaysFromListing(t *testing.T) {
	index := entries("a.png", "b.jpg", "c.webp", "d.gif")
	listed := make(map[string]bool)
	for _, e := range index {
		listed[e.Path] = true
	}
	linker := &mockLinker{}
	r := NewResolver(index, linker, nopLogger(), WithRand(rand.New(rand.NewPCG(7, 11))))

	for range 200 {
		if _, err := r.PickRandomImageURL(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for _, p := range linker.calls {
		if !listed[p] {
			t.Fatalf("resolved unlisted path %q", p)
		}
	}
}

func TestResolver_EmptyFolder(t *testing.T) {
	linker := &mockLinker{}
	r := NewResolver(staticIndex{}, linker, nopLogger())

	_, err := r.PickRandomImageURL(context.Background())
	if !errors.Is(err, ErrEmptyFolder) {
		t.Fatalf("error = %v, want ErrEmptyFolder", err)
	}
	if len(linker.calls) != 0 {
		t.Errorf("link resolution must not be called, got %d calls", len(linker.calls))
	}
}

func TestResolver_ResolutionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"transport", errors.New("dial tcp: connection refused")},
		{"status", &disk.APIError{Op: "download", StatusCode: 404}},
		{"missing href", disk.ErrNoLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linker := &mockLinker{err: tt.err}
			r := NewResolver(entries("a.png"), linker, nopLogger())

			img, err := r.PickRandomImageURL(context.Background())
			var resErr *ResolutionError
			if !errors.As(err, &resErr) {
				t.Fatalf("expected *ResolutionError, got %v", err)
			}
			if resErr.Path != "disk:/cards/a.png" {
				t.Errorf("Path = %q", resErr.Path)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected cause %v to be wrapped", tt.err)
			}
			if img.URL != "" {
				t.Errorf("expected empty URL on failure, got %q", img.URL)
			}
		})
	}
}

func TestResolver_Uniformity(t *testing.T) {
	names := []string{"a.png", "b.png", "c.png", "d.png"}
	linker := &mockLinker{}
	r := NewResolver(entries(names...), linker, nopLogger(), WithRand(rand.New(rand.NewPCG(42, 1024))))

	const draws = 8000
	counts := make(map[string]int)
	for range draws {
		img, err := r.PickRandomImageURL(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[img.URL]++
	}

	if len(counts) != len(names) {
		t.Fatalf("picked %d distinct files, want %d", len(counts), len(names))
	}
	expected := draws / len(names)
	for url, n := range counts {
		if n < expected*85/100 || n > expected*115/100 {
			t.Errorf("%s picked %d times, expected about %d", url, n, expected)
		}
	}
}

func TestResolver_RepeatsAllowed(t *testing.T) {
	linker := &mockLinker{}
	r := NewResolver(entries("a.png", "b.png"), linker, nopLogger(), WithRand(fixedRand(0)))

	first, _ := r.PickRandomImageURL(context.Background())
	second, _ := r.PickRandomImageURL(context.Background())
	if first != second {
		t.Errorf("expected identical picks from a fixed source, got %q and %q", first.URL, second.URL)
	}
}

func TestResolver_WithFolderIndex(t *testing.T) {
	lister := &mockLister{resources: []disk.Resource{
		file("a.png"),
		{Name: "sub", Path: "disk:/cards/sub", Type: disk.TypeDir},
	}}
	index := NewFolderIndex(lister, "/cards", 1000, defaultExtensions, nopLogger())
	r := NewResolver(index, &mockLinker{}, nopLogger())

	for range 3 {
		img, err := r.PickRandomImageURL(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.URL != "https://downloader.example/cards/a.png" {
			t.Errorf("URL = %q", img.URL)
		}
	}
	if lister.callCount() != 1 {
		t.Errorf("listing calls = %d, want 1", lister.callCount())
	}
}
