package hint

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// ResolvedImage is a ready-to-send image URL. It is never cached since
// the provider's links are short-lived.
type ResolvedImage struct {
	URL string
}

// Index is the read side of FolderIndex.
type Index interface {
	ListImages(ctx context.Context) []FileEntry
}

// Linker turns a file path into a direct download URL.
type Linker interface {
	DownloadLink(ctx context.Context, path string) (string, error)
}

// Rand picks an index in [0, n).
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Resolver picks a random image from an Index and resolves it to a URL.
type Resolver struct {
	index  Index
	linker Linker
	rand   Rand
	logger *zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRand sets the random source used for picking.
func WithRand(r Rand) ResolverOption {
	return func(res *Resolver) {
		res.rand = r
	}
}

// NewResolver creates a Resolver over index.
func NewResolver(index Index, linker Linker, logger *zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		index:  index,
		linker: linker,
		rand:   globalRand{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PickRandomImageURL picks one listed image uniformly at random and
// resolves it. It returns ErrEmptyFolder when nothing is listed, and a
// *ResolutionError when the link cannot be obtained.
func (r *Resolver) PickRandomImageURL(ctx context.Context) (ResolvedImage, error) {
	entries := r.index.ListImages(ctx)
	if len(entries) == 0 {
		return ResolvedImage{}, ErrEmptyFolder
	}

	entry := entries[r.rand.IntN(len(entries))]

	r.logger.Debug().
		Str("path", entry.Path).
		Int("candidates", len(entries)).
		Msg("image picked")

	url, err := r.linker.DownloadLink(ctx, entry.Path)
	if err != nil {
		return ResolvedImage{}, &ResolutionError{Path: entry.Path, Err: err}
	}

	return ResolvedImage{URL: url}, nil
}
