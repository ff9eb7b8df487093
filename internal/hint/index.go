package hint

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/j0lvera/wisdomcards/internal/disk"
	"github.com/rs/zerolog"
)

// FileEntry is one image file in the remote folder.
type FileEntry struct {
	Path string
	Name string
}

// Lister lists the entries of a remote folder.
type Lister interface {
	ListFolder(ctx context.Context, path string, limit int) ([]disk.Resource, error)
}

// FolderIndex caches the image entries of a single remote folder.
//
// The cache is filled on the first ListImages call and kept until
// Invalidate. It never expires on its own.
type FolderIndex struct {
	lister     Lister
	folder     string
	limit      int
	extensions []string
	logger     *zerolog.Logger

	cache atomic.Pointer[[]FileEntry]
}

// NewFolderIndex creates an empty index over folder. extensions are
// matched as lower-case suffixes, e.g. ".png".
func NewFolderIndex(
	lister Lister,
	folder string,
	limit int,
	extensions []string,
	logger *zerolog.Logger,
) *FolderIndex {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		exts = append(exts, strings.ToLower(ext))
	}

	return &FolderIndex{
		lister:     lister,
		folder:     folder,
		limit:      limit,
		extensions: exts,
		logger:     logger,
	}
}

// ListImages returns the cached entries, listing the folder first if the
// cache is empty. A failed listing is logged and yields an empty slice
// without populating the cache.
func (i *FolderIndex) ListImages(ctx context.Context) []FileEntry {
	if cached := i.cache.Load(); cached != nil {
		return *cached
	}

	resources, err := i.lister.ListFolder(ctx, i.folder, i.limit)
	if err != nil {
		i.logger.Error().
			Err(err).
			Str("folder", i.folder).
			Msg("unable to list folder")
		return []FileEntry{}
	}

	entries := make([]FileEntry, 0, len(resources))
	for _, r := range resources {
		if r.Type != disk.TypeFile || !i.isImage(r.Name) {
			continue
		}
		entries = append(entries, FileEntry{Path: r.Path, Name: r.Name})
	}

	i.cache.Store(&entries)

	i.logger.Info().
		Str("folder", i.folder).
		Int("listed", len(resources)).
		Int("images", len(entries)).
		Msg("folder index populated")

	return entries
}

// Invalidate drops the cached listing.
func (i *FolderIndex) Invalidate() {
	i.cache.Store(nil)
	i.logger.Info().Str("folder", i.folder).Msg("folder index invalidated")
}

// Snapshot reports the cached entry count and whether the cache is populated.
func (i *FolderIndex) Snapshot() (count int, populated bool) {
	cached := i.cache.Load()
	if cached == nil {
		return 0, false
	}
	return len(*cached), true
}

func (i *FolderIndex) isImage(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range i.extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
