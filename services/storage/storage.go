package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bflibrary/unitworker/helpers"
	"bflibrary/unitworker/internal/scraper"
	"bflibrary/unitworker/logger"
	errs "bflibrary/unitworker/pkg/errors"
)

const (
	recordFileName = "data.json"
	assetsDirName  = "assets"
)

// Store persists unit records and their assets
type Store interface {
	// Exists reports whether the entry already has a stored record
	Exists(unitID string) bool

	// Save downloads the record's assets and writes the record file
	Save(ctx context.Context, record *scraper.UnitRecord) error
}

// FileStore writes one directory per unit under a root directory:
//
//	<root>/<id>/data.json
//	<root>/<id>/assets/<filename>
//
// The record file is written last so that its presence marks a fully
// materialized entry; Exists checks only for the record file.
type FileStore struct {
	root string
	log  *logger.Logger

	// fetchAsset is swapped in tests to avoid real HTTP requests
	fetchAsset func(ctx context.Context, assetURL string) ([]byte, error)
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at the given directory. Missing
// directories are created on save.
func NewFileStore(root string) *FileStore {
	return &FileStore{
		root:       root,
		log:        logger.ForStorage(),
		fetchAsset: helpers.FetchImage,
	}
}

// Exists reports whether the record file for the unit is present
func (s *FileStore) Exists(unitID string) bool {
	_, err := os.Stat(filepath.Join(s.root, unitID, recordFileName))
	return err == nil
}

// Save materializes the record on disk. Assets are downloaded before
// the record file is written, so a failed download leaves no record
// file and the entry is retried on the next run.
func (s *FileStore) Save(ctx context.Context, record *scraper.UnitRecord) error {
	entryDir := filepath.Join(s.root, record.ID)
	assetsDir := filepath.Join(entryDir, assetsDirName)
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return errs.NewStorage(record.ID, "failed to create entry directory", err)
	}

	for _, assetURL := range record.AssetURLs() {
		if err := s.saveAsset(ctx, record.ID, assetsDir, assetURL); err != nil {
			return err
		}
	}

	if err := s.writeRecord(entryDir, record); err != nil {
		return err
	}

	s.log.Debug().Str("id", record.ID).Msg("Record written")
	return nil
}

// saveAsset downloads one asset into the assets directory, named after
// the final path segment of its URL. Duplicate filenames within an
// entry silently overwrite.
func (s *FileStore) saveAsset(ctx context.Context, unitID, assetsDir, assetURL string) error {
	name := helpers.FileNameFromURL(assetURL)
	if name == "" {
		return errs.NewParse(unitID, fmt.Sprintf("asset URL %q has no file name", assetURL), nil)
	}

	body, err := s.fetchAsset(ctx, assetURL)
	if err != nil {
		return errs.NewFetch(unitID, fmt.Sprintf("failed to download asset %s", name), err)
	}
	if err := os.WriteFile(filepath.Join(assetsDir, name), body, 0o644); err != nil {
		return errs.NewStorage(unitID, fmt.Sprintf("failed to write asset %s", name), err)
	}

	s.log.Debug().Str("id", unitID).Str("asset", name).Msg("Asset downloaded")
	return nil
}

// writeRecord writes data.json. Keys keep their declaration order and
// non ASCII text is stored unescaped.
func (s *FileStore) writeRecord(entryDir string, record *scraper.UnitRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record); err != nil {
		return errs.NewStorage(record.ID, "failed to encode record", err)
	}

	if err := os.WriteFile(filepath.Join(entryDir, recordFileName), buf.Bytes(), 0o644); err != nil {
		return errs.NewStorage(record.ID, "failed to write record file", err)
	}
	return nil
}
