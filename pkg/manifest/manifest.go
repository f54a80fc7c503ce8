// Package manifest indexes the reconciled CSV exports so a static page can
// list them without a directory listing.
package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
	"github.com/agentstation/exseq/pkg/table"
)

// Entry is one CSV file in the manifest. Path is slash separated and
// relative to the site root so the browser can fetch it as-is.
type Entry struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
}

// DisplayName derives the human-readable name from a CSV file name.
func DisplayName(file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if name, ok := strings.CutSuffix(stem, constants.WithCellTypesSuffix); ok {
		return name
	}
	if name, ok := strings.CutSuffix(stem, constants.RegionsGenesSuffix); ok {
		return name
	}
	return stem
}

// Build lists the *.csv files directly inside dir, sorted by file name.
// The returned paths keep dir as their prefix.
func Build(dir string) ([]Entry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("csv directory", dir, err)
		}
		return nil, errors.WrapIO("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("dir", dir, "not a directory")
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("list", dir, err)
	}

	var files []string
	for _, de := range dirEntries {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), constants.CSVExt) {
			continue
		}
		files = append(files, de.Name())
	}
	sort.Strings(files)

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, Entry{
			Path: path.Join(filepath.ToSlash(dir), f),
			Name: DisplayName(f),
		})
	}
	return entries, nil
}

// Encode renders entries as the manifest JSON document.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Write builds the manifest for dir and stores it as dir/manifest.json.
// A missing directory is logged and reported as a NotFoundError without
// writing anything.
func Write(ctx context.Context, dir string) ([]Entry, error) {
	log := logging.FromContext(ctx)

	entries, err := Build(dir)
	if err != nil {
		if errors.IsNotFound(err) {
			log.Warn().Str("dir", dir).Msg("CSV directory not found")
		}
		return nil, err
	}
	if len(entries) == 0 {
		log.Warn().Str("dir", dir).Msg("No CSV files found")
	}

	data, err := Encode(entries)
	if err != nil {
		return nil, errors.WrapParse("json", constants.ManifestFile, err)
	}

	out := filepath.Join(dir, constants.ManifestFile)
	if err := table.WriteAtomic(out, data); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", out).
		Int("files", len(entries)).
		Msg("Wrote manifest")
	for _, e := range entries {
		log.Debug().Str("file", e.Path).Str("name", e.Name).Msg("Manifest entry")
	}
	return entries, nil
}
