package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Catalog file names, one JSON array per collection.
const (
	BusinessesFile = "businesses.json"
	GrantsFile     = "grants.json"
	ThreadsFile    = "threads.json"
	RepliesFile    = "replies.json"
	MatchesFile    = "matches.json"
	JobsFile       = "jobs.json"
	TalentsFile    = "talents.json"
)

// Sources a catalog can be loaded from.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

var (
	ErrUnknownSource = errors.New("unknown catalog source")
	ErrMissingFile   = errors.New("required catalog file missing")
)

//go:embed data/*.json
var embeddedData embed.FS

// ReadFunc returns the content of one catalog file.
// It returns an error wrapping fs.ErrNotExist when the file is absent.
type ReadFunc func(name string) ([]byte, error)

// Files lists every catalog file name.
func Files() []string {
	return []string{
		BusinessesFile,
		GrantsFile,
		ThreadsFile,
		RepliesFile,
		MatchesFile,
		JobsFile,
		TalentsFile,
	}
}

// Parse reads every catalog file through read and builds a snapshot.
// Businesses and grants are required; the other collections default to empty.
func Parse(read ReadFunc) (*Snapshot, error) {
	var data Data

	if err := decode(read, BusinessesFile, true, &data.Businesses); err != nil {
		return nil, err
	}
	if err := decode(read, GrantsFile, true, &data.Grants); err != nil {
		return nil, err
	}
	if err := decode(read, ThreadsFile, false, &data.Threads); err != nil {
		return nil, err
	}
	if err := decode(read, RepliesFile, false, &data.Replies); err != nil {
		return nil, err
	}
	if err := decode(read, MatchesFile, false, &data.Matches); err != nil {
		return nil, err
	}
	if err := decode(read, JobsFile, false, &data.Jobs); err != nil {
		return nil, err
	}
	if err := decode(read, TalentsFile, false, &data.Talents); err != nil {
		return nil, err
	}

	return New(data)
}

func decode(read ReadFunc, name string, required bool, v interface{}) error {
	content, err := read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return fmt.Errorf("%s: %w", name, ErrMissingFile)
			}
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// LoadFS loads a catalog from the root of fsys.
func LoadFS(fsys fs.FS) (*Snapshot, error) {
	return Parse(func(name string) ([]byte, error) {
		return fs.ReadFile(fsys, name)
	})
}

// LoadDir loads a catalog from a directory on disk.
func LoadDir(dir string) (*Snapshot, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadEmbedded loads the demo catalog compiled into the binary.
func LoadEmbedded() (*Snapshot, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// Marshal encodes each collection of the snapshot as an indented JSON array, keyed by file name.
func Marshal(data Data) (map[string][]byte, error) {
	collections := map[string]interface{}{
		BusinessesFile: nonNil(data.Businesses),
		GrantsFile:     nonNil(data.Grants),
		ThreadsFile:    nonNil(data.Threads),
		RepliesFile:    nonNil(data.Replies),
		MatchesFile:    nonNil(data.Matches),
		JobsFile:       nonNil(data.Jobs),
		TalentsFile:    nonNil(data.Talents),
	}

	files := make(map[string][]byte, len(collections))
	for name, v := range collections {
		content, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		files[name] = content
	}
	return files, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
