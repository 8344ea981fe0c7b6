package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lox/fairjack/internal/fileutil"
)

const fileExt = ".json"

// File stores one JSON document per game in a directory. Writes are atomic.
type File struct {
	dir string
}

// NewFile creates the directory if needed and returns a store rooted there
func NewFile(dir string) (*File, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("store: empty file store directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(gameID string) (string, error) {
	if gameID == "" || gameID != filepath.Base(gameID) || strings.HasPrefix(gameID, ".") {
		return "", fmt.Errorf("store: invalid game id %q", gameID)
	}
	return filepath.Join(f.dir, gameID+fileExt), nil
}

func (f *File) Put(_ context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	path, err := f.path(entry.GameID())
	if err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(path, entry, 0o644); err != nil {
		return fmt.Errorf("store: put %s: %w", entry.GameID(), err)
	}
	return nil
}

func (f *File) Get(_ context.Context, gameID string) (Entry, error) {
	path, err := f.path(gameID)
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := fileutil.ReadJSON(path, &entry); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("store: get %s: %w", gameID, err)
	}
	return entry, nil
}

func (f *File) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", f.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	slices.Sort(ids)
	return ids, nil
}

func (f *File) Close() error { return nil }
