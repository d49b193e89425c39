// Package titles stores display titles for gallery images in a BoltDB file.
// Images without a stored title are shown under their file name.
package titles

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	bolt "go.etcd.io/bbolt"
)

const (
	dbFileName   = "lensgallery_titles.db"
	appName      = "lensgallery"
	TitlesBucket = "Titles" // image display path -> title
)

// ErrNotFound is returned when an image has no stored title.
var ErrNotFound = errors.New("title not found")

// Entry is one stored title.
type Entry struct {
	Path  string
	Title string
}

// TitleDB manages the title database.
type TitleDB struct {
	db     *bolt.DB
	logger *slog.Logger
}

// NewTitleDB creates or opens the title database file inside dbDir.
// An empty dbDir selects the user config directory, or the current directory
// when that cannot be determined.
func NewTitleDB(dbDir string, logger *slog.Logger) (*TitleDB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dbDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logger.Warn("Could not get user config dir, using current dir", "err", err)
			dbDir = "."
		} else {
			dbDir = filepath.Join(configDir, appName)
		}
	}
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	dbPath := filepath.Join(dbDir, dbFileName)
	logger.Info("Using title database", "path", dbPath)

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open title database %s: %w", dbPath, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(TitlesBucket)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", TitlesBucket, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TitleDB{db: db, logger: logger}, nil
}

// Close closes the database.
func (tdb *TitleDB) Close() error {
	if tdb.db != nil {
		return tdb.db.Close()
	}
	return nil
}

// SetTitle stores the title for an image path, replacing any previous one.
func (tdb *TitleDB) SetTitle(imagePath, title string) error {
	title = strings.TrimSpace(title)
	if imagePath == "" || title == "" {
		return fmt.Errorf("image path and title cannot be empty")
	}
	return tdb.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(TitlesBucket)).Put([]byte(imagePath), []byte(title)); err != nil {
			return fmt.Errorf("failed to store title for '%s': %w", imagePath, err)
		}
		return nil
	})
}

// Title returns the stored title for an image path. ok is false when none is stored.
func (tdb *TitleDB) Title(imagePath string) (title string, ok bool, err error) {
	err = tdb.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(TitlesBucket)).Get([]byte(imagePath))
		if v != nil {
			title, ok = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read title for '%s': %w", imagePath, err)
	}
	return title, ok, nil
}

// RemoveTitle deletes the stored title for an image path.
// It returns ErrNotFound when there was nothing to delete.
func (tdb *TitleDB) RemoveTitle(imagePath string) error {
	if imagePath == "" {
		return fmt.Errorf("image path cannot be empty")
	}
	return tdb.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(TitlesBucket))
		if b.Get([]byte(imagePath)) == nil {
			return ErrNotFound
		}
		if err := b.Delete([]byte(imagePath)); err != nil {
			return fmt.Errorf("failed to delete title for '%s': %w", imagePath, err)
		}
		return nil
	})
}

// AllTitles returns every stored title sorted by path.
func (tdb *TitleDB) AllTitles() ([]Entry, error) {
	var entries []Entry
	err := tdb.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(TitlesBucket)).ForEach(func(k, v []byte) error {
			entries = append(entries, Entry{Path: string(k), Title: string(v)})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Prune removes titles whose path is not accepted by keep and returns how many were removed.
func (tdb *TitleDB) Prune(keep func(imagePath string) bool) (int, error) {
	removed := 0
	err := tdb.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(TitlesBucket))
		var stale [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			if !keep(string(k)) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("failed to delete stale title '%s': %w", string(k), err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		tdb.logger.Info("Pruned stale titles", "count", removed)
	}
	return removed, nil
}
