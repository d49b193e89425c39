package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lensgallery/internal/config"
	"lensgallery/internal/titles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTitles is an in-memory TitleStore.
type fakeTitles struct {
	m       map[string]string
	readErr error
}

func newFakeTitles() *fakeTitles { return &fakeTitles{m: map[string]string{}} }

func (f *fakeTitles) SetTitle(p, title string) error { f.m[p] = title; return nil }
func (f *fakeTitles) Title(p string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	v, ok := f.m[p]
	return v, ok, nil
}
func (f *fakeTitles) RemoveTitle(p string) error {
	if _, ok := f.m[p]; !ok {
		return titles.ErrNotFound
	}
	delete(f.m, p)
	return nil
}
func (f *fakeTitles) AllTitles() ([]titles.Entry, error) {
	var out []titles.Entry
	for k, v := range f.m {
		out = append(out, titles.Entry{Path: k, Title: v})
	}
	return out, nil
}
func (f *fakeTitles) Prune(keep func(string) bool) (int, error) {
	n := 0
	for k := range f.m {
		if !keep(k) {
			delete(f.m, k)
			n++
		}
	}
	return n, nil
}
func (f *fakeTitles) Close() error { return nil }

func TestLoadCatalogSources(t *testing.T) {
	s := NewService(nil, nil)

	cat, err := s.LoadCatalog(config.Config{Folder: "/Gallery"})
	require.NoError(t, err)
	assert.Equal(t, 33, cat.Len())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.jpg"), []byte("x"), 0644))
	cat, err = s.LoadCatalog(config.Config{Folder: "/Gallery", Dir: dir})
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, "/Gallery/x.jpg", cat.At(0).Path)

	manifest := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("images:\n  - file: m.jpg\n    title: From manifest\n"), 0644))
	cat, err = s.LoadCatalog(config.Config{Folder: "/Gallery", Dir: dir, Manifest: manifest})
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Equal(t, "From manifest", cat.At(0).Title)

	_, err = s.LoadCatalog(config.Config{Folder: "/Gallery", Manifest: filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadCatalogAppliesTitles(t *testing.T) {
	ft := newFakeTitles()
	ft.m["/Gallery/IMG_0549.jpg"] = "Lakeside"
	s := NewService(ft, nil)

	cat, err := s.LoadCatalog(config.Config{Folder: "/Gallery"})
	require.NoError(t, err)
	img, ok := cat.Lookup("IMG_0549.jpg")
	require.True(t, ok)
	assert.Equal(t, "Lakeside", img.Title)

	ft.readErr = errors.New("db gone")
	cat, err = s.LoadCatalog(config.Config{Folder: "/Gallery"})
	require.NoError(t, err, "title failures are not fatal")
	img, _ = cat.Lookup("IMG_0549.jpg")
	assert.Equal(t, "IMG_0549.jpg", img.Title)
}

func TestTitleOperations(t *testing.T) {
	tdb, err := titles.NewTitleDB(t.TempDir(), nil)
	require.NoError(t, err)
	defer tdb.Close()
	s := NewService(tdb, nil)
	cat := testCatalog(3)

	img, err := s.SetTitle(cat, "photo01.jpg", "Second")
	require.NoError(t, err)
	assert.Equal(t, "/Gallery/photo01.jpg", img.Path)

	_, err = s.SetTitle(cat, "/somewhere/else/photo02.jpg", "Third")
	require.NoError(t, err, "keys resolve by base name as a fallback")

	_, err = s.SetTitle(cat, "nope.jpg", "x")
	assert.ErrorIs(t, err, ErrImageNotInCatalog)

	entries, err := s.ListTitles()
	require.NoError(t, err)
	assert.Equal(t, []titles.Entry{
		{Path: "/Gallery/photo01.jpg", Title: "Second"},
		{Path: "/Gallery/photo02.jpg", Title: "Third"},
	}, entries)

	_, err = s.RemoveTitle(cat, "photo01.jpg")
	require.NoError(t, err)
	_, err = s.RemoveTitle(cat, "photo01.jpg")
	assert.ErrorIs(t, err, titles.ErrNotFound)

	require.NoError(t, tdb.SetTitle("/Gallery/gone.jpg", "Old"))
	n, err := s.PruneTitles(cat)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTitleOperationsWithoutStore(t *testing.T) {
	s := NewService(nil, nil)
	_, err := s.SetTitle(testCatalog(1), "photo00.jpg", "x")
	assert.Error(t, err)
	_, err = s.ListTitles()
	assert.Error(t, err)
}
