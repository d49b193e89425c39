package titles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *TitleDB {
	t.Helper()
	tdb, err := NewTitleDB(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { tdb.Close() })
	return tdb
}

func TestSetAndGetTitle(t *testing.T) {
	tdb := openTestDB(t)

	_, ok, err := tdb.Title("/Gallery/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tdb.SetTitle("/Gallery/a.jpg", "  Harbour at dusk "))
	title, ok, err := tdb.Title("/Gallery/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Harbour at dusk", title)

	require.NoError(t, tdb.SetTitle("/Gallery/a.jpg", "Renamed"))
	title, _, _ = tdb.Title("/Gallery/a.jpg")
	assert.Equal(t, "Renamed", title)
}

func TestSetTitleValidation(t *testing.T) {
	tdb := openTestDB(t)
	assert.Error(t, tdb.SetTitle("", "x"))
	assert.Error(t, tdb.SetTitle("/Gallery/a.jpg", "   "))
}

func TestRemoveTitle(t *testing.T) {
	tdb := openTestDB(t)
	require.NoError(t, tdb.SetTitle("/g/a.jpg", "A"))

	require.NoError(t, tdb.RemoveTitle("/g/a.jpg"))
	assert.ErrorIs(t, tdb.RemoveTitle("/g/a.jpg"), ErrNotFound)
	assert.Error(t, tdb.RemoveTitle(""))
}

func TestAllTitlesAndPrune(t *testing.T) {
	tdb := openTestDB(t)
	require.NoError(t, tdb.SetTitle("/g/c.jpg", "C"))
	require.NoError(t, tdb.SetTitle("/g/a.jpg", "A"))
	require.NoError(t, tdb.SetTitle("/g/b.jpg", "B"))

	all, err := tdb.AllTitles()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{"/g/a.jpg", "A"}, {"/g/b.jpg", "B"}, {"/g/c.jpg", "C"}}, all)

	removed, err := tdb.Prune(func(p string) bool { return p != "/g/b.jpg" })
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	all, err = tdb.AllTitles()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReopenKeepsTitles(t *testing.T) {
	dir := t.TempDir()
	tdb, err := NewTitleDB(dir, nil)
	require.NoError(t, err)
	require.NoError(t, tdb.SetTitle("/g/a.jpg", "Kept"))
	require.NoError(t, tdb.Close())

	tdb, err = NewTitleDB(dir, nil)
	require.NoError(t, err)
	defer tdb.Close()
	title, ok, err := tdb.Title("/g/a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Kept", title)
}
