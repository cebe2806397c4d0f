package archive_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/covidwaw/internal/archive"
	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
)

var (
	csvDay = time.Date(2021, time.March, 2, 0, 0, 0, 0, time.UTC)
	pdfDay = time.Date(2020, time.May, 4, 0, 0, 0, 0, time.UTC)
)

func newStore(t *testing.T) (*archive.Store, string) {
	t.Helper()

	dir := t.TempDir()
	store, err := archive.New(dir)
	require.NoError(t, err)

	return store, dir
}

func TestStore_WriteAndOpen(t *testing.T) {
	store, dir := newStore(t)

	assert.False(t, store.Has(csvDay, covid.RegimeArcGIS))
	require.NoError(t, store.Write(csvDay, covid.RegimeArcGIS, []byte("powiat;zgony\n")))
	assert.True(t, store.Has(csvDay, covid.RegimeArcGIS))
	assert.Equal(t, filepath.Join(dir, "2021-03-02.csv"), store.Path(csvDay, covid.RegimeArcGIS))

	r, err := store.Open(csvDay, covid.RegimeArcGIS)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "powiat;zgony\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestStore_Open_NotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Open(csvDay, covid.RegimeMinistry)
	require.ErrorIs(t, err, archive.ErrNotFound)

	_, err = store.Open(pdfDay, covid.RegimeBulletin)
	require.ErrorIs(t, err, archive.ErrNotFound)
}

func TestStore_Open_BulletinUsesTextCache(t *testing.T) {
	store, dir := newStore(t)

	require.NoError(t, store.Write(pdfDay, covid.RegimeBulletin, []byte("not really a pdf")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cache", "2020-05-04.pdf.txt"), []byte("wynikiem dodatnim: 5"), 0o644))

	r, err := store.Open(pdfDay, covid.RegimeBulletin)
	require.NoError(t, err)
	defer r.Close()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "wynikiem dodatnim: 5", string(got))
}

func TestStore_Blackout(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Open(csvDay, covid.RegimeBlackout)
	require.Error(t, err)
	require.Error(t, store.Write(csvDay, covid.RegimeBlackout, []byte("x")))
}
