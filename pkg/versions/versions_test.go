package versions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	l := NewLedger(t.TempDir())

	rec, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, rec.FlashPlayer)
	assert.Empty(t, rec.Ruffle)
	assert.NotNil(t, rec.Games)
}

func TestReadModifyWrite(t *testing.T) {
	l := NewLedger(t.TempDir())

	require.NoError(t, l.SetFlashPlayer("32.0.0.465"))
	require.NoError(t, l.SetRuffle("nightly-2026-02-09"))
	require.NoError(t, l.SetGame("PTD1", "1756500000"))
	require.NoError(t, l.SetGame("PTD2", "1756500060"))

	rec, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "32.0.0.465", rec.FlashPlayer)
	assert.Equal(t, "nightly-2026-02-09", rec.Ruffle)
	assert.Equal(t, "1756500000", rec.Games["PTD1"])
	assert.Equal(t, "1756500060", rec.Games["PTD2"])
}

func TestUpdateKeepsUnrelatedFields(t *testing.T) {
	l := NewLedger(t.TempDir())

	require.NoError(t, l.SetFlashPlayer("32.0.0.465"))
	require.NoError(t, l.SetRuffle("fallback"))

	rec, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "32.0.0.465", rec.FlashPlayer)
	assert.Equal(t, "fallback", rec.Ruffle)
}

func TestCorruptLedgerIsReset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.json"), []byte("??"), 0644))

	l := NewLedger(dir)
	_, err := l.Load()
	assert.Error(t, err)

	// recording over a corrupt ledger still works
	require.NoError(t, l.SetRuffle("fallback"))
	rec, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback", rec.Ruffle)
}
