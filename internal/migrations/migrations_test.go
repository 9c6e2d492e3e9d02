package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	version, ok := parseVersion("V1__init.sql")
	assert.True(t, ok)
	assert.Equal(t, 1, version)

	version, ok = parseVersion("V12__add_indexes.sql")
	assert.True(t, ok)
	assert.Equal(t, 12, version)

	_, ok = parseVersion("init.sql")
	assert.False(t, ok)
	_, ok = parseVersion("V__missing_number.sql")
	assert.False(t, ok)
	_, ok = parseVersion("Vx__bad.sql")
	assert.False(t, ok)
}

func TestListMigrationsOrdersByVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"V10__later.sql", "V2__second.sql", "V1__first.sql", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644))
	}

	migs, err := listMigrations(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(migs))
	for _, mig := range migs {
		names = append(names, mig.Name)
	}
	assert.Equal(t, []string{"V1__first.sql", "V2__second.sql", "V10__later.sql"}, names)
}
