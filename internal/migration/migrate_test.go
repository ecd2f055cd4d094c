package migration

import (
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}
	require.Equal(t, ups, downs)
}

func TestSourceWalksVersions(t *testing.T) {
	src, err := Source()
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	first, err := src.First()
	require.NoError(t, err)
	require.Equal(t, uint(1), first)

	r, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	_ = r.Close()
	require.Equal(t, "create_medicines", ident)
	require.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS medicines")

	next, err := src.Next(first)
	require.NoError(t, err)
	require.Equal(t, uint(2), next)

	_, err = src.Next(next)
	require.ErrorIs(t, err, os.ErrNotExist)
}
