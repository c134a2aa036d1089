package generated

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueriesHaveSqlcSources(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "queries", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	var sources strings.Builder
	for _, f := range files {
		b, err := os.ReadFile(f)
		require.NoError(t, err)
		sources.Write(b)
	}

	qt := reflect.TypeOf(&Queries{})
	for i := 0; i < qt.NumMethod(); i++ {
		name := qt.Method(i).Name
		if name == "WithTx" {
			continue
		}
		assert.Contains(t, sources.String(), "-- name: "+name+" :", "query %s has no source", name)
	}
}
