package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

func TestSources(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"SELECT",
		"    id,",
		"    region",
		"FROM raw.orders",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)

	assert.Equal(t, core.KindSource, sources[0].Kind)
	assert.Equal(t, "raw.orders", sources[0].Name)
	assert.Equal(t, 3, sources[0].Index)
	assert.Equal(t, []string{"id", "region"}, sources[0].Columns)
}

func TestSources_ExcludesTargetLines(t *testing.T) {
	a := newTestAnalyzer(t, true)

	target := &core.Entity{Kind: core.KindTarget, Name: "stage.fact_orders"}
	lines := []string{
		"INSERT OVERWRITE TABLE stage.fact_orders",
		"SELECT",
		"    id",
		"FROM raw.orders",
	}

	sources, err := a.Sources(lines, target)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "raw.orders", sources[0].Name)
}

func TestSources_WithoutTargetEveryMatchCounts(t *testing.T) {
	a := newTestAnalyzer(t, false)

	lines := []string{
		"INSERT OVERWRITE TABLE stage.fact_orders",
		"SELECT id",
		"FROM raw.orders",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "stage.fact_orders", sources[0].Name)
	assert.Equal(t, "raw.orders", sources[1].Name)
}

func TestSources_OrderOfAppearance(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"SELECT id, name",
		"FROM raw.orders",
		"JOIN raw.customers ON id = cid",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "raw.orders", sources[0].Name)
	assert.Equal(t, 1, sources[0].Index)
	assert.Equal(t, "raw.customers", sources[1].Name)
	assert.Equal(t, 2, sources[1].Index)
}

func TestSources_DuplicateReadsKept(t *testing.T) {
	a := newTestAnalyzer(t, false)

	// The same table read twice stays two entities; labels collapse
	// later at the graph.
	lines := []string{
		"SELECT a FROM raw.orders",
		"UNION ALL",
		"SELECT b FROM raw.orders",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "raw.orders", sources[0].Name)
	assert.Equal(t, "raw.orders", sources[1].Name)
}

func TestSources_UnqualifiedNamesIgnored(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// CTE references carry no schema qualifier and never match.
	lines := []string{
		"SELECT id",
		"FROM order_base",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSources_CustomPattern(t *testing.T) {
	a, err := New(Config{TablePattern: `ocean_fs_prod\.\S+`, DisplayColumns: false})
	require.NoError(t, err)

	lines := []string{
		"SELECT id",
		"FROM ocean_fs_prod.outages",
		"JOIN warehouse.lookup ON 1=1",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "ocean_fs_prod.outages", sources[0].Name)
}

func TestSources_Malformed(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// A match with no SELECT above it cannot span columns.
	lines := []string{
		"FROM raw.orders",
	}

	_, err := a.Sources(lines, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSources_MalformedIgnoredWhenColumnsOff(t *testing.T) {
	a := newTestAnalyzer(t, false)

	lines := []string{
		"FROM raw.orders",
	}

	sources, err := a.Sources(lines, nil)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "raw.orders", sources[0].Name)
}
