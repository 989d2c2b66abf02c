package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

func newTestAnalyzer(t *testing.T, displayColumns bool) *Analyzer {
	t.Helper()

	a, err := New(Config{DisplayColumns: displayColumns})
	require.NoError(t, err)
	return a
}

func TestCTEs_NoWithReturnsNil(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"SELECT id",
		"FROM raw.orders",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	// nil is the no-WITH sentinel, distinct from an empty clause.
	assert.Nil(t, ctes)
}

func TestCTEs_WithButNoDefinitions(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"-- WITH is mentioned, nothing is defined",
		"SELECT id FROM raw.orders",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	assert.NotNil(t, ctes)
	assert.Empty(t, ctes)
}

func TestCTEs_SingleDefinition(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"WITH order_base AS (",
		"    SELECT",
		"        id,",
		"        region",
		"    FROM raw.orders",
		")",
		"SELECT id, region",
		"FROM order_base",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	require.Len(t, ctes, 1)

	assert.Equal(t, core.KindCTE, ctes[0].Kind)
	assert.Equal(t, "order_base", ctes[0].Name)
	assert.Equal(t, 0, ctes[0].Index)
	assert.Equal(t, []string{"id", "region"}, ctes[0].Columns)
}

func TestCTEs_MultipleDefinitionsInOrder(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"WITH order_base AS (",
		"    SELECT id, region",
		"    FROM raw.orders",
		"),",
		"customer_base AS (",
		"    SELECT cid, name",
		"    FROM raw.customers",
		")",
		"SELECT id, name",
		"FROM order_base",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	require.Len(t, ctes, 2)

	assert.Equal(t, "order_base", ctes[0].Name)
	assert.Equal(t, 0, ctes[0].Index)
	assert.Equal(t, []string{"id", "region"}, ctes[0].Columns)

	assert.Equal(t, "customer_base", ctes[1].Name)
	assert.Equal(t, 4, ctes[1].Index)
	assert.Equal(t, []string{"cid", "name"}, ctes[1].Columns)
}

func TestCTEs_ColumnsOff(t *testing.T) {
	a := newTestAnalyzer(t, false)

	lines := []string{
		"WITH order_base AS (",
		"    SELECT id",
		"    FROM raw.orders",
		")",
		"SELECT id FROM order_base",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	require.Len(t, ctes, 1)
	assert.Empty(t, ctes[0].Columns)
}

func TestCTEs_MalformedDefinition(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// The definition never reaches a FROM, so the column span cannot close.
	lines := []string{
		"WITH broken AS (",
		"    SELECT id",
		")",
	}

	_, err := a.CTEs(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCTEs_MalformedIgnoredWhenColumnsOff(t *testing.T) {
	a := newTestAnalyzer(t, false)

	lines := []string{
		"WITH broken AS (",
		"    SELECT id",
		")",
	}

	ctes, err := a.CTEs(lines)
	require.NoError(t, err)
	require.Len(t, ctes, 1)
	assert.Equal(t, "broken", ctes[0].Name)
}
