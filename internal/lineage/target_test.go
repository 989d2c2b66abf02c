package lineage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltrail/pkg/core"
)

func TestTarget_NameOnSameLine(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"INSERT OVERWRITE TABLE stage.fact_orders",
		"SELECT",
		"    id,",
		"    region",
		"FROM raw.orders",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	require.NotNil(t, target)

	assert.Equal(t, core.KindTarget, target.Kind)
	assert.Equal(t, "stage.fact_orders", target.Name)
	assert.Equal(t, 4, target.Index)
	assert.Equal(t, []string{"id", "region"}, target.Columns)
}

func TestTarget_NameOnNextLine(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"INSERT OVERWRITE",
		"    stage.daily_summary",
		"SELECT total",
		"FROM raw.metrics",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	require.NotNil(t, target)

	assert.Equal(t, "stage.daily_summary", target.Name)
	assert.Equal(t, []string{"total"}, target.Columns)
}

func TestTarget_AnchorIsLastFrom(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// Two FROM lines: the column anchor is the last one.
	lines := []string{
		"INSERT OVERWRITE TABLE stage.combined",
		"WITH base AS (",
		"    SELECT id",
		"    FROM raw.orders",
		")",
		"SELECT",
		"    id,",
		"    region",
		"FROM base",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	require.NotNil(t, target)

	assert.Equal(t, 8, target.Index)
	assert.Equal(t, []string{"id", "region"}, target.Columns)
}

func TestTarget_FirstInsertOverwriteWins(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"INSERT OVERWRITE TABLE stage.first",
		"SELECT a",
		"FROM raw.t1",
		"INSERT OVERWRITE TABLE stage.second",
		"SELECT b",
		"FROM raw.t2",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	require.NotNil(t, target)

	assert.Equal(t, "stage.first", target.Name)
	// The anchor still comes from the statement's last FROM.
	assert.Equal(t, 5, target.Index)
	assert.Equal(t, []string{"b"}, target.Columns)
}

func TestTarget_ReadOnlyStatement(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"SELECT id",
		"FROM raw.orders",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestTarget_InsertWithoutFrom(t *testing.T) {
	a := newTestAnalyzer(t, true)

	lines := []string{
		"INSERT OVERWRITE TABLE stage.t",
		"VALUES (1, 2)",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestTarget_CaseSensitiveMarker(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// The write marker is matched verbatim, lowercase does not count.
	lines := []string{
		"insert overwrite table stage.t",
		"SELECT id",
		"FROM raw.orders",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestTarget_ColumnsOff(t *testing.T) {
	a := newTestAnalyzer(t, false)

	lines := []string{
		"INSERT OVERWRITE TABLE stage.fact_orders",
		"SELECT id",
		"FROM raw.orders",
	}

	target, err := a.Target(lines)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Empty(t, target.Columns)
}

func TestTarget_Malformed(t *testing.T) {
	a := newTestAnalyzer(t, true)

	// A FROM with no SELECT anywhere above cannot span columns.
	lines := []string{
		"INSERT OVERWRITE TABLE stage.t",
		"FROM raw.x",
	}

	_, err := a.Target(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
}
