package engine

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltrail/internal/testutil"
	"github.com/leapstack-labs/sqltrail/pkg/core"
)

func entity(kind core.EntityKind, name string, columns ...string) core.Entity {
	return core.Entity{Kind: kind, Name: name, Columns: columns}
}

func TestBuildGraph_TargetWithCTE(t *testing.T) {
	e := newTestEngine(t, Config{})
	target := entity(core.KindTarget, "stage.t")
	analysis := core.Analysis{
		Sources: []core.Entity{
			entity(core.KindSource, "raw.a"),
			entity(core.KindSource, "raw.b"),
		},
		CTEs:   []core.Entity{entity(core.KindCTE, "base")},
		Target: &target,
	}

	g := e.buildGraph(analysis)

	assert.Equal(t, []string{"stage.t", "base", "raw.a", "raw.b"}, g.Nodes())
	assert.Equal(t, [][2]string{
		{"base", "stage.t"},
		{"raw.a", "base"},
		{"raw.b", "base"},
	}, g.Edges())
}

func TestBuildGraph_TargetOnly(t *testing.T) {
	e := newTestEngine(t, Config{})
	target := entity(core.KindTarget, "stage.t")
	analysis := core.Analysis{
		Sources: []core.Entity{
			entity(core.KindSource, "raw.a"),
			entity(core.KindSource, "raw.b"),
		},
		Target: &target,
	}

	g := e.buildGraph(analysis)

	assert.Equal(t, []string{"stage.t", "raw.a", "raw.b"}, g.Nodes())
	assert.Equal(t, [][2]string{
		{"raw.a", "stage.t"},
		{"raw.b", "stage.t"},
	}, g.Edges())
}

func TestBuildGraph_LastCTEWins(t *testing.T) {
	e := newTestEngine(t, Config{})
	target := entity(core.KindTarget, "stage.t")
	analysis := core.Analysis{
		CTEs: []core.Entity{
			entity(core.KindCTE, "first"),
			entity(core.KindCTE, "second"),
		},
		Target: &target,
	}

	g := e.buildGraph(analysis)

	assert.False(t, g.HasNode("first"))
	assert.Equal(t, []string{"stage.t", "second"}, g.Nodes())
	assert.Equal(t, [][2]string{{"second", "stage.t"}}, g.Edges())
}

func TestBuildGraph_NoTargetDisconnected(t *testing.T) {
	e := newTestEngine(t, Config{})
	analysis := core.Analysis{
		Sources: []core.Entity{entity(core.KindSource, "raw.a")},
		CTEs:    []core.Entity{entity(core.KindCTE, "base")},
	}

	g := e.buildGraph(analysis)

	assert.Equal(t, []string{"base", "raw.a"}, g.Nodes())
	assert.Zero(t, g.EdgeCount())
}

func TestBuildGraph_Empty(t *testing.T) {
	e := newTestEngine(t, Config{})

	g := e.buildGraph(core.Analysis{})

	assert.Zero(t, g.NodeCount())
	assert.Empty(t, g.Tiers())
}

func TestBuildGraph_DuplicateLabelWarns(t *testing.T) {
	logger, capture := testutil.NewCaptureLogger()
	e := newTestEngine(t, Config{Logger: logger})
	target := entity(core.KindTarget, "stage.t")
	analysis := core.Analysis{
		Sources: []core.Entity{
			entity(core.KindSource, "raw.a"),
			entity(core.KindSource, "raw.a"),
		},
		Target: &target,
	}

	g := e.buildGraph(analysis)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.True(t, capture.Has(slog.LevelWarn, "duplicate label in diagram"))
}

func TestBuildGraph_ColumnLabels(t *testing.T) {
	e := newTestEngine(t, Config{DisplayColumns: true})
	target := entity(core.KindTarget, "stage.t", "id", "name")
	analysis := core.Analysis{
		Sources: []core.Entity{entity(core.KindSource, "raw.a", "id")},
		Target:  &target,
	}

	g := e.buildGraph(analysis)

	assert.True(t, g.HasNode("stage.t:\n\nid\nname"))
	assert.True(t, g.HasNode("raw.a:\n\nid"))
}

func TestBuildGraph_RecordsKinds(t *testing.T) {
	e := newTestEngine(t, Config{})
	target := entity(core.KindTarget, "stage.t")
	analysis := core.Analysis{
		Sources: []core.Entity{entity(core.KindSource, "raw.a")},
		CTEs:    []core.Entity{entity(core.KindCTE, "base")},
		Target:  &target,
	}

	g := e.buildGraph(analysis)

	want := map[string]core.EntityKind{
		"stage.t": core.KindTarget,
		"base":    core.KindCTE,
		"raw.a":   core.KindSource,
	}
	for label, kind := range want {
		node, ok := g.GetNode(label)
		require.True(t, ok, "node %q missing", label)
		assert.Equal(t, kind, node.Data)
	}
}

func TestMergeGraphs(t *testing.T) {
	e := newTestEngine(t, Config{})

	mid := entity(core.KindTarget, "stage.mid")
	first := core.Analysis{
		Sources: []core.Entity{entity(core.KindSource, "raw.a")},
		Target:  &mid,
	}
	final := entity(core.KindTarget, "stage.final")
	second := core.Analysis{
		Sources: []core.Entity{entity(core.KindSource, "stage.mid")},
		Target:  &final,
	}

	merged := MergeGraphs([]StatementTrace{
		{Graph: e.buildGraph(first)},
		{Graph: e.buildGraph(second)},
	})

	assert.Equal(t, []string{"stage.mid", "raw.a", "stage.final"}, merged.Nodes())
	assert.Equal(t, [][2]string{
		{"stage.mid", "stage.final"},
		{"raw.a", "stage.mid"},
	}, merged.Edges())

	// stage.mid is written by one statement and read by the next; the
	// latest statement's use decides the recorded kind.
	node, ok := merged.GetNode("stage.mid")
	require.True(t, ok)
	assert.Equal(t, core.KindSource, node.Data)
}

func TestMergeGraphs_Empty(t *testing.T) {
	merged := MergeGraphs(nil)
	assert.Zero(t, merged.NodeCount())
}
