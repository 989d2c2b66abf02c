package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqltrail/internal/cli/config"
	"github.com/leapstack-labs/sqltrail/internal/cli/output"
	"github.com/leapstack-labs/sqltrail/internal/cli/testutil"
)

const rootScript = `INSERT OVERWRITE TABLE ocean_fs_prod.target_daily
WITH cte1 AS (
    SELECT id
    FROM ocean_fs_prod.events
)
SELECT id
FROM cte1
`

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "sqltrail", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"config", "output", "verbose", "no-color", "columns", "pattern"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"trace", "graph", "tables", "runs", "version", "completion"} {
		assert.Contains(t, names, want, "subcommand %q should be registered", want)
	}
}

func TestRootVersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "sqltrail "+Version+"\n", buf.String())
}

func TestRootRunsTraceEndToEnd(t *testing.T) {
	defer config.ResetConfig()
	tmp := t.TempDir()
	t.Chdir(tmp)

	path := testutil.WriteScript(t, tmp, "load_target.sql", rootScript)

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"trace", path, "-o", "json"})

	require.NoError(t, cmd.Execute(), "stderr: %s", errOut.String())

	var doc output.TraceOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, path, doc.Source)
	require.Len(t, doc.Statements, 1)
	assert.Equal(t, "ocean_fs_prod.target_daily", doc.Statements[0].Target)

	require.NotNil(t, doc.Run)
	assert.Equal(t, "success", doc.Run.Status)
}

func TestGetConfigFallback(t *testing.T) {
	got := GetConfig(context.Background())
	require.NotNil(t, got)
	assert.True(t, got.Columns)
	assert.Equal(t, config.DefaultStateFile, got.StatePath)
}

func TestGetRendererFallback(t *testing.T) {
	r := GetRenderer(context.Background())
	require.NotNil(t, r)
}
