package commands

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontierlabs/worldctl/internal/cli/testutil"
	"github.com/frontierlabs/worldctl/internal/materialize"
	"github.com/frontierlabs/worldctl/internal/schema"
)

func TestSchemaList(t *testing.T) {
	root := testutil.SetupTestProject(t)
	loadProject(t, root, "json")

	stdout, _, err := execute(NewSchemaCommand(), "list")
	require.NoError(t, err)

	var got []WorldSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, WorldSummary{Package: "gates", NamespaceEnv: "GATES_NAMESPACE", Tables: 2, Systems: 1}, got[0])
	assert.Equal(t, "ssu", got[1].Package)
	assert.Equal(t, 0, got[1].Tables)
}

func TestSchemaList_Markdown(t *testing.T) {
	root := testutil.SetupTestProject(t)
	loadProject(t, root, "markdown")

	stdout, _, err := execute(NewSchemaCommand(), "list")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	assert.Contains(t, stdout, "# Worlds (2 packages)")
	assert.Contains(t, stdout, "| gates | GATES_NAMESPACE | 2 | 1 |")
}

func TestSchemaShow(t *testing.T) {
	root := testutil.SetupTestProject(t)

	t.Run("markdown", func(t *testing.T) {
		loadProject(t, root, "markdown")
		stdout, _, err := execute(NewSchemaCommand(), "show", "gates")
		require.NoError(t, err)

		assert.Contains(t, stdout, "# World gates")
		assert.Contains(t, stdout, "- **Namespace from**: GATES_NAMESPACE")
		assert.Contains(t, stdout, "## GatesCorpExceptions")
		assert.Contains(t, stdout, "| corpId | uint256 | key |")
		assert.Contains(t, stdout, "| GateAccessSystem | false |")
	})

	t.Run("json", func(t *testing.T) {
		loadProject(t, root, "json")
		stdout, _, err := execute(NewSchemaCommand(), "show", "gates")
		require.NoError(t, err)

		var w schema.World
		require.NoError(t, json.Unmarshal([]byte(stdout), &w))
		require.Len(t, w.Tables, 2)
		assert.Equal(t, "Gates", w.Tables[0].Name)
		assert.Equal(t, []string{"gateId", "corpId"}, w.Tables[1].Key)
	})

	t.Run("unknown package", func(t *testing.T) {
		loadProject(t, root, "text")
		_, _, err := execute(NewSchemaCommand(), "show", "missing")
		assert.Error(t, err)
	})
}

func TestSchemaValidate(t *testing.T) {
	root := testutil.SetupTestProject(t)
	loadProject(t, root, "markdown")

	stdout, _, err := execute(NewSchemaCommand(), "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Validating 2 worlds")
	assert.Contains(t, stdout, "- gates: success")
	assert.Contains(t, stdout, "**OK** All worlds valid")
}

func TestSchemaValidate_Invalid(t *testing.T) {
	root := testutil.SetupTestProject(t)
	testutil.WriteFile(t, filepath.Join(root, "packages", "gates", "world.yaml"), `namespace_env: GATES_NAMESPACE
tables:
  Gates:
    schema:
      gateId: uint256
      note: string
    key: [note, missing]
`)
	loadProject(t, root, "json")

	stdout, _, err := execute(NewSchemaCommand(), "validate")
	require.Error(t, err)

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "gates", verr.Package)

	var reports []ValidationReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 2)
	assert.False(t, reports[0].Valid)
	assert.Len(t, reports[0].Problems, 2)
	assert.True(t, reports[1].Valid)
}

func TestSchemaValidate_Resolve(t *testing.T) {
	root := testutil.SetupTestProject(t)

	t.Run("fallback", func(t *testing.T) {
		loadProject(t, root, "json")
		t.Setenv("GATES_NAMESPACE", "")
		t.Setenv("SSU_NAMESPACE", "")
		t.Setenv("DEFAULT_NAMESPACE", "prod")

		stdout, _, err := execute(NewSchemaCommand(), "validate", "gates", "--resolve")
		require.NoError(t, err)

		var reports []ValidationReport
		require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
		require.Len(t, reports, 1)
		assert.Equal(t, "prod", reports[0].Namespace)
	})

	t.Run("too long", func(t *testing.T) {
		loadProject(t, root, "json")
		t.Setenv("GATES_NAMESPACE", "namespace_far_too_long")

		_, _, err := execute(NewSchemaCommand(), "validate", "gates", "--resolve")
		require.Error(t, err)
		assert.Equal(t, materialize.ExitIdentifierTooLong, materialize.ExitCode(err))
	})
}
