package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/typeorder/config"
)

const misordered = `class Swap {
  int bar;

  static int foo;
}
`

const ordered = `class Fine {
  static int foo;

  int bar;
}
`

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/A.java":             ordered,
		"src/pkg/B.java":         misordered,
		"src/notes.txt":          "x",
		"build/Gen.java":         misordered,
		"src/target/Skip.java":   misordered,
		"src/node_modules/x.jav": "x",
	})
	explicit := filepath.Join(root, "src", "notes.txt")

	files, err := Discover([]string{root, explicit, filepath.Join(root, "src")}, config.DefaultConfig().Files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "A.java"),
		filepath.Join(root, "src", "notes.txt"),
		filepath.Join(root, "src", "pkg", "B.java"),
	}, files)

	_, err = Discover([]string{filepath.Join(root, "missing")}, config.DefaultConfig().Files)
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	root := writeTree(t, map[string]string{
		"A.java": ordered,
		"B.java": misordered,
	})

	results, err := New(config.DefaultConfig()).Check(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Diagnostics)
	require.Len(t, results[1].Diagnostics, 1)
	assert.Equal(t, "Swap", results[1].Diagnostics[0].TypeName)
	assert.Nil(t, results[1].Diagnostics[0].Fix)
	assert.False(t, results[1].Changed())
	assert.Equal(t, 1, Findings(results))

	content, err := os.ReadFile(filepath.Join(root, "B.java"))
	require.NoError(t, err)
	assert.Equal(t, misordered, string(content))
}

func TestFixWrites(t *testing.T) {
	root := writeTree(t, map[string]string{
		"A.java": ordered,
		"B.java": misordered,
	})

	results, err := New(config.DefaultConfig()).Fix(context.Background(), []string{root}, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Changed())
	assert.True(t, results[1].Changed())
	assert.Equal(t, 1, results[1].Applied)
	assert.Equal(t, 0, Findings(results))

	content, err := os.ReadFile(filepath.Join(root, "B.java"))
	require.NoError(t, err)
	assert.Equal(t, "class Swap {\n  static int foo;\n\n  int bar;\n}\n", string(content))
}

func TestFixDryRunLeavesFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"B.java": misordered})

	results, err := New(config.DefaultConfig()).Fix(context.Background(), []string{root}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed())

	content, err := os.ReadFile(filepath.Join(root, "B.java"))
	require.NoError(t, err)
	assert.Equal(t, misordered, string(content))
}

func TestCheckCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"A.java": ordered, "B.java": misordered})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(config.DefaultConfig()).Check(ctx, []string{root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckEmptyTree(t *testing.T) {
	results, err := New(config.DefaultConfig()).Check(context.Background(), []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCheckUsesConfiguredMarkers(t *testing.T) {
	root := writeTree(t, map[string]string{"B.java": `@Keep("Order")
class Swap {
  int bar;
  static int foo;
}
`})
	cfg := config.DefaultConfig()
	cfg.Check.Name = "Order"
	cfg.Check.SuppressionAnnotation = "Keep"

	results, err := New(cfg).Check(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Equal(t, 0, Findings(results))
}

func TestUnifiedDiff(t *testing.T) {
	text, err := UnifiedDiff("B.java", []byte(misordered), []byte("class Swap {\n  static int foo;\n\n  int bar;\n}\n"))
	require.NoError(t, err)
	assert.Contains(t, text, "--- a/B.java\n")
	assert.Contains(t, text, "+++ b/B.java\n")
	assert.Contains(t, text, "+  static int foo;\n")
	assert.Contains(t, text, "-  static int foo;\n")

	text, err = UnifiedDiff("B.java", []byte(ordered), []byte(ordered))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestReporter(t *testing.T) {
	root := writeTree(t, map[string]string{"B.java": misordered})
	results, err := New(config.DefaultConfig()).Check(context.Background(), []string{root})
	require.NoError(t, err)

	var out bytes.Buffer
	rep := NewReporter(&out, false)
	rep.Findings(results)
	rep.CheckSummary(results)

	path := filepath.Join(root, "B.java")
	assert.Equal(t,
		path+":1:7: [type-member-order] Type members should be ordered in a standard way: "+
			"static fields, instance fields, static initializers, instance initializers, "+
			"constructors, methods, nested types (Swap)\n"+
			"1 misordered type(s) in 1 of 1 file(s)\n",
		out.String())
}

func TestReporterFix(t *testing.T) {
	root := writeTree(t, map[string]string{"A.java": ordered, "B.java": misordered})
	results, err := New(config.DefaultConfig()).Fix(context.Background(), []string{root}, false)
	require.NoError(t, err)

	var out bytes.Buffer
	rep := NewReporter(&out, false)
	rep.Changes(results, "would reorder")
	rep.FixSummary(results)
	assert.Equal(t,
		"would reorder "+filepath.Join(root, "B.java")+" (1 type(s))\n"+
			"1 type(s) reordered in 1 of 2 file(s)\n",
		out.String())

	out.Reset()
	require.NoError(t, rep.Diffs(results))
	assert.Contains(t, out.String(), "+++ b/"+filepath.Join(root, "B.java"))
}

func TestRuleSlug(t *testing.T) {
	assert.Equal(t, "type-member-order", RuleSlug("TypeMemberOrder"))
	assert.Equal(t, "order", RuleSlug("Order"))
}
