package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/puppetlens/internal/depgraph"
	"github.com/leapstack-labs/puppetlens/internal/testutil"
)

func TestAnalyze_IncludeAndRequire(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"web/manifests/init.pp": "class web {\n  include web::config\n  Require('base')\n}\n",
	})

	a, err := Analyze(context.Background(), dir, Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	assert.Equal(t, []depgraph.ClassName{"base", "web", "web::config"}, a.Graph.Nodes())
	assert.Equal(t, []depgraph.Edge{
		{Source: "web", Target: "web::config", Kind: depgraph.KindInclude},
		{Source: "web", Target: "base", Kind: depgraph.KindRequire},
	}, a.Graph.Edges())
	assert.Empty(t, a.Cycles)
	assert.False(t, a.HasCycles())
	assert.Equal(t, []depgraph.ClassName{"web"}, a.Unused)
	assert.Equal(t, map[depgraph.ClassName][]depgraph.ClassName{
		"web": {"base", "web::config"},
	}, a.Dependencies)
}

func TestAnalyze_MutualInclude(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"a.pp": "class a {\n  include b\n}\n",
		"b.pp": "class b {\n  include a\n}\n",
	})

	a, err := Analyze(context.Background(), dir, Options{})
	require.NoError(t, err)

	require.Len(t, a.Cycles, 1)
	assert.Equal(t, depgraph.Cycle{"a", "b", "a"}, a.Cycles[0])
	assert.Empty(t, a.Unused)
	assert.True(t, a.HasCycles())
}

func TestAnalyze_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"README.md": "# not a manifest\n",
	})

	a, err := Analyze(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Empty(t, a.Files)
	assert.Equal(t, 0, a.Graph.NodeCount())
	assert.Equal(t, 0, a.Graph.EdgeCount())
	assert.Empty(t, a.Cycles)
	assert.Empty(t, a.Unused)
	assert.Empty(t, a.Dependencies)
}

func TestAnalyze_TargetNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	a, err := Analyze(context.Background(), missing, Options{})

	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, ErrTargetNotFound))
	assert.Contains(t, err.Error(), missing)
}

func TestAnalyze_SingleFileIgnoresExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.txt")
	require.NoError(t, os.WriteFile(path, []byte("class solo {\n  include dep\n}\n"), 0o600))

	a, err := Analyze(context.Background(), path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{path}, a.Files)
	assert.Equal(t, []depgraph.ClassName{"dep", "solo"}, a.Graph.Nodes())
}

func TestAnalyze_SkipsFilesWithoutDeclaration(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"site.pp":     "node default {\n  include role::base\n}\n",
		"role/b.pp":   "class role::base {\n}\n",
		"other.epp":   "class ignored {\n}\n",
		"nested/c.pp": "class c {\n  contain role::base\n}\n",
	})

	a, err := Analyze(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Len(t, a.Files, 3)
	assert.Equal(t, []depgraph.ClassName{"c", "role::base"}, a.Graph.Nodes())
	assert.Empty(t, a.Warnings, "missing declarations are not warnings")
}

func TestAnalyze_DuplicateDeclarationsAreUnioned(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"one.pp": "class shared {\n  include x\n}\n",
		"two.pp": "class shared {\n  include y\n  include x\n}\n",
	})

	a, err := Analyze(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Equal(t, []depgraph.ClassName{"x", "y"}, a.Dependencies["shared"])
	assert.Equal(t, 3, a.Graph.EdgeCount())
}

func TestAnalyze_DeclaredClassWithoutEdgesIsNode(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"lonely.pp": "class lonely {\n}\n",
	})

	a, err := Analyze(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.True(t, a.Graph.HasNode("lonely"))
	assert.Equal(t, []depgraph.ClassName{"lonely"}, a.Unused)
	assert.Equal(t, []depgraph.ClassName{"lonely"}, a.Classes())
	assert.Empty(t, a.Dependencies["lonely"])
}

func TestAnalyze_UnreadableFileIsWarning(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"ok.pp":     "class ok {\n  include locked\n}\n",
		"locked.pp": "class locked {\n}\n",
	})
	locked := filepath.Join(dir, "locked.pp")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o600) })

	logger, logs := testutil.NewRecordingLogger(t)
	a, err := Analyze(context.Background(), dir, Options{Logger: logger})
	require.NoError(t, err)

	require.Len(t, a.Warnings, 1)
	assert.Equal(t, locked, a.Warnings[0].Path)
	assert.True(t, logs.Contains("skipping manifest"))
	assert.Equal(t, []depgraph.ClassName{"locked", "ok"}, a.Graph.Nodes())
}

func TestAnalyze_ExcludeAndGitignore(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		".gitignore":                 "generated/\n",
		"keep.pp":                    "class keep {\n}\n",
		"generated/gen.pp":           "class gen {\n}\n",
		"vendor/mod/init.pp":         "class vendored {\n}\n",
		"spec/fixtures/modules/x.pp": "class fixture {\n}\n",
		".git/hooks/h.pp":            "class hook {\n}\n",
	})

	tests := []struct {
		name string
		opts Options
		want []depgraph.ClassName
	}{
		{
			name: "no filtering",
			opts: Options{},
			want: []depgraph.ClassName{"fixture", "gen", "keep", "vendored"},
		},
		{
			name: "exclude patterns",
			opts: Options{Exclude: []string{"vendor/", "spec/fixtures/**"}},
			want: []depgraph.ClassName{"gen", "keep"},
		},
		{
			name: "gitignore",
			opts: Options{RespectGitignore: true},
			want: []depgraph.ClassName{"fixture", "keep", "vendored"},
		},
		{
			name: "gitignore and exclude patterns",
			opts: Options{RespectGitignore: true, Exclude: []string{"vendor/", "spec/"}},
			want: []depgraph.ClassName{"keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(context.Background(), dir, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Graph.Nodes())
		})
	}
}

func TestAnalyze_GitignoreMissingIsFine(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"a.pp": "class a {\n}\n"})

	a, err := Analyze(context.Background(), dir, Options{RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []depgraph.ClassName{"a"}, a.Graph.Nodes())
}

func TestAnalyze_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"a.pp":       "class a {\n}\n",
		"b.manifest": "class b {\n}\n",
	})

	for _, ext := range []string{".manifest", "manifest"} {
		a, err := Analyze(context.Background(), dir, Options{Extension: ext})
		require.NoError(t, err)
		assert.Equal(t, []depgraph.ClassName{"b"}, a.Graph.Nodes(), "extension %q", ext)
	}
}

func TestAnalyze_WorkersPreserveDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".pp"] = "class " + name + " {\n  include common\n  Notify(" + name + "::svc)\n}\n"
	}
	testutil.WriteTree(t, dir, files)

	sequential, err := Analyze(context.Background(), dir, Options{Workers: 1})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		parallel, err := Analyze(context.Background(), dir, Options{Workers: 4})
		require.NoError(t, err)
		assert.Equal(t, sequential.Files, parallel.Files)
		assert.Equal(t, sequential.Graph.Edges(), parallel.Graph.Edges())
		assert.Equal(t, sequential.Dependencies, parallel.Dependencies)
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"a.pp": "class a {\n}\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 3} {
		_, err := Analyze(ctx, dir, Options{Workers: workers})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	}
}
