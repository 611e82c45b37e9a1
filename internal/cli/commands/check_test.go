package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/puppetlens/internal/cli/config"
	clitestutil "github.com/leapstack-labs/puppetlens/internal/cli/testutil"
	"github.com/leapstack-labs/puppetlens/internal/testutil"
)

const badManifest = `class Bad_Name {
  $port = 80
  file { "/etc/motd": ensure => file }
}
`

func setupBadManifest(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"bad/manifests/init.pp": badManifest})
	return root
}

// ruleIDs decodes a JSON check report into the distinct rule IDs.
func ruleIDs(t *testing.T, out string) []string {
	t.Helper()
	var issues []struct {
		Rule string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &issues))
	seen := make(map[string]bool)
	var ids []string
	for _, i := range issues {
		if !seen[i.Rule] {
			seen[i.Rule] = true
			ids = append(ids, i.Rule)
		}
	}
	return ids
}

func TestCheckCommand_Clean(t *testing.T) {
	root := clitestutil.SetupTestProject(t, false)

	t.Run("text", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), nil, root, "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ No best practice violations found in "+root)
	})

	t.Run("markdown", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), nil, root)
		require.NoError(t, err)
		assert.Equal(t, "✅ No best practice violations found in "+root+"\n", out)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), nil, root, "--format", "json")
		require.NoError(t, err)
		assert.Equal(t, "[]\n", out)
	})
}

func TestCheckCommand_Issues(t *testing.T) {
	root := setupBadManifest(t)

	out, _, err := execute(t, NewCheckCommand(), nil, root, "--format", "json")
	require.ErrorIs(t, err, ErrIssuesFound)

	ids := ruleIDs(t, out)
	assert.Contains(t, ids, "PP01")
	assert.Contains(t, ids, "PP03")
	assert.Contains(t, ids, "PP04")
}

func TestCheckCommand_Markdown(t *testing.T) {
	root := setupBadManifest(t)

	out, _, err := execute(t, NewCheckCommand(), nil, root)
	require.ErrorIs(t, err, ErrIssuesFound)

	clitestutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "## Puppet Best Practices Check: "+root)
	assert.Contains(t, out, "Class name 'Bad_Name' should use lowercase with underscores")
}

func TestCheckCommand_Text(t *testing.T) {
	root := setupBadManifest(t)

	out, _, err := execute(t, NewCheckCommand(), nil, root, "--format", "text")
	require.ErrorIs(t, err, ErrIssuesFound)

	clitestutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "Best Practices: "+root)
	assert.Contains(t, out, "PP01")
	assert.Regexp(t, `\(\d+ issues\)`, out)
}

func TestCheckCommand_Disable(t *testing.T) {
	root := setupBadManifest(t)

	out, _, err := execute(t, NewCheckCommand(), nil, root, "--format", "json", "--disable", "pp03,PP04")
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Equal(t, []string{"PP01"}, ruleIDs(t, out))

	cfg := config.Default()
	cfg.Practices.Disabled = []string{"PP01", "PP03", "PP04"}
	out, _, err = execute(t, NewCheckCommand(), cfg, root, "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCheckCommand_StyleGuide(t *testing.T) {
	root := clitestutil.SetupTestProject(t, false)
	guide := filepath.Join(t.TempDir(), "STYLE.md")
	testutil.WriteTree(t, filepath.Dir(guide), map[string]string{
		"STYLE.md": "# Team style\n\n## Naming\n- Use snake_case class names\n- Prefix profiles with profile::\n",
	})

	out, _, err := execute(t, NewCheckCommand(), nil, root, "--style-guide", guide)
	require.NoError(t, err)
	assert.Contains(t, out, "### Style Guide (2 rules)")
	assert.Contains(t, out, "**Naming**:\n- Use snake_case class names\n")

	cfg := config.Default()
	cfg.Practices.StyleGuide = guide
	out, _, err = execute(t, NewCheckCommand(), cfg, root, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Style Guide (2 rules)")
	assert.Contains(t, out, "  - Prefix profiles with profile::")
}

func TestCheckCommand_MissingStyleGuide(t *testing.T) {
	root := clitestutil.SetupTestProject(t, false)

	_, _, err := execute(t, NewCheckCommand(), nil, root, "--style-guide", filepath.Join(root, "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open style guide")
}
