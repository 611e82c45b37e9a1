package practices_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/puppetlens/internal/practices"
	_ "github.com/leapstack-labs/puppetlens/internal/practices/rules" // register rules
	"github.com/leapstack-labs/puppetlens/internal/testutil"
)

const messy = `class MyApp {
  $port = hiera('myapp::port', 80)
  file { "/etc/myapp": ensure => "directory" }
}
`

func TestChecker_AllRules(t *testing.T) {
	c := practices.NewChecker(nil, testutil.NewTestLogger(t))

	issues := c.Check(practices.NewFile("myapp.pp", messy))

	ids := make(map[string]int)
	for _, i := range issues {
		ids[i.RuleID]++
		assert.Equal(t, "myapp.pp", i.File)
		assert.NotEmpty(t, i.Category)
	}
	assert.Equal(t, map[string]int{"PP01": 1, "PP03": 2, "PP04": 1, "PP05": 1}, ids)
}

func TestChecker_DisableAndOverride(t *testing.T) {
	cfg := practices.NewConfig().
		Disable("PP03").
		Disable("PP04").
		SetSeverity("PP05", practices.SeverityCritical)
	c := practices.NewChecker(cfg, nil)

	issues := c.Check(practices.NewFile("myapp.pp", messy))

	require.Len(t, issues, 2)
	assert.Equal(t, "PP01", issues[0].RuleID)
	assert.Equal(t, practices.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "PP05", issues[1].RuleID)
	assert.Equal(t, practices.SeverityCritical, issues[1].Severity)

	for _, r := range c.Rules() {
		assert.NotEqual(t, "PP03", r.ID)
	}
}

func TestChecker_CheckFilesSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"ok.pp": "class Bad {\n}\n"})

	logger, logs := testutil.NewRecordingLogger(t)
	c := practices.NewChecker(nil, logger)
	issues := c.CheckFiles([]string{filepath.Join(dir, "missing.pp"), filepath.Join(dir, "ok.pp")})

	require.Len(t, issues, 1)
	assert.Equal(t, "PP01", issues[0].RuleID)
	assert.True(t, logs.Contains("missing.pp"))
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want practices.Severity
		ok   bool
	}{
		{"critical", practices.SeverityCritical, true},
		{"ERROR", practices.SeverityCritical, true},
		{"warn", practices.SeverityWarning, true},
		{" info ", practices.SeverityInfo, true},
		{"bogus", practices.SeverityWarning, false},
	}
	for _, tt := range tests {
		got, ok := practices.ParseSeverity(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}

	var s practices.Severity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, practices.SeverityInfo, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))
}

func TestParseStyleGuide(t *testing.T) {
	md := `# Team Puppet Style

- Keep manifests small

## Naming
- Use snake_case class names
-   Prefix profiles with profile::

## Empty Section

## naming
- No abbreviations
`
	guide, err := practices.ParseStyleGuide(strings.NewReader(md))
	require.NoError(t, err)

	assert.Equal(t, []practices.StyleSection{
		{Name: "general", Rules: []string{"Keep manifests small"}},
		{Name: "naming", Rules: []string{"Use snake_case class names", "Prefix profiles with profile::", "No abbreviations"}},
	}, guide.Sections)
	assert.Equal(t, 4, guide.RuleCount())
}

func TestLoadStyleGuide_Missing(t *testing.T) {
	_, err := practices.LoadStyleGuide(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
}

func TestReport_WriteMarkdown(t *testing.T) {
	r := &practices.Report{
		Target: "modules",
		Issues: []practices.Issue{
			{File: "a.pp", Line: 1, Severity: practices.SeverityWarning, Category: "naming", Message: "Bad name", Suggestion: "Rename to: x"},
			{File: "a.pp", Line: 2, Severity: practices.SeverityInfo, Category: "naming", Message: "Hidden info"},
			{File: "b.pp", Line: 3, Severity: practices.SeverityCritical, Category: "hiera", Message: "Boom"},
			{File: "c.pp", Line: 4, Severity: practices.SeverityInfo, Category: "style", Message: "Quotes"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&buf))

	assert.Equal(t, "## Puppet Best Practices Check: modules\n"+
		"\n### HIERA - CRITICAL\n"+
		"- **Boom** at `b.pp:3`\n"+
		"\n### Naming - WARNING\n"+
		"- **Bad name** at `a.pp:1`\n"+
		"  💡 Rename to: x\n"+
		"\n### Style - INFO\n"+
		"- **Quotes** at `c.pp:4`\n", buf.String())
}

func TestReport_WriteMarkdown_CapsInfo(t *testing.T) {
	r := &practices.Report{Target: "m"}
	for i := 1; i <= 8; i++ {
		r.Issues = append(r.Issues, practices.Issue{File: "a.pp", Line: i, Severity: practices.SeverityInfo, Category: "style", Message: "q"})
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&buf))

	assert.Equal(t, practices.MaxInfoPerCategory, strings.Count(buf.String(), "- **q**"))
}

func TestReport_WriteMarkdown_CleanWithStyleGuide(t *testing.T) {
	r := &practices.Report{
		Target:     "modules",
		StyleGuide: &practices.StyleGuide{Sections: []practices.StyleSection{{Name: "naming", Rules: []string{"snake_case"}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.WriteMarkdown(&buf))

	assert.Equal(t, "✅ No best practice violations found in modules\n"+
		"\n### Style Guide (1 rules)\n"+
		"\n**Naming**:\n"+
		"- snake_case\n", buf.String())
}

func TestReport_WriteJSON(t *testing.T) {
	r := &practices.Report{Issues: []practices.Issue{
		{File: "a.pp", Line: 1, Severity: practices.SeverityWarning, Category: "naming", RuleID: "PP01", Message: "m"},
	}}

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "warning", got[0]["severity"])
	assert.Equal(t, "PP01", got[0]["rule"])

	buf.Reset()
	require.NoError(t, (&practices.Report{}).WriteJSON(&buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestSortIssuesAndCounts(t *testing.T) {
	issues := []practices.Issue{
		{File: "b.pp", Line: 1, RuleID: "PP01", Severity: practices.SeverityWarning},
		{File: "a.pp", Line: 9, RuleID: "PP03", Severity: practices.SeverityInfo},
		{File: "a.pp", Line: 9, RuleID: "PP01", Severity: practices.SeverityInfo},
	}
	practices.SortIssues(issues)

	assert.Equal(t, "a.pp", issues[0].File)
	assert.Equal(t, "PP01", issues[0].RuleID)
	assert.Equal(t, "b.pp", issues[2].File)
	assert.Equal(t, map[practices.Severity]int{practices.SeverityWarning: 1, practices.SeverityInfo: 2},
		practices.CountBySeverity(issues))
}
