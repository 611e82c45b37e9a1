package practicerules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/puppetlens/internal/practices"
)

func check(t *testing.T, id, content string, opts practices.Options) []practices.Issue {
	t.Helper()
	rule, ok := practices.GetByID(id)
	require.True(t, ok, "rule %s not registered", id)
	return rule.Check(practices.NewFile("init.pp", content), opts)
}

func TestRegistered(t *testing.T) {
	ids := make([]string, 0, practices.Count())
	for _, r := range practices.GetAll() {
		ids = append(ids, r.ID)
		assert.NotEmpty(t, r.Name, r.ID)
		assert.NotEmpty(t, r.Group, r.ID)
		assert.NotEmpty(t, r.Description, r.ID)
		assert.NotNil(t, r.Check, r.ID)
	}
	assert.Equal(t, []string{"PP01", "PP02", "PP03", "PP04", "PP05", "PP06"}, ids)
}

func TestPP01_ClassNaming(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLines []int
		wantFix   string
	}{
		{
			name:    "snake case passes",
			content: "class my_app::web_server {\n}\n",
		},
		{
			name:      "camel case segment",
			content:   "# header\nclass MyApp::WebServer {\n}\n",
			wantLines: []int{2},
			wantFix:   "Rename to: my_app::web_server",
		},
		{
			name:      "single segment",
			content:   "class NtpClient (\n) {}\n",
			wantLines: []int{1},
			wantFix:   "Rename to: ntp_client",
		},
		{
			name:      "segment starting with digit",
			content:   "class app::2fa {\n}\n",
			wantLines: []int{1},
		},
		{
			name:    "indented declarations are not class definitions",
			content: "  class { 'Foo': }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := check(t, "PP01", tt.content, practices.DefaultOptions())
			var lines []int
			for _, i := range issues {
				lines = append(lines, i.Line)
			}
			assert.Equal(t, tt.wantLines, lines)
			if tt.wantFix != "" {
				require.NotEmpty(t, issues)
				assert.Equal(t, tt.wantFix, issues[0].Suggestion)
			}
		})
	}
}

func TestPP02_ResourceTypeCase(t *testing.T) {
	content := `class a {
  pacKage { 'nginx': }
  package { 'curl': }
  File { owner => 'root' }
}
`
	issues := check(t, "PP02", content, practices.DefaultOptions())

	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "Resource type 'pacKage' should use lowercase", issues[0].Message)
	assert.Equal(t, "Use: package", issues[0].Suggestion)
}

func TestPP03_SingleQuotes(t *testing.T) {
	content := `file { "/etc/motd": ensure => "file" }
notify { "hello ${name}": }
exec { "echo \"x\"": }
file { '/tmp': }
`
	issues := check(t, "PP03", content, practices.DefaultOptions())

	require.Len(t, issues, 2, "one per static string on line 1")
	assert.Equal(t, 1, issues[0].Line)
	assert.Equal(t, 1, issues[1].Line)
}

func TestPP04_TypedParameters(t *testing.T) {
	content := `class ntp (
  $servers = [],
  String $pool = 'pool.ntp.org',
  $enabled=true,
) {
  if $x == 1 {}
  $hash => 1
}
`
	issues := check(t, "PP04", content, practices.DefaultOptions())

	require.Len(t, issues, 2)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "Parameter '$servers' should have a type specification", issues[0].Message)
	assert.Equal(t, 4, issues[1].Line)
	assert.Contains(t, issues[1].Message, "$enabled")
}

func TestPP05_LegacyHiera(t *testing.T) {
	content := "class a {\n  $port = hiera('nginx::port', 80)\n  $x = lookup('y')\n}\n"

	issues := check(t, "PP05", content, practices.DefaultOptions())

	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Contains(t, issues[0].Suggestion, "lookup('nginx::port')")
}

func TestPP06_PackageOrdering(t *testing.T) {
	content := "class a {\n" +
		"  package { 'a': }\n" +
		"  package { 'b': }\n" +
		"  package { 'c': }\n" +
		"  package { 'd': }\n" +
		"}\n"

	t.Run("above default threshold", func(t *testing.T) {
		issues := check(t, "PP06", content, practices.DefaultOptions())
		require.Len(t, issues, 1)
		assert.Equal(t, 2, issues[0].Line)
		assert.Contains(t, issues[0].Message, "(4)")
	})

	t.Run("within custom threshold", func(t *testing.T) {
		assert.Empty(t, check(t, "PP06", content, practices.Options{PackageThreshold: 4}))
	})
}

func TestSnakeClassName(t *testing.T) {
	tests := map[string]string{
		"MyApp::WebServer": "my_app::web_server",
		"HTTPServer":       "http_server",
		"already_snake":    "already_snake",
		"getHTTPResponse":  "get_http_response",
	}
	for in, want := range tests {
		assert.Equal(t, want, snakeClassName(in), in)
	}
}
