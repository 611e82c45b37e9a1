package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clitestutil "github.com/leapstack-labs/puppetlens/internal/cli/testutil"
	"github.com/leapstack-labs/puppetlens/internal/tracer"
)

const agentLog = `Info: Using environment 'production'
Error: Could not retrieve catalog from remote server: Duplicate declaration: Package[nginx] is already declared at /etc/puppetlabs/code/modules/web/manifests/init.pp:12
Notice: Applied catalog in 0.2 seconds
Error: /Stage[main]/Web/File[/var/www]: Could not set 'directory' on ensure: Permission denied @ dir_s_mkdir
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTraceCommand_Message(t *testing.T) {
	out, _, err := execute(t, NewTraceCommand(), nil,
		"Error: Evaluation Error: Unknown variable: '$port' at /etc/puppetlabs/code/modules/web/manifests/init.pp:4")
	require.NoError(t, err)

	clitestutil.AssertValidMarkdown(t, out)
	assert.True(t, strings.HasPrefix(out, "## Error Analysis: Undefined Variable\n"))
	assert.Contains(t, out, "**Severity**: WARNING")
	assert.Contains(t, out, "### Related Files\n- /etc/puppetlabs/code/modules/web/manifests/init.pp:4\n")
}

func TestTraceCommand_JSON(t *testing.T) {
	out, _, err := execute(t, NewTraceCommand(), nil, "Error: something nobody has seen before", "--format", "json")
	require.NoError(t, err)

	var a tracer.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, tracer.UnknownType, a.Type)
	assert.Equal(t, tracer.SeverityInfo, a.Severity)
	assert.NotEmpty(t, a.Suggestions)
}

func TestTraceCommand_File(t *testing.T) {
	path := writeLog(t, agentLog)

	t.Run("first error", func(t *testing.T) {
		out, _, err := execute(t, NewTraceCommand(), nil, "--file", path)
		require.NoError(t, err)
		assert.Contains(t, out, "## Error Analysis: Duplicate Declaration")
		assert.NotContains(t, out, "Permission Denied")
		assert.NotContains(t, out, "---")
	})

	t.Run("all errors", func(t *testing.T) {
		out, _, err := execute(t, NewTraceCommand(), nil, "--file", path, "--all")
		require.NoError(t, err)
		assert.Contains(t, out, "## Error Analysis: Duplicate Declaration")
		assert.Contains(t, out, "\n---\n\n## Error Analysis: Permission Denied")
	})

	t.Run("all errors as json", func(t *testing.T) {
		out, _, err := execute(t, NewTraceCommand(), nil, "--file", path, "--all", "--format", "json")
		require.NoError(t, err)

		var analyses []tracer.Analysis
		require.NoError(t, json.Unmarshal([]byte(out), &analyses))
		require.Len(t, analyses, 2)
		assert.Equal(t, "duplicate_declaration", analyses[0].Key)
		assert.Equal(t, "permission_denied", analyses[1].Key)
	})
}

func TestTraceCommand_FileWithoutErrors(t *testing.T) {
	path := writeLog(t, "Notice: Applied catalog in 0.2 seconds\n")

	out, _, err := execute(t, NewTraceCommand(), nil, "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "No errors found in file.\n", out)
}

func TestTraceCommand_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")

	_, _, err := execute(t, NewTraceCommand(), nil, "--file", path)
	require.Error(t, err)
	assert.Equal(t, "file not found: "+path, err.Error())
}

func TestTraceCommand_Out(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.md")

	out, _, err := execute(t, NewTraceCommand(), nil, "Error: Found 1 dependency cycle", "--out", path)
	require.NoError(t, err)
	assert.Equal(t, "Analysis written to: "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "**Severity**: CRITICAL")
}

func TestTraceCommand_NoInputShowsHelp(t *testing.T) {
	out, _, err := execute(t, NewTraceCommand(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestTraceSession(t *testing.T) {
	s := &traceSession{db: tracer.DefaultDatabase()}

	assert.Nil(t, s.Feed(""), "blank line without input")
	assert.Nil(t, s.Feed("Error: Could not parse for environment production:"))
	assert.Nil(t, s.Feed("  Syntax error at '}' (file: init.pp, line: 7)"))

	a := s.Feed("   ")
	require.NotNil(t, a)
	assert.Equal(t, "syntax_error", a.Key)
	assert.Contains(t, a.Message, "\n", "pasted lines are analyzed together")

	assert.Nil(t, s.Flush(), "flush after a blank line has nothing pending")

	s.Feed("Error: Permission denied")
	s.Reset()
	assert.Nil(t, s.Flush())

	s.Feed("Error: Permission denied")
	a = s.Flush()
	require.NotNil(t, a)
	assert.Equal(t, "permission_denied", a.Key)
}
