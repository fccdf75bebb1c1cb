package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/symcheck-go/internal/app"
	"github.com/doeshing/symcheck-go/internal/domain"
)

// testDeps points the CLI at a throwaway config and history file.
func testDeps(t *testing.T, extraYAML string) (*Deps, string) {
	t.Helper()
	for _, key := range []string{"AI_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "SYMCHECK_HISTORY_PATH", "SYMCHECK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.json")
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "history:\n  path: " + historyPath + "\nlogging:\n  level: error\n" + extraYAML
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	deps := &Deps{Options: app.Options{ConfigPath: cfgPath}}
	t.Cleanup(func() { _ = deps.Close() })
	return deps, historyPath
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedHistory(t *testing.T, deps *Deps, records ...domain.HistoryRecord) {
	t.Helper()
	container, err := deps.Container(context.Background())
	require.NoError(t, err)
	for _, rec := range records {
		_, err := container.HistoryStore.Append(context.Background(), rec)
		require.NoError(t, err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, NewVersionCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "symcheck version dev")
	assert.Contains(t, out, "Go version:")
}

func TestHistoryList(t *testing.T) {
	deps, _ := testDeps(t, "")

	out, err := execute(t, NewHistoryCommand(deps), "list")
	require.NoError(t, err)
	assert.Equal(t, MsgNoHistoryRecorded+"\n", out)

	seedHistory(t, deps,
		domain.HistoryRecord{ID: "a", Timestamp: "2026-01-01T00:00:00.000Z", Symptoms: "dry   cough", Source: domain.SourceGemini},
		domain.HistoryRecord{ID: "b", Timestamp: "2026-01-02T00:00:00.000Z", Symptoms: "fever", Source: domain.SourceFallback},
	)

	out, err = execute(t, NewHistoryCommand(deps), "list", "--limit", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "b | "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "| fallback | fever"), lines[0])
	assert.Equal(t, "Showing 1-1 of 2", lines[1])
}

func TestHistoryStats(t *testing.T) {
	deps, _ := testDeps(t, "")
	seedHistory(t, deps,
		domain.HistoryRecord{ID: "a", Timestamp: "2026-01-01T00:00:00.000Z", Symptoms: "headache", Source: domain.SourceGemini},
		domain.HistoryRecord{ID: "b", Timestamp: "2026-01-02T00:00:00.000Z", Symptoms: "migraine headache", Source: domain.SourceFallback},
	)

	out, err := execute(t, NewHistoryCommand(deps), "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 2")
	assert.Contains(t, out, "Fallback rate: 50.0%")
	assert.Contains(t, out, "  headache: 2")
}

func TestHistoryExportAndClear(t *testing.T) {
	deps, historyPath := testDeps(t, "")
	seedHistory(t, deps, domain.HistoryRecord{ID: "a", Timestamp: "2026-01-01T00:00:00.000Z", Symptoms: "cough", Source: domain.SourceOpenAI})

	target := filepath.Join(t.TempDir(), "out", "history.jsonl")
	out, err := execute(t, NewHistoryCommand(deps), "export", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported history to "+target)
	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"id":"a"`)

	out, err = execute(t, NewHistoryCommand(deps), "export")
	require.NoError(t, err)
	assert.Contains(t, out, `"source":"openai"`)

	_, err = execute(t, NewHistoryCommand(deps), "clear")
	require.EqualError(t, err, ErrConfirmClear)

	out, err = execute(t, NewHistoryCommand(deps), "clear", "--yes")
	require.NoError(t, err)
	assert.Equal(t, MsgHistoryCleared+"\n", out)
	_, statErr := os.Stat(historyPath)
	assert.True(t, os.IsNotExist(statErr), "history file should be removed, stat err = %v", statErr)
}

func TestConfigCommands(t *testing.T) {
	deps, _ := testDeps(t, "provider:\n  timeout_ms: 1500\n")

	out, err := execute(t, NewConfigCommand(deps), "path")
	require.NoError(t, err)
	assert.Equal(t, deps.Options.ConfigPath+"\n", out)

	out, err = execute(t, NewConfigCommand(deps), "get", "provider.timeout_ms")
	require.NoError(t, err)
	assert.Equal(t, "1500\n", out)

	_, err = execute(t, NewConfigCommand(deps), "get", "provider.nope")
	assert.Error(t, err)

	out, err = execute(t, NewConfigCommand(deps), "validate")
	require.NoError(t, err)
	assert.Equal(t, MsgConfigurationValid+" (mode: demo)\n", out)

	out, err = execute(t, NewConfigCommand(deps), "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "1500")

	out, err = execute(t, NewConfigCommand(deps), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "timeout_ms: 1500")
}

func TestConfigValidate_Invalid(t *testing.T) {
	deps, _ := testDeps(t, "server:\n  rate_window: fortnight\n")

	_, err := execute(t, NewConfigCommand(deps), "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.rate_window")
}

func TestDoctorCommand(t *testing.T) {
	deps, _ := testDeps(t, "")

	out, err := execute(t, NewDoctorCommand(deps))
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Config file")
	assert.Contains(t, out, "[OK] Analysis mode - demo")
	assert.Contains(t, out, "[OK] History store")
}

func TestDoctorCommand_InvalidConfig(t *testing.T) {
	deps, _ := testDeps(t, "history:\n  backend: redis\n")

	out, err := execute(t, NewDoctorCommand(deps))
	require.Error(t, err)
	assert.Contains(t, out, "[ERROR] Config file")
}
