package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argviz/pkg/observability"
)

// translateLogged runs "translate" on the tweety transcript with a logger
// writing to the returned buffer.
func translateLogged(t *testing.T, extra ...string) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "config"))
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	args := []string{"translate", writeTranscript(t), "-q", "fly(tweety)", "-o", filepath.Join(t.TempDir(), "layout.json")}
	root.SetArgs(append(args, extra...))
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("translate %v: %v", extra, err)
	}
	return logs.String()
}

func TestVerboseShowsAttacks(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		debug bool
	}{
		{"default", nil, false},
		{"long flag", []string{"--verbose"}, true},
		{"short flag", []string{"-v"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := translateLogged(t, tt.args...)
			if got := strings.Contains(logs, "from=r3 to=r2"); got != tt.debug {
				t.Errorf("attack debug line present = %v, want %v\n%s", got, tt.debug, logs)
			}
			if !strings.Contains(logs, "Translated 11 lines into 4 arguments") {
				t.Errorf("progress line missing:\n%s", logs)
			}
		})
	}
}

func TestPrintDebugSetting(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")
	path := filepath.Join(dir, appName, "settings.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[user_settings]\nprint_debug = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	logs := translateLogged(t, "--config", path)
	if !strings.Contains(logs, "from=r4 to=r1") {
		t.Errorf("print_debug did not enable debug output:\n%s", logs)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{LogInfo, false, false},
		{LogInfo, true, false},
		{LogDebug, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := newLogger(&buf, tt.level)
		if tt.debug {
			logger.Debug("attack", "from", "r2", "to", "r1")
		}
		if got := buf.Len() > 0; got != tt.wantLog {
			t.Errorf("level %v: logged = %v, want %v", tt.level, got, tt.wantLog)
		}
	}
}

func TestRequestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, LogInfo).With("request_id", "abc")

	ctx := withLogger(context.Background(), logger)
	loggerFromContext(ctx).Info("layout served")
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("request logger lost its fields: %q", buf.String())
	}

	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext() = nil without a logger")
	}
}
