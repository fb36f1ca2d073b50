package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/minios-linux/aboutdesc/config"
	"github.com/minios-linux/aboutdesc/settings"
)

const sampleAbout = `<?xml version="1.0" encoding="utf-8"?>
<ModMetaData>
  <name>Sample</name>
  <description>Adds sample things.</description>
</ModMetaData>
`

// isolate points every data path at a temporary directory and clears the
// environment variables that would otherwise leak into the commands.
func isolate(t *testing.T) string {
	t.Helper()
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	for _, name := range []string{
		"ABOUTDESC_API_KEY", "OPENAI_API_KEY",
		config.EnvTargetLang, config.EnvModel, config.EnvBaseURL,
	} {
		t.Setenv(name, "")
	}

	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	global = globalFlags{}
	return data
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeMod(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name, "About", "about.xml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func chatServer(t *testing.T, reply string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"`+reply+`"}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

func TestUILangFromArgs(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{args: []string{"status", "--lang-ui=zh_CN"}, want: "zh_CN"},
		{args: []string{"--lang-ui", "ru", "status"}, want: "ru"},
		{args: []string{"status", "--", "--lang-ui=de"}, want: ""},
		{args: []string{"--lang-ui"}, want: ""},
		{args: nil, want: ""},
	}
	for _, tc := range cases {
		if got := uiLangFromArgs(tc.args); got != tc.want {
			t.Errorf("uiLangFromArgs(%q) = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestApplyTranslateFlagsOnlyChanged(t *testing.T) {
	isolate(t)
	cmd := newTranslateCmd()
	if err := cmd.ParseFlags([]string{"--target-lang", "pt_br", "--delay", "2s"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.API.Model = "from-config"
	f := translateFlags{targetLang: "pt_br", delay: 2 * time.Second}
	if err := applyTranslateFlags(cmd.Flags(), cfg, f); err != nil {
		t.Fatalf("applyTranslateFlags() error: %v", err)
	}
	if cfg.TargetLanguage != "pt-BR" || cfg.RequestDelay != 2*time.Second {
		t.Errorf("changed flags not applied: %#v", cfg)
	}
	if cfg.API.Model != "from-config" {
		t.Errorf("unchanged --model overrode config: %q", cfg.API.Model)
	}

	cmd = newTranslateCmd()
	if err := cmd.ParseFlags([]string{"--base-url", "nope"}); err != nil {
		t.Fatal(err)
	}
	if err := applyTranslateFlags(cmd.Flags(), config.Default(), translateFlags{baseURL: "nope"}); err == nil {
		t.Fatal("invalid --base-url should fail validation")
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestTranslateCommand(t *testing.T) {
	isolate(t)
	mods := t.TempDir()
	pending := writeMod(t, mods, "A", sampleAbout)
	writeMod(t, mods, "B", "<?xml version=\"1.0\"?>\n<!-- AI-Translated -->\n<ModMetaData><description>x</description></ModMetaData>")
	writeMod(t, mods, "C", `<ModMetaData><description/></ModMetaData>`)

	var calls int32
	srv := chatServer(t, "添加示例物品。", &calls)

	_, stderr, err := execute(t, "", "translate", mods,
		"--api-key", "sk-test", "--base-url", srv.URL, "--delay", "0s", "--no-progress")
	if err != nil {
		t.Fatalf("translate error: %v\n%s", err, stderr)
	}
	if calls != 1 {
		t.Fatalf("API called %d times, want 1", calls)
	}
	if !strings.Contains(stderr, "3 total, 1 succeeded, 2 skipped, 0 failed") {
		t.Fatalf("summary missing:\n%s", stderr)
	}

	got := readString(t, pending)
	if !strings.Contains(got, "<!-- AI-Translated -->") || !strings.Contains(got, "<description>添加示例物品。</description>") {
		t.Fatalf("file not translated:\n%s", got)
	}
	if readString(t, pending+".bak") != sampleAbout {
		t.Fatal("backup differs from original")
	}

	// A second run finds nothing left to do.
	if _, _, err := execute(t, "", "translate", mods,
		"--api-key", "sk-test", "--base-url", srv.URL, "--delay", "0s", "--no-progress"); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("API called again on translated files (%d calls)", calls)
	}
}

func TestTranslateCommandReportsFailures(t *testing.T) {
	isolate(t)
	mods := t.TempDir()
	path := writeMod(t, mods, "A", sampleAbout)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, stderr, err := execute(t, "", "translate", mods,
		"--api-key", "sk-bad", "--base-url", srv.URL, "--delay", "0s", "--no-progress")
	if err == nil || !strings.Contains(err.Error(), "1 file failed") {
		t.Fatalf("error = %v, want 1 file failed\n%s", err, stderr)
	}
	if readString(t, path) != sampleAbout {
		t.Fatal("failed file was modified")
	}
}

func TestTranslateCommandNeedsKey(t *testing.T) {
	isolate(t)
	mods := t.TempDir()
	writeMod(t, mods, "A", sampleAbout)

	if _, _, err := execute(t, "", "translate", mods, "--no-progress"); err == nil ||
		!strings.Contains(err.Error(), "no API key") {
		t.Fatalf("error = %v, want missing key", err)
	}

	// Dry run works without a key.
	_, stderr, err := execute(t, "", "translate", mods, "--dry-run", "--no-progress")
	if err != nil {
		t.Fatalf("dry run error: %v", err)
	}
	if !strings.Contains(stderr, "1 skipped") {
		t.Fatalf("dry run summary:\n%s", stderr)
	}
}

func TestStatusCommand(t *testing.T) {
	isolate(t)
	mods := t.TempDir()
	writeMod(t, mods, "A", sampleAbout)
	writeMod(t, mods, "B", "<?xml version=\"1.0\"?>\n<!-- AI-Translated -->\n<ModMetaData><description>x</description></ModMetaData>")
	writeMod(t, mods, "C", `<ModMetaData/>`)

	stdout, _, err := execute(t, "", "status", mods)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	for _, want := range []string{
		"Simplified Chinese",
		filepath.Join("A", "About", "about.xml"),
		"Adds sample things.",
		"3 files: 1 translated, 1 pending, 1 no description, 0 unreadable",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("status output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRestoreCommand(t *testing.T) {
	isolate(t)
	mods := t.TempDir()
	path := writeMod(t, mods, "A", sampleAbout)

	var calls int32
	srv := chatServer(t, "Hallo", &calls)
	if _, _, err := execute(t, "", "translate", mods, "--api-key", "k", "--base-url", srv.URL,
		"--delay", "0s", "--no-progress", "--target-lang", "de"); err != nil {
		t.Fatalf("translate error: %v", err)
	}
	if readString(t, path) == sampleAbout {
		t.Fatal("file was not translated")
	}

	if _, stderr, err := execute(t, "", "restore", mods, "--clean"); err != nil {
		t.Fatalf("restore error: %v\n%s", err, stderr)
	}
	if readString(t, path) != sampleAbout {
		t.Fatal("file not restored")
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Fatal("backup not removed by --clean")
	}
}

func TestConfigCommands(t *testing.T) {
	data := isolate(t)
	path := filepath.Join(data, "aboutdesc", "config.yaml")

	stdout, _, err := execute(t, "", "config", "path")
	if err != nil || strings.TrimSpace(stdout) != path {
		t.Fatalf("config path = %q, %v", stdout, err)
	}

	if _, _, err := execute(t, "", "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config.yaml not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(data, "aboutdesc", "prompts.json")); err != nil {
		t.Fatalf("prompts.json not written: %v", err)
	}

	if _, _, err := execute(t, "", "config", "set", "target_language", "ja"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if _, _, err := execute(t, "", "config", "set", "api.api_key", "sk-1234567890"); err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if _, _, err := execute(t, "", "config", "set", "request_delay", "soon"); err == nil {
		t.Fatal("invalid duration accepted")
	}

	stdout, _, err = execute(t, "", "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if !strings.Contains(stdout, "target_language: ja") {
		t.Errorf("config show missing target language:\n%s", stdout)
	}
	if strings.Contains(stdout, "sk-1234567890") || !strings.Contains(stdout, "sk-1...7890") {
		t.Errorf("config show should mask the key:\n%s", stdout)
	}
}

func TestAuthCommands(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "", "auth", "show")
	if err != nil || !strings.Contains(stdout, "not configured") {
		t.Fatalf("auth show = %q, %v", stdout, err)
	}

	if _, _, err := execute(t, "sk-from-stdin-42\n", "auth", "set"); err != nil {
		t.Fatalf("auth set error: %v", err)
	}
	if got := settings.GetAPIKey(settings.DefaultProvider); got != "sk-from-stdin-42" {
		t.Fatalf("stored key = %q", got)
	}

	stdout, _, err = execute(t, "", "auth", "show")
	if err != nil || !strings.Contains(stdout, "sk-f...n-42") || !strings.Contains(stdout, settings.SourceStore) {
		t.Fatalf("auth show = %q, %v", stdout, err)
	}

	if _, _, err := execute(t, "", "auth", "set"); err == nil {
		t.Fatal("auth set with empty stdin should fail")
	}
	if got := settings.GetAPIKey(settings.DefaultProvider); got != "sk-from-stdin-42" {
		t.Fatalf("failed auth set changed key to %q", got)
	}

	if _, _, err := execute(t, "", "auth", "remove"); err != nil {
		t.Fatalf("auth remove error: %v", err)
	}
	if got := settings.GetAPIKey(settings.DefaultProvider); got != "" {
		t.Fatalf("key still stored: %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "", "version")
	if err != nil || !strings.HasPrefix(stdout, "aboutdesc version dev") {
		t.Fatalf("version = %q, %v", stdout, err)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncate("你好世界", 2); got != "你好..." {
		t.Fatalf("truncate() = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate() = %q", got)
	}
}
