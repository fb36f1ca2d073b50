package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvTargetLang, EnvModel, EnvBaseURL} {
		t.Setenv(name, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("Load() = %#v, want defaults", cfg)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `target_language: pt_br
translation_marker: Machine-Translated
request_delay: 2s
api:
  model: local-model
  base_url: http://localhost:8080/v1
  timeout: 1m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TargetLanguage != "pt-BR" {
		t.Errorf("TargetLanguage = %q, want canonical pt-BR", cfg.TargetLanguage)
	}
	if cfg.TranslationMarker != "Machine-Translated" || cfg.RequestDelay != 2*time.Second {
		t.Errorf("unexpected values: %#v", cfg)
	}
	if cfg.API.Timeout != time.Minute || cfg.API.Model != "local-model" {
		t.Errorf("unexpected API values: %#v", cfg.API)
	}
	if cfg.FileName != "about.xml" || cfg.API.Temperature != 0.3 {
		t.Errorf("unset fields should keep defaults: %#v", cfg)
	}

	t.Setenv(EnvTargetLang, "ja")
	t.Setenv(EnvModel, "env-model")
	t.Setenv(EnvBaseURL, "https://example.com/v1")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TargetLanguage != "ja" || cfg.API.Model != "env-model" || cfg.API.BaseURL != "https://example.com/v1" {
		t.Errorf("environment not applied: %#v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	cases := map[string]struct {
		content string
		want    string
	}{
		"bad yaml":       {content: "api: [", want: "parsing"},
		"bad url":        {content: "api:\n  base_url: not a url\n", want: "api.base_url"},
		"empty model":    {content: "api:\n  model: \"\"\n", want: "api.model"},
		"bad marker":     {content: "translation_marker: a--b\n", want: "translation_marker"},
		"bad delay":      {content: "request_delay: -1s\n", want: "request_delay"},
		"bad language":   {content: "target_language: \"??\"\n", want: "target_language"},
		"bad temp":       {content: "api:\n  temperature: 3\n", want: "api.temperature"},
		"path separator": {content: "file_name: a/about.xml\n", want: "file_name"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %q, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.API.APIKey = "sk-secret"
	cfg.RequestDelay = 750 * time.Millisecond
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("mode = %o, want 600", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "request_delay: 750ms") {
		t.Fatalf("durations should be written as strings:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Fatalf("round trip = %#v, want %#v", loaded, cfg)
	}
}

func TestSet(t *testing.T) {
	cfg := Default()

	for _, kv := range [][2]string{
		{"target_language", "zh_tw"},
		{"request_delay", "1s"},
		{"api.temperature", "0.7"},
		{"api.timeout", "30s"},
		{"api.proxy", "http://127.0.0.1:3128"},
	} {
		if err := cfg.Set(kv[0], kv[1]); err != nil {
			t.Fatalf("Set(%s, %s) error: %v", kv[0], kv[1], err)
		}
	}
	if cfg.TargetLanguage != "zh-TW" || cfg.RequestDelay != time.Second {
		t.Errorf("unexpected values: %#v", cfg)
	}
	if cfg.API.Temperature != 0.7 || cfg.API.Timeout != 30*time.Second || cfg.API.Proxy == "" {
		t.Errorf("unexpected API values: %#v", cfg.API)
	}

	before := *cfg
	for _, kv := range [][2]string{
		{"nope", "x"},
		{"request_delay", "soon"},
		{"api.temperature", "hot"},
		{"api.base_url", "::"},
	} {
		if err := cfg.Set(kv[0], kv[1]); err == nil {
			t.Errorf("Set(%s, %s) should fail", kv[0], kv[1])
		}
	}
	if *cfg != before {
		t.Fatalf("failed Set modified config: %#v", cfg)
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	if len(keys) != len(setters) {
		t.Fatalf("Keys() returned %d keys, want %d", len(keys), len(setters))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys() not sorted: %v", keys)
		}
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got, _ := Path(""); got != filepath.Join("/data", "aboutdesc", "config.yaml") {
		t.Fatalf("Path(\"\") = %q", got)
	}
	if got, _ := Path("/etc/x.yaml"); got != "/etc/x.yaml" {
		t.Fatalf("Path(explicit) = %q", got)
	}
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "env-model")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.API.Model != Default().API.Model {
		t.Fatalf("LoadFile() applied environment: model = %q", cfg.API.Model)
	}
	if cfg, _ := Load(path); cfg.API.Model != "env-model" {
		t.Fatalf("Load() model = %q, want env-model", cfg.API.Model)
	}
}
