package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// isolate runs the test in an empty directory with no FLEXQUERY_ variable set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, EnvPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"OFEE"}, got.ExcludedActivityCodes); diff != "" {
		t.Errorf("default excluded codes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Layers(t *testing.T) {
	dir := isolate(t)

	file := filepath.Join(dir, "flexquery.yaml")
	yml := `token: from-file
output_dir: downloads
default_currency: USD
excluded_activity_codes: []
`
	if err := os.WriteFile(file, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	env := "FLEXQUERY_TOKEN=from-dotenv\nFLEXQUERY_CASH_HOLDING=cash-123\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FLEXQUERY_DEFAULT_CURRENCY", "chf")
	t.Cleanup(func() {
		os.Unsetenv("FLEXQUERY_TOKEN")
		os.Unsetenv("FLEXQUERY_CASH_HOLDING")
	})

	got, err := Load(file)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := Config{
		Token:                 "from-dotenv",
		OutputDir:             "downloads",
		DefaultCurrency:       "chf",
		CashHolding:           "cash-123",
		ExcludedActivityCodes: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"unknown key", write("typo.yaml", "tokn: abc\n")},
		{"bad currency", write("currency.yaml", "default_currency: EURO\n")},
		{"empty output", write("output.yaml", "output_dir: \"\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("Load(%q) expected an error", tt.path)
			}
		})
	}
}

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"OFEE", []string{"OFEE"}},
		{" ofee , div,,", []string{"OFEE", "DIV"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitCodes(tt.in)); diff != "" {
			t.Errorf("SplitCodes(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestEnviron(t *testing.T) {
	isolate(t)
	want := Config{
		Token:                 "secret",
		OutputDir:             "out",
		DefaultCurrency:       "USD",
		CashHolding:           "cash-123",
		ExcludedActivityCodes: []string{"OFEE", "CINT"},
	}
	for _, kv := range want.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		t.Setenv(name, value)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load(Environ()) mismatch (-want +got):\n%s", diff)
	}
}
