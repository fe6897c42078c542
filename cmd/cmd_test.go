package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/etnz/flexquery/date"
	"github.com/etnz/flexquery/flexweb"
	"github.com/etnz/flexquery/statement"
)

// isolate runs the test in an empty directory without any FLEXQUERY_
// variable, and returns the directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, kv := range os.Environ() {
		if name, _, _ := strings.Cut(kv, "="); strings.HasPrefix(name, "FLEXQUERY_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return dir
}

// copySample copies the sample report into dir as name and returns its path.
func copySample(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(sample)
	if err != nil {
		t.Fatalf("Failed to read sample report: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write sample report: %v", err)
	}
	return path
}

var sample = func() string {
	p, err := filepath.Abs("../statement/testdata/sample.xml")
	if err != nil {
		panic(err)
	}
	return p
}()

// execute runs c with args and returns its status and what it printed on stdout.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("Failed to parse %v: %v", args, err)
	}

	out, err := os.CreateTemp(t.TempDir(), "stdout")
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = out
	status := c.Execute(context.Background(), f)
	os.Stdout = stdout
	out.Close()

	data, err := os.ReadFile(out.Name())
	if err != nil {
		t.Fatal(err)
	}
	return status, string(data)
}

// lines returns the lines of a file.
func lines(t *testing.T, name string) []string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestConvertCmd(t *testing.T) {
	dir := isolate(t)
	output := filepath.Join(dir, "out", "parqet.csv")

	status, stdout := execute(t, &convertCmd{}, "-o", output, sample)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}

	sec := lines(t, output)
	if got, want := len(sec), 6; got != want {
		t.Errorf("security table has %d lines, want %d:\n%s", got, want, strings.Join(sec, "\n"))
	}
	if got, want := sec[0], "date;price;shares;amount;tax;fee;type;assetType;identifier;currency"; got != want {
		t.Errorf("security header = %q, want %q", got, want)
	}
	cash := lines(t, filepath.Join(dir, "out", "parqet_cash.csv"))
	if got, want := len(cash), 3; got != want {
		t.Errorf("cash table has %d lines, want %d:\n%s", got, want, strings.Join(cash, "\n"))
	}
	for _, row := range cash[1:] {
		if !strings.HasSuffix(row, ";HOLDING_ID") {
			t.Errorf("cash row %q does not end with the placeholder holding", row)
		}
	}

	for _, want := range []string{"# Conversion of sample.xml", "| Buy | 3 |", "`HOLDING_ID`"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestConvertCmd_Flags(t *testing.T) {
	dir := isolate(t)
	input := copySample(t, dir, "123456_20240501_statement.xml")

	status, stdout := execute(t, &convertCmd{}, "-holding", "cash-1", "-exclude", "div", "-currency", "usd", input)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}

	sec := lines(t, filepath.Join(dir, "123456_20240501_statement.csv"))
	for _, row := range sec {
		if strings.Contains(row, ";Dividend;") {
			t.Errorf("excluded dividend was written: %q", row)
		}
	}
	if got, want := len(sec), 5; got != want {
		t.Errorf("security table has %d lines, want %d", got, want)
	}
	for _, row := range lines(t, filepath.Join(dir, "123456_20240501_statement_cash.csv"))[1:] {
		if !strings.HasSuffix(row, ";cash-1") {
			t.Errorf("cash row %q does not use the holding flag", row)
		}
	}
	if strings.Contains(stdout, "Replace") {
		t.Errorf("summary asks to replace a configured holding:\n%s", stdout)
	}
}

func TestConvertCmd_Config(t *testing.T) {
	dir := isolate(t)
	input := copySample(t, dir, "sample.xml")
	cfg := filepath.Join(dir, "flexquery.yaml")
	if err := os.WriteFile(cfg, []byte("cash_holding: cash-from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	old := *configFile
	*configFile = cfg
	defer func() { *configFile = old }()

	if status, _ := execute(t, &convertCmd{}, input); status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	for _, row := range lines(t, filepath.Join(dir, "sample_cash.csv"))[1:] {
		if !strings.HasSuffix(row, ";cash-from-file") {
			t.Errorf("cash row %q does not use the configured holding", row)
		}
	}
}

func TestConvertCmd_Errors(t *testing.T) {
	dir := isolate(t)
	broken := filepath.Join(dir, "broken.xml")
	if err := os.WriteFile(broken, []byte("<html>"), 0644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{"no report", nil, subcommands.ExitUsageError},
		{"two reports", []string{sample, sample}, subcommands.ExitUsageError},
		{"missing report", []string{filepath.Join(dir, "missing.xml")}, subcommands.ExitFailure},
		{"broken report", []string{broken}, subcommands.ExitFailure},
		{"bad currency", []string{"-currency", "EURO", sample}, subcommands.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := execute(t, &convertCmd{}, tt.args...); status != tt.want {
				t.Errorf("convert %v = %v, want %v", tt.args, status, tt.want)
			}
		})
	}
}

func TestFilterCmd(t *testing.T) {
	dir := isolate(t)
	input := copySample(t, dir, "123456_20240501_statement.xml")

	status, stdout := execute(t, &filterCmd{}, "-from", "2024-03-01", "-to", "2024-03-31", input)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	want := filepath.Join(dir, "123456_20240301-20240331_statement.xml")
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("filter printed %q, want %q", got, want)
	}
	resp, err := statement.ReadFile(want)
	if err != nil {
		t.Fatalf("Failed to read filtered report: %v", err)
	}
	if got := len(resp.AllTrades()); got != 1 {
		t.Errorf("filtered report has %d trades, want 1", got)
	}
	if got := len(resp.AllCashTransactions()); got != 2 {
		t.Errorf("filtered report has %d cash transactions, want 2", got)
	}
}

func TestFilterCmd_Period(t *testing.T) {
	dir := isolate(t)
	input := copySample(t, dir, "123456_20240501_statement.xml")

	status, stdout := execute(t, &filterCmd{}, "-from", "2024-03-10", "-period", "month", input)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	want := filepath.Join(dir, "123456_20240301-20240331_statement.xml")
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("filter printed %q, want %q", got, want)
	}
}

func TestFilterCmd_NoDeposits(t *testing.T) {
	dir := isolate(t)
	output := filepath.Join(dir, "january.xml")

	status, _ := execute(t, &filterCmd{}, "-from", "2024-01-01", "-to", "2024-01-31", "-no-deposits", "-o", output, sample)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	resp, err := statement.ReadFile(output)
	if err != nil {
		t.Fatalf("Failed to read filtered report: %v", err)
	}
	if got := len(resp.AllTrades()); got != 1 {
		t.Errorf("filtered report has %d trades, want 1", got)
	}
	if got := len(resp.AllCashTransactions()); got != 0 {
		t.Errorf("filtered report has %d cash transactions, want 0", got)
	}
}

func TestFilterCmd_Errors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing to", []string{"-from", "2024-01-01", sample}},
		{"bad date", []string{"-from", "2024-01-01", "-to", "2024-31-01", sample}},
		{"inverted range", []string{"-from", "2024-02-01", "-to", "2024-01-01", sample}},
		{"no report", []string{"-from", "2024-01-01", "-to", "2024-01-31"}},
		{"to and period", []string{"-from", "2024-01-01", "-to", "2024-01-31", "-period", "month", sample}},
		{"bad period", []string{"-from", "2024-01-01", "-period", "fortnight", sample}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := execute(t, &filterCmd{}, tt.args...); status != subcommands.ExitUsageError {
				t.Errorf("filter %v = %v, want %v", tt.args, status, subcommands.ExitUsageError)
			}
		})
	}
}

func TestQueryOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"reports/123456_20250923_statement.xml", "123456"},
		{"statement.xml", "statement"},
	}
	for _, tt := range tests {
		if got := queryOf(tt.name); got != tt.want {
			t.Errorf("queryOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestShowCmd(t *testing.T) {
	isolate(t)
	status, stdout := execute(t, &showCmd{}, sample)
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	for _, want := range []string{
		"## Account U1234567",
		"| 2024-03-01 | AAPL | US0378331005 | APPLE INC | SELL | -3 | 160.5 | -481.5 | -1 | 0 | -450.75 | USD |",
		"| 2024-04-05 | IWDA | IE00B4L5Y983 | ISHARES CORE MSCI WORLD | BUY | 2 | 80.123 | 160.246 | -1.25 | -0.10 | 161.596 | EUR |",
		"| 2024-03-15 | Withholding Tax | AAPL | AAPL US TAX | -1.85 | USD |",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("show output does not contain %q:\n%s", want, stdout)
		}
	}
}

func TestRecordsCmd(t *testing.T) {
	isolate(t)
	tests := []struct {
		name  string
		args  []string
		lines int
		want  string
	}{
		{"all", []string{sample}, 7, `"type":"Buy"`},
		{"where", []string{"-where", `@.type == "Dividend"`, sample}, 1, `"amount":"12.34"`},
		{"text", []string{"-text", "-where", `@.type == "Interest"`, sample}, 2, "interest of 5.00 EUR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, stdout := execute(t, &recordsCmd{}, tt.args...)
			if status != subcommands.ExitSuccess {
				t.Fatalf("Expected ExitSuccess, got %v", status)
			}
			got := strings.Split(strings.TrimSpace(stdout), "\n")
			if len(got) != tt.lines {
				t.Errorf("records printed %d lines, want %d:\n%s", len(got), tt.lines, stdout)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("records output does not contain %q:\n%s", tt.want, stdout)
			}
		})
	}

	if status, _ := execute(t, &recordsCmd{}, "-where", "@.type ==", sample); status != subcommands.ExitUsageError {
		t.Errorf("records with an invalid filter = %v, want %v", status, subcommands.ExitUsageError)
	}
}

const report = `<FlexQueryResponse queryName="Parqet" type="AF"><FlexStatements count="1"><FlexStatement accountId="U1"/></FlexStatements></FlexQueryResponse>`

func TestDownloadCmd(t *testing.T) {
	dir := isolate(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/SendRequest", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") != "secret" {
			fmt.Fprint(w, `<FlexStatementResponse><Status>Fail</Status><ErrorCode>1015</ErrorCode><ErrorMessage>Token is invalid.</ErrorMessage></FlexStatementResponse>`)
			return
		}
		fmt.Fprint(w, `<FlexStatementResponse><Status>Success</Status><ReferenceCode>42</ReferenceCode></FlexStatementResponse>`)
	})
	mux.HandleFunc("/GetStatement", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, report)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	old := newClient
	newClient = func(token string, log *zap.Logger) *flexweb.Client {
		c := flexweb.New(token, log)
		c.BaseURL = srv.URL
		c.Limiter = rate.NewLimiter(rate.Inf, 1)
		c.Schedule = flexweb.Schedule{Initial: time.Millisecond, Attempts: 2}
		return c
	}
	defer func() { newClient = old }()

	status, stdout := execute(t, &downloadCmd{}, "-t", "secret", "-o", "reports", "123456")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	want := filepath.Join("reports", "123456_"+date.Today().FlexString()+"_statement.xml")
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("download printed %q, want %q", got, want)
	}
	if data, err := os.ReadFile(filepath.Join(dir, want)); err != nil || string(data) != report {
		t.Errorf("downloaded report = %q, %v, want %q", data, err, report)
	}

	t.Setenv("FLEXQUERY_TOKEN", "wrong")
	if status, _ := execute(t, &downloadCmd{}, "123456"); status != subcommands.ExitFailure {
		t.Errorf("download with a rejected token = %v, want %v", status, subcommands.ExitFailure)
	}
}

func TestDownloadCmd_Usage(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no query", []string{"-t", "secret"}},
		{"no token", []string{"123456"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := execute(t, &downloadCmd{}, tt.args...); status != subcommands.ExitUsageError {
				t.Errorf("download %v = %v, want %v", tt.args, status, subcommands.ExitUsageError)
			}
		})
	}
}

func TestTopicCmd(t *testing.T) {
	status, stdout := execute(t, &topicCmd{}, "-list")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	if !strings.Contains(stdout, "Parqet tables") {
		t.Errorf("topic -list does not list the parqet topic:\n%s", stdout)
	}

	status, stdout = execute(t, &topicCmd{}, "parqet")
	if status != subcommands.ExitSuccess || !strings.HasPrefix(stdout, "# Parqet tables") {
		t.Errorf("topic parqet = %v, %.40q", status, stdout)
	}

	if status, _ := execute(t, &topicCmd{}, "nope"); status != subcommands.ExitFailure {
		t.Errorf("topic nope = %v, want %v", status, subcommands.ExitFailure)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"v", "config"} {
		if _, ok := c.Flags[name]; !ok {
			t.Errorf("global flag %q cannot be completed", name)
		}
	}
	for _, cmd := range Commands() {
		sub, ok := c.Sub[cmd.Name()]
		if !ok {
			t.Errorf("command %q cannot be completed", cmd.Name())
			continue
		}
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		f.VisitAll(func(fl *flag.Flag) {
			if _, ok := sub.Flags[fl.Name]; !ok {
				t.Errorf("flag -%s of %q cannot be completed", fl.Name, cmd.Name())
			}
		})
	}
	if got := c.Sub["convert"].Flags["exclude"].Predict(""); len(got) == 0 {
		t.Errorf("no activity code predicted for -exclude")
	}
}

func TestRegister(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("flexquery", flag.ContinueOnError), "flexquery")
	Register(c)
	var names []string
	c.VisitCommands(func(g *subcommands.CommandGroup, cmd subcommands.Command) {
		if g.Name() == "" {
			t.Errorf("command %q has no group", cmd.Name())
		}
		names = append(names, cmd.Name())
	})
	if got, want := len(names), len(Commands()); got != want {
		t.Errorf("registered %d commands %v, want %d", got, names, want)
	}
}
