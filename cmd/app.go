// Package cmd implements the flexquery command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/etnz/flexquery/config"
	"github.com/etnz/flexquery/flexweb"
	"github.com/etnz/flexquery/statement"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd, groups[cmd.Name()])
	}
}

// Commands returns the subcommands of the application.
func Commands() []subcommands.Command {
	return []subcommands.Command{
		&downloadCmd{},
		&filterCmd{},
		&showCmd{},
		&convertCmd{},
		&recordsCmd{},
		&topicCmd{},
	}
}

var groups = map[string]string{
	"download": "reports",
	"filter":   "reports",
	"show":     "reports",
	"convert":  "parqet",
	"records":  "parqet",
	"topic":    "help",
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "log debug messages, e.g. the statement lines that are skipped")

var configFile = flag.String("config", "", "Path to a YAML configuration file")

// loadConfig loads the settings of the application.
func loadConfig() (config.Config, error) { return config.Load(*configFile) }

// newLogger returns the logger of the commands, writing human readable
// messages to stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if *Verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.DisableCaller = !*Verbose
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	log, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return zap.NewNop()
	}
	return log
}

// newClient creates the Flex Web Service client, tests replace it.
var newClient = flexweb.New

// printMarkdown prints md to stdout, rendered for the terminal when stdout is one.
func printMarkdown(md string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// readStatement reads the single report file of the command line.
func readStatement(f *flag.FlagSet) (string, *statement.Response, subcommands.ExitStatus) {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected one report file, got %d arguments\n", f.NArg())
		return "", nil, subcommands.ExitUsageError
	}
	name := f.Arg(0)
	resp, err := statement.ReadFile(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report: %v\n", err)
		return name, nil, subcommands.ExitFailure
	}
	return name, resp, subcommands.ExitSuccess
}

// withExt returns name with its extension replaced by ext.
func withExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// first returns the first non empty value.
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
