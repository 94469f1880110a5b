// Package logger holds the process-wide charmbracelet logger and the helpers
// that tag it per component.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var Logger *log.Logger

// Options configure the global logger
type Options struct {
	Level string
	// JSON switches to one JSON object per line, for log collectors
	JSON   bool
	Output io.Writer
}

// Initialize sets up the global text logger at logLevel
func Initialize(logLevel string) {
	Setup(Options{Level: logLevel})
}

// Setup replaces the global logger. Unknown levels fall back to info.
func Setup(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	formatter := log.TextFormatter
	if opts.JSON {
		formatter = log.JSONFormatter
	}

	level := parseLevel(opts.Level)
	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		ReportCaller:    true,
	})
	Logger.Debug("Logger initialized", "level", level.String(), "json", opts.JSON)
}

func parseLevel(s string) log.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Get returns the global logger, creating an info level one on first use
func Get() *log.Logger {
	if Logger == nil {
		Initialize("info")
	}
	return Logger
}

// WithContext returns a child of the global logger carrying fields
func WithContext(fields ...any) *log.Logger {
	return Get().With(fields...)
}

func component(name string, fields ...any) *log.Logger {
	return WithContext(append([]any{"component", name}, fields...)...)
}

func Service(serviceName string) *log.Logger {
	return WithContext("service", serviceName)
}

func Database() *log.Logger  { return component("database") }
func HTTP() *log.Logger      { return component("http") }
func Migration() *log.Logger { return component("migration") }
func Realtime() *log.Logger  { return component("realtime") }

// Client tags outbound calls to an external provider
func Client(provider string) *log.Logger {
	return component("client", "provider", provider)
}

func Repository(repoName string) *log.Logger {
	return component("repository", "repository", repoName)
}

func Handler(handlerName string) *log.Logger {
	return component("handler", "handler", handlerName)
}
