package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	level     = logrus.InfoLevel
	formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	output    io.Writer        = os.Stderr
)

// Configure sets the level and format ("text" or "json") of every component
// logger. An unknown level keeps info. CAFE_LOG_LEVEL wins over levelStr.
func Configure(levelStr, format string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if env := os.Getenv("CAFE_LOG_LEVEL"); env != "" {
		levelStr = env
	}
	parsed, err := logrus.ParseLevel(levelStr)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	level = parsed

	switch format {
	case "json":
		formatter = &logrus.JSONFormatter{}
	default:
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	for _, entry := range loggers {
		apply(entry.Logger)
	}
}

// SetOutput redirects every component logger, mostly for tests
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	output = w
	for _, entry := range loggers {
		entry.Logger.SetOutput(w)
	}
}

// NewLogger returns the logger of a component, creating it on first use
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	apply(logger)
	logger.SetOutput(output)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func apply(logger *logrus.Logger) {
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
}
