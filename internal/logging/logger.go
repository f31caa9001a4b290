package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/pws-uploader/internal/config"
)

// New builds the process logger. Output goes to stderr so diagnostics never
// mix with command output.
func New(cfg *config.AppConfig) *logrus.Logger {
	var formatter logrus.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if cfg.LogFormat == "json" {
		formatter = &logrus.JSONFormatter{}
	}

	return &logrus.Logger{
		Out:       os.Stderr,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     cfg.LogLevel,
	}
}
