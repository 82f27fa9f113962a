package common

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO        LogLevel = 2
	BUFFER_INTERNAL   LogLevel = 4
	DEBUGGING         LogLevel = 8
	INFO              LogLevel = 16
	WARN              LogLevel = 32
	ERROR             LogLevel = 64
	FATAL             LogLevel = 128
)

// Logger is the backend of ShPrintf
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	// filtering is done by LogLevelSetting
	l.SetLevel(logrus.TraceLevel)
	return l
}

// SetLogOutput redirects ShPrintf output. tests use this to capture it.
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&LogLevelSetting == 0 {
		return
	}
	msg := strings.TrimRight(fmtStl, "\n")
	switch {
	case logLevel&FATAL > 0, logLevel&ERROR > 0:
		// FATAL is reported, not exited on. the caller decides what is fatal.
		Logger.Errorf(msg, a...)
	case logLevel&WARN > 0:
		Logger.Warnf(msg, a...)
	case logLevel&INFO > 0:
		Logger.Infof(msg, a...)
	case logLevel&DEBUG_INFO_DETAIL > 0:
		Logger.Tracef(msg, a...)
	default:
		Logger.Debugf(msg, a...)
	}
}

// ParseLogLevel converts config notation ("info", "debug", "warn", ...) to a LogLevelSetting value
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "detail", "trace":
		return DEBUG_INFO_DETAIL | DEBUG_INFO | BUFFER_INTERNAL | DEBUGGING | INFO | WARN | ERROR | FATAL, true
	case "debug":
		return DEBUG_INFO | BUFFER_INTERNAL | DEBUGGING | INFO | WARN | ERROR | FATAL, true
	case "info":
		return INFO | WARN | ERROR | FATAL, true
	case "warn":
		return WARN | ERROR | FATAL, true
	case "error":
		return ERROR | FATAL, true
	}
	return 0, false
}
