package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"SportClubAPI/external/smtp"
	"SportClubAPI/internal/middleware"
	"SportClubAPI/internal/services"
	"SportClubAPI/internal/sessions"
	"SportClubAPI/internal/verification"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter writes to standard output and, once initLogRotator was called,
// to the rotated log file.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Loggers per subsystem. A single backend logger is created and all subsystem
// loggers created from it write to the backend. When adding new subsystems,
// add the subsystem logger variable here and to the subsystemLoggers map.
var (
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is nil unless a log file was configured. It should be
	// closed on shutdown.
	logRotator *rotator.Rotator

	log       = backendLog.Logger("SSCA")
	svcLog    = backendLog.Logger("SVCS")
	verifyLog = backendLog.Logger("VRFY")
	sessLog   = backendLog.Logger("SESS")
	smtpLog   = backendLog.Logger("SMTP")
	mdlwLog   = backendLog.Logger("MDLW")
)

func init() {
	services.UseLogger(svcLog)
	verification.UseLogger(verifyLog)
	sessions.UseLogger(sessLog)
	smtp.UseLogger(smtpLog)
	middleware.UseLogger(mdlwLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"SSCA": log,
	"SVCS": svcLog,
	"VRFY": verifyLog,
	"SESS": sessLog,
	"SMTP": smtpLog,
	"MDLW": mdlwLog,
}

// initLogRotator makes logFile a log output and creates roll files in the
// same directory.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	// Defaults to info if the log level is invalid.
	level, _ := slog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// parseAndSetDebugLevels accepts either a single level for every subsystem
// or a comma separated list of <subsystem>=<level> pairs.
func parseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		if _, ok := slog.LevelFromString(debugLevel); !ok {
			return fmt.Errorf("the specified debug level [%v] is invalid", debugLevel)
		}
		setLogLevels(debugLevel)
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.SplitN(pair, "=", 2)
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%v]", pair)
		}
		subsysID, logLevel := fields[0], fields[1]
		if _, ok := subsystemLoggers[subsysID]; !ok {
			return fmt.Errorf("the specified subsystem [%v] is invalid", subsysID)
		}
		if _, ok := slog.LevelFromString(logLevel); !ok {
			return fmt.Errorf("the specified debug level [%v] is invalid", logLevel)
		}
		setLogLevel(subsysID, logLevel)
	}
	return nil
}
