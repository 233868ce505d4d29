// Package logging builds the shared logger. Output always goes to
// stderr: stdout belongs to the MCP JSON-RPC stream and a single stray
// line there breaks the protocol.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is re-exported so callers don't import logrus directly.
type Fields = logrus.Fields

// New creates a JSON-formatted logger at the given level, tagged with
// the service name.
func New(service, level string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger.WithField("service", service)
}
