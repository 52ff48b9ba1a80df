package logger

import (
	"fmt"
	"os"

	"github.com/goto/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/goto/diffpack/config"
)

// PlainFormatter drops all decoration, command output should read like a
// console conversation.
type PlainFormatter struct{}

func (*PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(fmt.Sprintf("%s\n", entry.Message)), nil
}

// NewClientLogger initializes the default logger used by all client
// commands.
func NewClientLogger() log.Logger {
	return NewClientLoggerWithLevel(config.LogLevelInfo)
}

func NewClientLoggerWithLevel(level config.LogLevel) log.Logger {
	return log.NewLogrus(
		log.LogrusWithLevel(level.String()),
		log.LogrusWithWriter(os.Stdout),
		log.LogrusWithFormatter(new(PlainFormatter)),
	)
}
