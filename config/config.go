package config

// EmptyPath is used when the config file flag was not supplied.
const EmptyPath = ""

// overridden by ldflags at release build time
var (
	BuildVersion = "dev"
	BuildCommit  = ""
	BuildDate    = ""
)

type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

func (l LogLevel) String() string {
	return string(l)
}
