package logger

import (
	"io"
	"log"
	"os"
)

const flags = log.Ldate | log.Ltime | log.Lshortfile

var (
	Info    = log.New(os.Stdout, "INFO: ", flags)
	Warning = log.New(os.Stdout, "WARNING: ", flags)
	Error   = log.New(os.Stderr, "ERROR: ", flags)
	Debug   = log.New(io.Discard, "DEBUG: ", flags)
	HTTP    = log.New(os.Stdout, "HTTP: ", log.Ldate|log.Ltime)
)

// Setup reconfigures the leveled loggers from the environment. Debug output
// stays silenced unless APP_DEBUG is set.
func Setup() {
	if os.Getenv("APP_DEBUG") != "" {
		Debug.SetOutput(os.Stdout)
	}
}
