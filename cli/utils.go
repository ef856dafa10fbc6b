package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/volumetric/logging"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "Info: "+format+"\n", a...)
}

// warningf prints a message prefixed with "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, "Warning: "+format+"\n", a...)
}

// newLogger returns the logger for a command. Logs go to the error writer at WARN, or DEBUG with
// --debug, and additionally to --log-file when set. The logger is also the global logger until the
// returned function runs, which restores the previous one and flushes and closes the outputs.
func newLogger(c *cli.Context) (logging.Logger, func()) {
	logger := logging.NewBlankLogger("vashape")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if c.Bool(flagDebug) {
		logger.SetLevel(logging.DEBUG)
	} else {
		logger.SetLevel(logging.WARN)
	}

	var closer io.Closer
	if path := c.String(flagLogFile); path != "" {
		var appender logging.Appender
		appender, closer = logging.NewFileAppender(logging.FileConfig{Path: path, MaxBackups: 3, Compress: true})
		logger.AddAppender(appender)
	}

	// shapes built without an explicit logger fall back to the global one
	prev := logging.Global()
	logging.ReplaceGlobal(logger)
	return logger, func() {
		logging.ReplaceGlobal(prev)
		//nolint:errcheck
		logger.Sync()
		if closer != nil {
			//nolint:errcheck
			closer.Close()
		}
	}
}

// parseVector parses "x,y,z".
func parseVector(s string) (r3.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vector{}, errors.Errorf("expected x,y,z but got %q", s)
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid component %q", part)
		}
		v[i] = f
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
