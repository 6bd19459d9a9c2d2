package species

import "log"

// logger wraps an optional *log.Logger so call sites don't need a nil
// check before every trace line. A Grammar logs nothing unless the host
// supplies a logger via WithLogger.
type logger struct {
	l *log.Logger
}

func (lg logger) Printf(format string, args ...any) {
	if lg.l == nil {
		return
	}
	lg.l.Printf(format, args...)
}
