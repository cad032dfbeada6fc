package log

// Logger is the minimal leveled, structured interface the dirpasswd packages
// log through. A *zap.SugaredLogger satisfies it directly.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}

var dft Logger = nopLogger{}

// SetLogger replace the default logger
func SetLogger(l Logger) {
	if l != nil {
		dft = l
	}
}

// GetLogger return the default logger
func GetLogger() Logger {
	return dft
}
