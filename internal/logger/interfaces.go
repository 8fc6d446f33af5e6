package logger

// LoggerInterface is what components take so tests can pass a recorder.
type LoggerInterface interface {
	Debugf(s string, as ...interface{})
	Printf(s string, as ...interface{})
	Warnf(s string, as ...interface{})
	PrintError(source string, err error)
}
