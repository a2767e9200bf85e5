package core

// NopLogger discards everything; it stands in for the real logger in tests.
type NopLogger struct{}

var _ Logger = (*NopLogger)(nil)

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (NopLogger) Debug(msg string, args ...interface{}) {}
func (NopLogger) Info(msg string, args ...interface{})  {}
func (NopLogger) Warn(msg string, args ...interface{})  {}
func (NopLogger) Error(msg string, args ...interface{}) {}
func (NopLogger) Fatal(msg string, args ...interface{}) {}
