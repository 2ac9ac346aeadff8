package logger

// Logger is the structured logging surface used across the service.
// Concrete backends live in subpackages (see zap_adapter).
type Logger interface {
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field struct {
	Key   string
	Value any
}

func NewField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// ErrorField is a shorthand for NewField("error", err).
func ErrorField(err error) Field {
	return Field{Key: "error", Value: err}
}
