package simtrees

type Logger interface {
	Info(message string, module string)
	Error(string)
}

type silentLogger struct{}

func (silentLogger) Info(string, string) {}
func (silentLogger) Error(string)        {}

var logger Logger = silentLogger{}

func SetLogger(l Logger) {
	logger = l
}
