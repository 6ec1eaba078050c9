package asciimath

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger 全局日志记录器
var Logger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// SetLogger 设置自定义日志记录器
func SetLogger(logger logrus.FieldLogger) {
	Logger = logger
}
