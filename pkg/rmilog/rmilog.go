package rmilog

import (
	"log"
	"os"
	"sync"
)

var (
	loggersLock sync.Mutex
	loggers     = map[string]*rmilogger{}
)

// AddLogger registers a named backend. dst must implement Println, e.g. a
// *log.Logger or a *Ring. Re-registering an existing name replaces it.
func AddLogger(name string, dst logger, level Level, color bool) {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	loggers[name] = &rmilogger{logger: dst, Level: level, Color: color}
}

// AddFilter suppresses any log line containing s on the named backend.
func AddFilter(name, s string) {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	if l, ok := loggers[name]; ok {
		l.filters = append(l.filters, s)
	}
}

// DelLogger removes a named backend.
func DelLogger(name string) {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	delete(loggers, name)
}

// WillLog reports whether any registered backend would emit at level.
func WillLog(level Level) bool {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	for _, l := range loggers {
		if level >= l.Level {
			return true
		}
	}
	return false
}

func init() {
	AddLogger("stdio", log.New(os.Stderr, "", log.Ldate|log.Ltime), INFO, false)
}

func dispatch(level Level, format string, arg ...interface{}) {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	for _, l := range loggers {
		l.log(level, "", format, arg...)
	}
}

func dispatchln(level Level, arg ...interface{}) {
	loggersLock.Lock()
	defer loggersLock.Unlock()

	for _, l := range loggers {
		l.logln(level, "", arg...)
	}
}

func Debug(format string, arg ...interface{}) { dispatch(DEBUG, format, arg...) }
func Info(format string, arg ...interface{})  { dispatch(INFO, format, arg...) }
func Warn(format string, arg ...interface{})  { dispatch(WARN, format, arg...) }
func Error(format string, arg ...interface{}) { dispatch(ERROR, format, arg...) }

func Debugln(arg ...interface{}) { dispatchln(DEBUG, arg...) }
func Infoln(arg ...interface{})  { dispatchln(INFO, arg...) }
func Warnln(arg ...interface{})  { dispatchln(WARN, arg...) }
func Errorln(arg ...interface{}) { dispatchln(ERROR, arg...) }

// Fatal logs at FATAL on every backend and exits the process.
func Fatal(format string, arg ...interface{}) {
	dispatch(FATAL, format, arg...)
	os.Exit(1)
}

// Fatalln logs at FATAL on every backend and exits the process.
func Fatalln(arg ...interface{}) {
	dispatchln(FATAL, arg...)
	os.Exit(1)
}
