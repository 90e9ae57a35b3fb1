package logger

import "sync"

// named holds loggers registered by component or application name.
var named sync.Map // map[string]*Logger

// Register makes l the logger returned by Get(name). A later Register under
// the same name replaces it.
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component when none is.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
