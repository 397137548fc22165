package session

import "github.com/goliatone/go-logger/glog"

// LoggerProviderFunc adapts a function into a LoggerProvider.
type LoggerProviderFunc func(name string) Logger

// GetLogger satisfies the LoggerProvider interface.
func (f LoggerProviderFunc) GetLogger(name string) Logger {
	if f == nil {
		return defLogger{}
	}
	return f(name)
}

// ResolveLogger resolves a (provider, logger) pair for the named component.
// An explicit logger wins; otherwise the provider is consulted; otherwise
// the glog-backed default is used. The returned provider always yields the
// resolved logger for the given name so components can hand scopes downward.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if logger == nil && provider != nil {
		logger = provider.GetLogger(name)
	}

	if logger == nil {
		logger = defaultLogger(name)
	}

	if provider == nil {
		resolved := logger
		provider = LoggerProviderFunc(func(string) Logger {
			return resolved
		})
	}

	return provider, logger
}

func defaultLogger(name string) Logger {
	base := glog.NewLogger(
		glog.WithName("session"),
		glog.WithLevel(glog.Info),
	)
	return base.GetLogger(name)
}

// defLogger is the last-resort fallback when no logger can be resolved.
type defLogger struct{}

func (defLogger) Debug(string, ...any) {}
func (defLogger) Info(string, ...any)  {}
func (defLogger) Warn(string, ...any)  {}
func (defLogger) Error(string, ...any) {}
