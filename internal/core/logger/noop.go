package logger

import "context"

// noopLogger discards entries until Initialize installs a real logger, which keeps tests quiet.
type noopLogger struct{}

func (n *noopLogger) Log(context.Context, LogEntry)  {}
func (n *noopLogger) Shutdown(context.Context) error { return nil }
