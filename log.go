package rootpool

import "go.uber.org/zap"

// loggerOrNop is a small convenience wrapper so an Allocator built from
// Options with no Logger never has a nil *zap.Logger to call through.
func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
