package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run executes fn and swallows any panic with a logged stack. Background
// work (cron ticks, batch items) goes through here so one bad post or
// message never takes the process down.
func Run(fn func()) {
	RunWithComponent(fn, "safe.Run")
}

func RunWithComponent(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}
