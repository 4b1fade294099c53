package event

import "log/slog"

// Log returns a handler that writes every event to the logger at debug level
func Log(log *slog.Logger) Handler {
	return HandlerFunc(func(e Event) {
		log.Debug("game event",
			"type", e.Type.String(),
			"position", string(e.Position),
			"milestone", e.Milestone,
			"stage", e.Stage,
			"xp", e.XP,
			"level", e.Level,
		)
	})
}
