package notifier

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes the run message to the given logger, one record per
// non-empty line.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs messages via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each line of message. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(_ context.Context, message string) error {
	for _, line := range strings.Split(message, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n.logger.Info("notification", "line", line)
	}
	return nil
}
