package importing

import (
	"context"
	"log/slog"

	"github.com/contre95/maichart/src/infra/watcher"
)

// Watcher reports debounced changes of a single file.
type Watcher interface {
	Start(ctx context.Context, path string) error
	Stop()
}

// Watch re-runs the import every time the watcher reports a change on input.
// It returns when ctx is cancelled or the event channel is closed.
func (s *Service) Watch(ctx context.Context, w Watcher, events <-chan watcher.FileEvent, input, output string) error {
	if err := w.Start(ctx, input); err != nil {
		return err
	}
	defer w.Stop()

	slog.Info("Watching for changes", "input", input)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.EventType == watcher.FileRemoved {
				slog.Warn("Input file was removed, waiting for it to come back", "path", ev.Path)
				continue
			}
			slog.Info("Input changed, filtering again", "path", ev.Path, "type", ev.EventType)
			summary, err := s.Run(ctx, input, output)
			if err != nil {
				slog.Error("Import run failed", "error", err)
				continue
			}
			slog.Info("Import run finished",
				"valid", summary.Info.ValidCount,
				"invalid", summary.Info.InvalidCount,
				"successRate", summary.Info.SuccessRate)
		}
	}
}
