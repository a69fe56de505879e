package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

const commandTimeout = 10 * time.Second

// WrapWithLogging wraps a command handler with timing, outcome logging and
// a hard timeout.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			logOutcome("cmd", name, e.User().Username, start, err)
			return err
		case <-time.After(commandTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_name", e.User().Username),
				slog.Duration("timeout", commandTimeout))
			return fmt.Errorf("command %s timed out after %s", name, commandTimeout)
		}
	}
}

// WrapComponentWithLogging is WrapWithLogging for component interactions.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		start := time.Now()

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			logOutcome("component", name, e.User().Username, start, err)
			return err
		case <-time.After(commandTimeout):
			slog.Error("Component interaction timed out",
				slog.String("type", "component"),
				slog.String("name", name),
				slog.String("user_name", e.User().Username),
				slog.Duration("timeout", commandTimeout))
			return fmt.Errorf("component %s timed out after %s", name, commandTimeout)
		}
	}
}

// WrapModalWithLogging is WrapWithLogging for modal submissions.
func WrapModalWithLogging(name string, h handler.ModalHandler) handler.ModalHandler {
	return func(e *handler.ModalEvent) error {
		start := time.Now()
		err := h(e)
		logOutcome("modal", name, e.User().Username, start, err)
		return err
	}
}

func logOutcome(kind, name, userName string, start time.Time, err error) {
	attrs := []any{
		slog.String("type", kind),
		slog.String("name", name),
		slog.String("user_name", userName),
		slog.Duration("took", time.Since(start)),
	}
	switch {
	case err != nil:
		slog.Error("Interaction failed", append(attrs, slog.Any("error", err))...)
	case time.Since(start) > 2*time.Second:
		slog.Warn("Interaction executed slowly", attrs...)
	default:
		slog.Info("Interaction completed", attrs...)
	}
}
