package media

import (
	"context"
	"log/slog"
)

// compensator records undo actions for side effects that a later failure must revert.
type compensator struct {
	undo []func(context.Context) error
}

func (c *compensator) push(fn func(context.Context) error) {
	c.undo = append(c.undo, fn)
}

// run executes the recorded actions newest first. It runs even when ctx is
// already canceled, since cleanup is what a canceled request needs most.
func (c *compensator) run(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(c.undo) - 1; i >= 0; i-- {
		if err := c.undo[i](ctx); err != nil {
			slog.Error("compensating action failed", slog.String("error", err.Error()))
		}
	}
	c.undo = nil
}
