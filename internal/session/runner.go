package session

import "context"

// Run drives a RUNNING session without a UI until the countdown expires
// or ctx is cancelled. Cancellation discards the session.
// onTick, when set, is called after every tick.
func Run(ctx context.Context, c *Controller, onTick func(*Controller)) error {
	for c.State() == StateRunning {
		select {
		case <-ctx.Done():
			_ = c.Discard()
			return ctx.Err()
		case _, ok := <-c.Ticks():
			if !ok {
				continue
			}
			c.Tick()
			if onTick != nil {
				onTick(c)
			}
		}
	}
	return nil
}
