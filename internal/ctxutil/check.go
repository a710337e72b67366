// Package ctxutil provides context helpers shared across the deploy
// pipeline.
package ctxutil

import "context"

// Canceled reports whether the context has been canceled or has exceeded
// its deadline. Deploy stages call it at entry so a run that was abandoned
// mid-pipeline stops before its next API call rather than after.
//
// ctx.Err() already returns nil while Done is still open, so no select
// with a default case is needed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
