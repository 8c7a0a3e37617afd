// Package publisher holds the destination adapters. Each publisher wraps one
// outbound platform call and fails independently: an error from one never
// blocks another, and none is ever fatal to the control loop.
package publisher

import (
	"context"

	"trendbot/internal/processor"
)

type Publisher interface {
	Name() string
	// Budget is the destination's length constraint for formatting.
	Budget() processor.Budget
	Publish(ctx context.Context, text string) error
}
