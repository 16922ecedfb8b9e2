package events

import (
	"context"

	"formfitness/internal/logger"
	"formfitness/internal/metrics"
)

type forwarding struct {
	Bus
	targets []Publisher
}

// Forward returns a bus that also copies every published event to targets.
// A failing target is logged; the event still reaches the bus subscribers.
func Forward(bus Bus, targets ...Publisher) Bus {
	if len(targets) == 0 {
		return bus
	}
	return &forwarding{Bus: bus, targets: targets}
}

func (f *forwarding) Publish(ctx context.Context, e Event) error {
	for _, t := range f.targets {
		if err := t.Publish(ctx, e); err != nil {
			logger.Error("Failed to forward event", "type", e.Type, "event_id", e.ID, "error", err)
		}
	}
	return f.Bus.Publish(ctx, e)
}

// Emit publishes e and logs instead of failing; events never undo a committed change.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Error("Failed to publish event", "type", e.Type, "event_id", e.ID, "error", err)
		return
	}
	metrics.RecordEvent(string(e.Type))
}
