package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fanout delivers each inventory event to every configured sink. A failing
// sink does not stop delivery to the others.
type Fanout struct {
	publishers []Publisher
	log        Logger
}

// NewFanout drops nil entries from pubs.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp, log: ensureLogger(log)}
}

// Publish returns how many sinks accepted evt, joined with the errors of
// those that did not.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.publishers) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for _, p := range f.publishers {
		started := time.Now()
		err := p.Publish(ctx, evt)
		if err == nil {
			delivered++
			continue
		}
		f.log.WarnObj("inventory event not delivered", "publisher_failure", map[string]any{
			"publisher_id":   p.ID(),
			"publisher_type": p.Type(),
			"hotel_id":       evt.HotelID,
			"fingerprint":    evt.Fingerprint,
			"elapsed_ms":     time.Since(started).Milliseconds(),
			"error":          err.Error(),
		})
		errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases every sink, even when some fail to close.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.publishers)
}
