package dedupe

import "github.com/okian/seedline/internal/domain/model"

// Option applies a configuration option to the Deduper.
type Option func(*Deduper)

// WithKeyFunc overrides how teams are keyed. Nil is ignored.
func WithKeyFunc(key func(model.Team) string) Option {
	return func(d *Deduper) {
		if key != nil {
			d.key = key
		}
	}
}
