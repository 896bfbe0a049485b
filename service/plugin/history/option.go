package history

type Option func(*Plugin)

// WithMaxEntries limits the number of history entries
func WithMaxEntries(maxEntries int) Option {
	return func(p *Plugin) {
		if maxEntries > 0 {
			p.maxEntries = maxEntries
		}
	}
}
