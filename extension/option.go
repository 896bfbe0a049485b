package extension

type Option func(*Registry)

// WithPlugins registers plugins
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Registry) {
		for _, plugin := range plugins {
			r.RegisterPlugin(plugin)
		}
	}
}

// WithAdapters registers adapters
func WithAdapters(adapters ...Adapter) Option {
	return func(r *Registry) {
		for _, adapter := range adapters {
			r.RegisterAdapter(adapter)
		}
	}
}
