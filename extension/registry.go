package extension

import (
	"strings"
	"sync"
)

// Registry keeps plugins and adapters by name, plugins also keep registration order
type Registry struct {
	mux         sync.RWMutex
	plugins     map[string]Plugin
	pluginNames []string
	adapters    map[string]Adapter
	generic     []string
}

// RegisterPlugin registers a plugin, a plugin with the same name is replaced
func (r *Registry) RegisterPlugin(plugin Plugin) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if _, ok := r.plugins[plugin.Name()]; !ok {
		r.pluginNames = append(r.pluginNames, plugin.Name())
	}
	r.plugins[plugin.Name()] = plugin
}

// Plugin returns a plugin by name. Qualified class like names are resolved by
// their lower-cased last segment without the Plugin suffix, e.g.
// org.imixs.workflow.engine.plugins.ResultPlugin resolves to result.
func (r *Registry) Plugin(name string) Plugin {
	r.mux.RLock()
	defer r.mux.RUnlock()
	if ret, ok := r.plugins[name]; ok {
		return ret
	}
	return r.plugins[shortName(name)]
}

// PluginNames returns plugin names in registration order
func (r *Registry) PluginNames() []string {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return append([]string{}, r.pluginNames...)
}

// RegisterAdapter registers an adapter
func (r *Registry) RegisterAdapter(adapter Adapter) {
	r.mux.Lock()
	defer r.mux.Unlock()
	name := adapter.Name()
	if _, ok := r.adapters[name]; !ok && IsGeneric(adapter) {
		r.generic = append(r.generic, name)
	}
	r.adapters[name] = adapter
}

// Adapter returns an adapter by name
func (r *Registry) Adapter(name string) Adapter {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.adapters[name]
}

// GenericAdapters returns generic adapters in registration order
func (r *Registry) GenericAdapters() []Adapter {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make([]Adapter, 0, len(r.generic))
	for _, name := range r.generic {
		ret = append(ret, r.adapters[name])
	}
	return ret
}

// NewRegistry creates a registry
func NewRegistry(options ...Option) *Registry {
	ret := &Registry{
		plugins:  map[string]Plugin{},
		adapters: map[string]Adapter{},
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func shortName(name string) string {
	if index := strings.LastIndex(name, "."); index != -1 {
		name = name[index+1:]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if trimmed := strings.TrimSuffix(name, "plugin"); trimmed != "" {
		name = trimmed
	}
	return name
}
