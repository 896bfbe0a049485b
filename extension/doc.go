// Package extension defines the plugin and adapter contracts invoked by the
// kernel for every processed event, and the registry resolving them by name.
package extension
