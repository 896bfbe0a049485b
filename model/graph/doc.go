// Package graph defines the raw process graph handed to the resolver: typed
// nodes and flows addressed by their diagram element id.
package graph
