// Package plugin provides helpers shared by the built-in workflow plugins.
package plugin
