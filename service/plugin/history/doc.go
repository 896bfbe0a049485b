// Package history implements the plugin recording the event history.message
// in the $history item of a workitem.
package history
