// Package model contains the runtime representation of a resolved process
// model: tasks, events with their gateway conditions, the model definition and
// the workitem processed by the kernel.
//
// Models are built once with a Builder and are read-only afterwards. Every
// query returns a copy, so callers can modify returned tasks and events freely.
package model
