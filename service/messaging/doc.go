// Package messaging defines the queue used by the kernel to publish split
// workitem versions.
package messaging
