// Package kernel processes workitems through resolved models.
//
// A call to Process runs the workitem event and every follow-up event it
// triggers. For each event the kernel runs signal adapters, the plugin chain
// and generic adapters, writes the event log, evaluates exclusive and parallel
// gateway conditions and updates the workflow status. Split branches that
// evaluate to false create processed workitem versions.
package kernel
