package model

import (
	"github.com/viant/structology/conv"
)

// Well known workitem item names.
const (
	ItemModelVersion     = "$modelversion"
	ItemTaskID           = "$taskid"
	ItemEventID          = "$eventid"
	ItemEventIDList      = "$eventidlist"
	ItemRuns             = "$runs"
	ItemUniqueID         = "$uniqueid"
	ItemUniqueIDSource   = "$uniqueidsource"
	ItemUniqueIDVersions = "$uniqueidversions"
	ItemWorkItemID       = "$workitemid"
	ItemTransactionID    = "$transactionid"
	ItemIsVersion        = "$isversion"
	ItemCreatedVersion   = "$created.version"
	ItemWorkflowGroup    = "$workflowgroup"
	ItemWorkflowStatus   = "$workflowstatus"
	ItemLastTask         = "$lasttask"
	ItemLastEvent        = "$lastevent"
	ItemLastEventDate    = "$lasteventdate"
	ItemEventLog         = "$eventlog"
	ItemEventLogComment  = "$eventlogcomment"
	ItemType             = "type"

	ItemAdapterErrorContext = "adapter.error_context"
	ItemAdapterErrorCode    = "adapter.error_code"
	ItemAdapterErrorParams  = "adapter.error_params"
	ItemAdapterErrorMessage = "adapter.error_message"
)

// WorkItem represents a business document processed by the kernel
type WorkItem struct {
	Items Items `json:"items" yaml:"items"`
}

// ModelVersion returns model version
func (w *WorkItem) ModelVersion() string {
	return w.Items.String(ItemModelVersion)
}

// SetModelVersion sets model version
func (w *WorkItem) SetModelVersion(version string) *WorkItem {
	w.Items.Set(ItemModelVersion, version)
	return w
}

// TaskID returns current task id
func (w *WorkItem) TaskID() int {
	return w.Items.Int(ItemTaskID)
}

// SetTaskID sets task id
func (w *WorkItem) SetTaskID(id int) *WorkItem {
	w.Items.Set(ItemTaskID, id)
	return w
}

// EventID returns requested event id
func (w *WorkItem) EventID() int {
	return w.Items.Int(ItemEventID)
}

// SetEventID sets event id
func (w *WorkItem) SetEventID(id int) *WorkItem {
	w.Items.Set(ItemEventID, id)
	return w
}

// Runs returns number of processed events
func (w *WorkItem) Runs() int {
	return w.Items.Int(ItemRuns)
}

// UniqueID returns unique id
func (w *WorkItem) UniqueID() string {
	return w.Items.String(ItemUniqueID)
}

// WorkflowGroup returns workflow group of the current task
func (w *WorkItem) WorkflowGroup() string {
	return w.Items.String(ItemWorkflowGroup)
}

// Set replaces item values
func (w *WorkItem) Set(name string, values ...interface{}) *WorkItem {
	w.Items.Set(name, values...)
	return w
}

// Clone returns a deep copy
func (w *WorkItem) Clone() *WorkItem {
	if w == nil {
		return nil
	}
	return &WorkItem{Items: w.Items.Clone()}
}

// Decode converts single valued items into the supplied destination pointer
func (w *WorkItem) Decode(dest interface{}) error {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	converter := conv.NewConverter(options)
	return converter.Convert(w.Items.Map(), dest)
}

// NewWorkItem creates a workitem for the supplied model position
func NewWorkItem(modelVersion string, taskID, eventID int) *WorkItem {
	ret := &WorkItem{Items: Items{}}
	ret.SetModelVersion(modelVersion)
	ret.SetTaskID(taskID)
	ret.SetEventID(eventID)
	return ret
}
