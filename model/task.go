package model

// Task item names set by the resolver.
const (
	TaskItemDataObjects          = "dataobjects"
	TaskItemType                 = "txttype"
	TaskItemBoundaryTarget       = "boundaryevent.targetevent"
	TaskItemBoundaryTimeDuration = "boundaryevent.timereventdefinition.timeduration"
)

// Task represents a stable state of a process
type Task struct {
	ID            int    `json:"id" yaml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Group         string `json:"group,omitempty" yaml:"group,omitempty"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Start         bool   `json:"start,omitempty" yaml:"start,omitempty"`
	End           bool   `json:"end,omitempty" yaml:"end,omitempty"`
	Items         Items  `json:"items,omitempty" yaml:"items,omitempty"`
}

// Type returns the optional workitem type assigned when entering the task
func (t *Task) Type() string {
	return t.Items.String(TaskItemType)
}

// Clone returns a deep copy
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	ret := *t
	ret.Items = t.Items.Clone()
	return &ret
}
