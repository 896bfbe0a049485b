package model

import "strings"

// Event item names.
const (
	EventItemResult           = "workflow.result"
	EventItemResultDeprecated = "txtactivityresult"
	EventItemAdapterID        = "adapter.id"
	EventItemLogComment       = "txtworkflowactivitylogcomment"
	EventItemDataObjects      = "dataobjects"
	EventItemMailSubject      = "txtmailsubject"
	EventItemMailBody         = "rtfmailbody"
)

// Event represents a transition of a task
type Event struct {
	ID            int        `json:"id" yaml:"id"`
	TaskID        int        `json:"taskId" yaml:"taskId"`
	Name          string     `json:"name,omitempty" yaml:"name,omitempty"`
	NextTaskID    int        `json:"nextTaskId,omitempty" yaml:"nextTaskId,omitempty"`
	FollowUp      bool       `json:"followUp,omitempty" yaml:"followUp,omitempty"`
	NextEventID   int        `json:"nextEventId,omitempty" yaml:"nextEventId,omitempty"`
	Exclusive     Conditions `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	Split         Conditions `json:"split,omitempty" yaml:"split,omitempty"`
	AdapterIDs    []string   `json:"adapterIds,omitempty" yaml:"adapterIds,omitempty"`
	StartEvent    bool       `json:"startEvent,omitempty" yaml:"startEvent,omitempty"`
	Documentation string     `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	ModelVersion  string     `json:"modelVersion,omitempty" yaml:"modelVersion,omitempty"`
	Items         Items      `json:"items,omitempty" yaml:"items,omitempty"`
}

// Conditions returns exclusive conditions keyed by target, nil when the event is not conditional
func (e *Event) Conditions() map[string]string {
	return e.Exclusive.Map()
}

// SplitConditions returns split conditions keyed by target
func (e *Event) SplitConditions() map[string]string {
	return e.Split.Map()
}

// Result returns the workflow result definition
func (e *Event) Result() string {
	if result := e.Items.String(EventItemResult); result != "" {
		return result
	}
	return e.Items.String(EventItemResultDeprecated)
}

// LogComment returns the optional event log comment
func (e *Event) LogComment() string {
	return strings.TrimSpace(e.Items.String(EventItemLogComment))
}

// Clone returns a deep copy
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	ret := *e
	ret.Exclusive = e.Exclusive.Clone()
	ret.Split = e.Split.Clone()
	if e.AdapterIDs != nil {
		ret.AdapterIDs = append([]string{}, e.AdapterIDs...)
	}
	ret.Items = e.Items.Clone()
	return &ret
}
