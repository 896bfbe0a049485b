package model

import (
	"fmt"
	"sort"

	"github.com/viant/bpmnflow/model/types"
)

type eventKey struct {
	taskID  int
	eventID int
}

// Model represents a resolved, read-only task/event catalog of one model version
type Model struct {
	definition *Definition
	groups     []string
	tasks      map[int]*Task
	taskIDs    []int
	events     map[eventKey]*Event
	byTask     map[int][]int
}

// Version returns model version
func (m *Model) Version() string {
	return m.definition.Version
}

// Definition returns a copy of the model definition
func (m *Model) Definition() *Definition {
	return m.definition.Clone()
}

// Groups returns workflow group names
func (m *Model) Groups() []string {
	return append([]string{}, m.groups...)
}

// HasGroup returns true if model defines the workflow group
func (m *Model) HasGroup(group string) bool {
	for _, candidate := range m.groups {
		if candidate == group {
			return true
		}
	}
	return false
}

// Task returns a copy of the task
func (m *Model) Task(id int) (*Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, &types.ModelError{Code: types.UndefinedModelEntry, Message: fmt.Sprintf("task %d not defined in model %s", id, m.Version())}
	}
	return task.Clone(), nil
}

// Tasks returns copies of all tasks ordered by id
func (m *Model) Tasks() []*Task {
	ret := make([]*Task, 0, len(m.taskIDs))
	for _, id := range m.taskIDs {
		ret = append(ret, m.tasks[id].Clone())
	}
	return ret
}

// StartTasks returns start tasks of a workflow group, all groups if empty
func (m *Model) StartTasks(group string) []*Task {
	return m.filterTasks(group, func(task *Task) bool { return task.Start })
}

// EndTasks returns end tasks of a workflow group, all groups if empty
func (m *Model) EndTasks(group string) []*Task {
	return m.filterTasks(group, func(task *Task) bool { return task.End })
}

// GroupTasks returns tasks of a workflow group
func (m *Model) GroupTasks(group string) []*Task {
	return m.filterTasks(group, func(task *Task) bool { return true })
}

func (m *Model) filterTasks(group string, accept func(task *Task) bool) []*Task {
	var ret []*Task
	for _, id := range m.taskIDs {
		task := m.tasks[id]
		if group != "" && task.Group != group {
			continue
		}
		if accept(task) {
			ret = append(ret, task.Clone())
		}
	}
	return ret
}

// Event returns a copy of the event assigned to the task
func (m *Model) Event(taskID, eventID int) (*Event, error) {
	event, ok := m.events[eventKey{taskID: taskID, eventID: eventID}]
	if !ok {
		return nil, &types.ModelError{Code: types.UndefinedModelEntry, Message: fmt.Sprintf("event %d.%d not defined in model %s", taskID, eventID, m.Version())}
	}
	return event.Clone(), nil
}

// Events returns copies of the task events ordered by id
func (m *Model) Events(taskID int) []*Event {
	ids := m.byTask[taskID]
	ret := make([]*Event, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, m.events[eventKey{taskID: taskID, eventID: id}].Clone())
	}
	return ret
}

// Builder assembles a model, it is not safe for concurrent use
type Builder struct {
	model *Model
}

// AddTask adds a task, duplicated ids are rejected
func (b *Builder) AddTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("task was nil")
	}
	if task.ID <= 0 {
		return fmt.Errorf("invalid task id %d (%s)", task.ID, task.Name)
	}
	if prev, ok := b.model.tasks[task.ID]; ok {
		return fmt.Errorf("duplicate task id %d: %q and %q", task.ID, prev.Name, task.Name)
	}
	b.model.tasks[task.ID] = task.Clone()
	b.model.taskIDs = append(b.model.taskIDs, task.ID)
	return nil
}

// HasTask returns true if task was added
func (b *Builder) HasTask(id int) bool {
	_, ok := b.model.tasks[id]
	return ok
}

// AddEvent adds an event to its task, duplicated task/event pairs are rejected
func (b *Builder) AddEvent(event *Event) error {
	if event == nil {
		return fmt.Errorf("event was nil")
	}
	if _, ok := b.model.tasks[event.TaskID]; !ok {
		return fmt.Errorf("event %d (%s) refers to unknown task %d", event.ID, event.Name, event.TaskID)
	}
	if event.ID <= 0 {
		return fmt.Errorf("invalid event id %d (%s)", event.ID, event.Name)
	}
	key := eventKey{taskID: event.TaskID, eventID: event.ID}
	if _, ok := b.model.events[key]; ok {
		return fmt.Errorf("duplicate event id %d.%d (%s)", event.TaskID, event.ID, event.Name)
	}
	b.model.events[key] = event.Clone()
	b.model.byTask[event.TaskID] = append(b.model.byTask[event.TaskID], event.ID)
	return nil
}

// HasEvent returns true if event was added to the task
func (b *Builder) HasEvent(taskID, eventID int) bool {
	_, ok := b.model.events[eventKey{taskID: taskID, eventID: eventID}]
	return ok
}

// AddGroup registers a workflow group
func (b *Builder) AddGroup(group string) {
	for _, candidate := range b.model.groups {
		if candidate == group {
			return
		}
	}
	b.model.groups = append(b.model.groups, group)
}

// Build returns the model, the builder must not be used afterwards
func (b *Builder) Build() (*Model, error) {
	ret := b.model
	if ret.definition == nil || ret.definition.Version == "" {
		return nil, fmt.Errorf("model version was empty")
	}
	sort.Ints(ret.taskIDs)
	for taskID := range ret.byTask {
		sort.Ints(ret.byTask[taskID])
	}
	sort.Strings(ret.groups)
	b.model = nil
	return ret, nil
}

// NewBuilder creates a model builder
func NewBuilder(definition *Definition) *Builder {
	return &Builder{model: &Model{
		definition: definition.Clone(),
		tasks:      map[int]*Task{},
		events:     map[eventKey]*Event{},
		byTask:     map[int][]int{},
	}}
}
