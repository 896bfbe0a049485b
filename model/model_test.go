package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/bpmnflow/model/types"
)

func newTestModel(t *testing.T) *Model {
	builder := NewBuilder(&Definition{Version: "1.0.0", Plugins: []string{"result"}})
	builder.AddGroup("Ticket")
	require.NoError(t, builder.AddTask(&Task{ID: 1000, Name: "Task 1", Group: "Ticket", Start: true, Items: Items{"txttype": {"workitem"}}}))
	require.NoError(t, builder.AddTask(&Task{ID: 1100, Name: "Task 2", Group: "Ticket", End: true}))
	require.NoError(t, builder.AddEvent(&Event{ID: 10, TaskID: 1000, Name: "submit", NextTaskID: 1100,
		Exclusive: Conditions{{Target: Target{Kind: TargetTask, ID: 1100}, Expression: "workitem._budget[0]>100"}},
		Items:     Items{"workflow.result": {"<item name='a'>b</item>"}}}))
	require.NoError(t, builder.AddEvent(&Event{ID: 20, TaskID: 1000, Name: "save", NextTaskID: 1000}))
	m, err := builder.Build()
	require.NoError(t, err)
	return m
}

func TestModel_NoLeakage(t *testing.T) {
	m := newTestModel(t)

	task, err := m.Task(1000)
	require.NoError(t, err)
	task.Name = "changed"
	task.Items.Set("txttype", "changed")
	again, err := m.Task(1000)
	require.NoError(t, err)
	assert.Equal(t, "Task 1", again.Name)
	assert.Equal(t, "workitem", again.Type())

	event, err := m.Event(1000, 10)
	require.NoError(t, err)
	event.NextTaskID = 0
	event.Exclusive[0].Expression = "false"
	event.Items.Append("workflow.result", "x")
	sameEvent, err := m.Event(1000, 10)
	require.NoError(t, err)
	assert.Equal(t, 1100, sameEvent.NextTaskID)
	assert.Equal(t, "workitem._budget[0]>100", sameEvent.Conditions()["task=1100"])
	assert.Len(t, sameEvent.Items.Values("workflow.result"), 1)

	groups := m.Groups()
	groups[0] = "other"
	assert.Equal(t, []string{"Ticket"}, m.Groups())

	events := m.Events(1000)
	events[0].Name = "changed"
	assert.Equal(t, "submit", m.Events(1000)[0].Name)
}

func TestModel_Queries(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "1.0.0", m.Version())
	assert.Len(t, m.Tasks(), 2)
	assert.Len(t, m.StartTasks("Ticket"), 1)
	assert.Equal(t, "Task 1", m.StartTasks("")[0].Name)
	assert.Equal(t, "Task 2", m.EndTasks("Ticket")[0].Name)
	assert.Empty(t, m.StartTasks("Other"))
	assert.Len(t, m.Events(1000), 2)
	assert.Empty(t, m.Events(1100))
	assert.True(t, m.HasGroup("Ticket"))

	_, err := m.Task(9999)
	assert.True(t, errors.Is(err, types.ErrEntryNotFound))
	_, err = m.Event(1100, 10)
	var modelErr *types.ModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, types.UndefinedModelEntry, modelErr.Code)
}

func TestBuilder_Validation(t *testing.T) {
	testCases := []struct {
		description string
		build       func(b *Builder) error
	}{
		{
			description: "duplicate task",
			build: func(b *Builder) error {
				_ = b.AddTask(&Task{ID: 1000, Name: "a"})
				return b.AddTask(&Task{ID: 1000, Name: "b"})
			},
		},
		{
			description: "invalid task id",
			build: func(b *Builder) error {
				return b.AddTask(&Task{Name: "a"})
			},
		},
		{
			description: "event with unknown task",
			build: func(b *Builder) error {
				return b.AddEvent(&Event{ID: 10, TaskID: 1000})
			},
		},
		{
			description: "duplicate event",
			build: func(b *Builder) error {
				_ = b.AddTask(&Task{ID: 1000, Name: "a"})
				_ = b.AddEvent(&Event{ID: 10, TaskID: 1000})
				return b.AddEvent(&Event{ID: 10, TaskID: 1000})
			},
		},
	}
	for _, testCase := range testCases {
		builder := NewBuilder(&Definition{Version: "1.0.0"})
		assert.Error(t, testCase.build(builder), testCase.description)
	}

	_, err := NewBuilder(&Definition{}).Build()
	assert.Error(t, err)
}

func TestConditions_Ordered(t *testing.T) {
	conditions := Conditions{
		{Target: Target{Kind: TargetTask, ID: 1200}, Expression: "true"},
		{Target: Target{Kind: TargetTask, ID: 1100}, Expression: "workitem.a"},
		{Target: Target{Kind: TargetEvent, ID: 20}, Expression: "workitem.b"},
	}
	ordered := conditions.Ordered()
	assert.Equal(t, "task=1100", ordered[0].Target.Key())
	assert.Equal(t, "event=20", ordered[1].Target.Key())
	assert.Equal(t, "task=1200", ordered[2].Target.Key())

	target, err := ParseTarget("event=20")
	require.NoError(t, err)
	assert.Equal(t, Target{Kind: TargetEvent, ID: 20}, target)
	_, err = ParseTarget("gateway=1")
	assert.Error(t, err)
}
