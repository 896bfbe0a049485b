package result

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

func TestPlugin_Run(t *testing.T) {
	testCases := []struct {
		description string
		result      string
		items       map[string]interface{}
		expect      map[string][]interface{}
	}{
		{
			description: "string and typed values",
			result: `<item name="comment">approved</item>
<item name="_priority" type="integer">2</item>
<item name="_approved" type="boolean">true</item>
<item name="_rate" type="double">0.5</item>`,
			expect: map[string][]interface{}{
				"comment":   {"approved"},
				"_priority": {2},
				"_approved": {true},
				"_rate":     {0.5},
			},
		},
		{
			description: "repeated names collect values",
			result:      `<item name="team">alpha</item><item name="Team">beta</item>`,
			expect:      map[string][]interface{}{"team": {"alpha", "beta"}},
		},
		{
			description: "dates",
			result:      `<item name="_due" type="date" format="yyyy-MM-dd">2024-05-01</item><item name="_start" type="date">2024-05-01T10:00:00Z</item>`,
			expect: map[string][]interface{}{
				"_due":   {time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
				"_start": {time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
			},
		},
		{
			description: "item value placeholder",
			result:      `<item name="summary">ticket <itemvalue>_subject</itemvalue></item>`,
			items:       map[string]interface{}{"_subject": "Printer"},
			expect:      map[string][]interface{}{"summary": {"ticket Printer"}},
		},
		{
			description: "file item",
			result:      `<item name="$file">report.pdf</item>`,
			expect:      map[string][]interface{}{"$file": {"report.pdf"}},
		},
		{
			description: "model tag ignored",
			result:      `<model version="2.0.0" event="10"/>`,
			expect:      map[string][]interface{}{},
		},
	}
	for _, testCase := range testCases {
		workitem := model.NewWorkItem("1.0.0", 1000, 10)
		for k, v := range testCase.items {
			workitem.Set(k, v)
		}
		event := &model.Event{ID: 10, TaskID: 1000, Items: model.Items{}}
		event.Items.Set(model.EventItemResult, testCase.result)
		plugin := New()
		require.NoError(t, plugin.Init(context.Background(), nil))
		actual, err := plugin.Run(context.Background(), workitem, event)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		for name, values := range testCase.expect {
			assert.EqualValues(t, values, actual.Items.Values(name), testCase.description+" "+name)
		}
		assert.Equal(t, 1000, actual.TaskID(), testCase.description)
	}
}

func TestPlugin_Run_Errors(t *testing.T) {
	testCases := []struct {
		description string
		result      string
	}{
		{description: "reserved name", result: `<item name="$taskid">2000</item>`},
		{description: "unclosed item", result: `<item name="comment">approved`},
		{description: "missing name", result: `<item type="string">approved</item>`},
		{description: "invalid integer", result: `<item name="_priority" type="integer">high</item>`},
		{description: "unsupported type", result: `<item name="_priority" type="xml">2</item>`},
	}
	for _, testCase := range testCases {
		event := &model.Event{ID: 10, TaskID: 1000, Items: model.Items{}}
		event.Items.Set(model.EventItemResult, testCase.result)
		_, err := New().Run(context.Background(), model.NewWorkItem("1.0.0", 1000, 10), event)
		pluginErr := &types.PluginError{}
		if assert.True(t, errors.As(err, &pluginErr), testCase.description) {
			assert.Equal(t, types.InvalidFormat, pluginErr.Code, testCase.description)
			assert.Equal(t, Name, pluginErr.Context, testCase.description)
		}
	}
}

func TestPlugin_Run_NoResult(t *testing.T) {
	workitem := model.NewWorkItem("1.0.0", 1000, 10)
	before := workitem.Clone()
	actual, err := New().Run(context.Background(), workitem, &model.Event{ID: 10, TaskID: 1000})
	require.NoError(t, err)
	assert.Equal(t, before, actual)
}
