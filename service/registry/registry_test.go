package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

func buildModel(t *testing.T, version string, groups ...string) *model.Model {
	builder := model.NewBuilder(&model.Definition{Version: version})
	for i, group := range groups {
		builder.AddGroup(group)
		require.NoError(t, builder.AddTask(&model.Task{ID: 1000 + i*100, Name: "Task", Group: group}))
	}
	ret, err := builder.Build()
	require.NoError(t, err)
	return ret
}

func TestRegistry_Add(t *testing.T) {
	registry := New()
	require.NoError(t, registry.Add(buildModel(t, "1.0.0", "Ticket")))
	err := registry.Add(buildModel(t, "1.0.0", "Other"))
	require.Error(t, err)
	modelErr := &types.ModelError{}
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, types.InvalidModel, modelErr.Code)
	actual, err := registry.Model("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ticket"}, actual.Groups())
	assert.Error(t, registry.Add(nil))
}

func TestRegistry_Lookup(t *testing.T) {
	registry := New()
	require.NoError(t, registry.Add(buildModel(t, "ticket-1.9.0", "Ticket")))
	require.NoError(t, registry.Add(buildModel(t, "ticket-1.10.0", "Ticket")))
	require.NoError(t, registry.Add(buildModel(t, "invoice-2.0.0", "Invoice", "Approval")))

	testCases := []struct {
		description string
		version     string
		group       string
		expected    string
	}{
		{description: "exact", version: "ticket-1.9.0", expected: "ticket-1.9.0"},
		{description: "regex highest", version: `ticket-1\..*`, expected: "ticket-1.10.0"},
		{description: "group fallback", version: "ticket-0.1.0", group: "Ticket", expected: "ticket-1.10.0"},
		{description: "second group", version: "legacy", group: "Approval", expected: "invoice-2.0.0"},
	}
	for _, testCase := range testCases {
		m, version, err := registry.Lookup(testCase.version, testCase.group)
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expected, version, testCase.description)
		assert.Equal(t, testCase.expected, m.Version(), testCase.description)
	}

	_, _, err := registry.Lookup("unknown", "Unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrModelNotFound))
	_, _, err = registry.Lookup("ticket-[", "")
	assert.True(t, errors.Is(err, types.ErrModelNotFound))
}

func TestRegistry_Queries(t *testing.T) {
	registry := New()
	require.NoError(t, registry.Add(buildModel(t, "1.0.0", "Ticket")))
	require.NoError(t, registry.Add(buildModel(t, "2.0.0", "Ticket", "Invoice")))
	assert.Equal(t, []string{"1.0.0", "2.0.0"}, registry.Versions())
	assert.Equal(t, []string{"Invoice", "Ticket"}, registry.Groups())
	assert.Equal(t, []string{"2.0.0", "1.0.0"}, registry.FindVersionsByGroup("Ticket"))
	assert.Equal(t, []string{"2.0.0"}, registry.FindVersionsByGroup("Invoice"))
	assert.Empty(t, registry.FindVersionsByGroup("None"))
	versions, err := registry.FindVersionsByRegex(`0\.0`)
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.0", "1.0.0"}, versions)
	versions, err = registry.FindVersionsByRegex(`^1\.0`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0"}, versions)
	_, err = registry.FindVersionsByRegex("(")
	assert.Error(t, err)
	assert.Equal(t, 2, registry.Len())
}

func TestRegistry_SharedStore(t *testing.T) {
	models := NewStore()
	first := New(WithStore(models))
	second := New(WithStore(models))
	require.NoError(t, first.Add(buildModel(t, "1.0.0", "Ticket")))
	actual, err := second.Model("1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", actual.Version())
	assert.Error(t, second.Add(buildModel(t, "1.0.0", "Ticket")))
}

func TestCompareVersions(t *testing.T) {
	versions := []string{"1.2.0", "1.10.0", "1.9.3", "1.10", "2.0.0-beta"}
	SortDescending(versions)
	assert.Equal(t, []string{"2.0.0-beta", "1.10.0", "1.10", "1.9.3", "1.2.0"}, versions)
	assert.Equal(t, 0, CompareVersions("1.0.0", "1.0.0"))
	assert.Equal(t, -1, CompareVersions("1.0", "1.0.1"))
}
