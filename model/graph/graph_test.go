package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_ConnectLinks(t *testing.T) {
	g := New("links.bpmn")
	require.NoError(t, g.AddNode(&Node{ID: "throw", Kind: KindLinkThrow, Link: "go"}))
	require.NoError(t, g.AddNode(&Node{ID: "catch", Kind: KindLinkCatch, Name: "go"}))
	require.NoError(t, g.AddNode(&Node{ID: "other", Kind: KindLinkCatch, Name: "elsewhere"}))
	assert.Error(t, g.AddNode(&Node{ID: "catch", Kind: KindTask}))

	assert.Equal(t, 1, g.ConnectLinks())
	assert.Equal(t, 0, g.ConnectLinks())
	outgoing := g.Outgoing("throw")
	require.Len(t, outgoing, 1)
	assert.Equal(t, "catch", outgoing[0].Target)
	assert.Equal(t, FlowLink, outgoing[0].Kind)
	assert.Len(t, g.Incoming("catch"), 1)
}

func TestGraph_Flows(t *testing.T) {
	g := New("")
	require.NoError(t, g.AddNode(&Node{ID: "task", Kind: KindTask, Number: 1000}))
	require.NoError(t, g.AddNode(&Node{ID: "note", Kind: KindAnnotation, Documentation: "hello"}))
	require.NoError(t, g.AddNode(&Node{ID: "doc", Kind: KindDataObject, Name: "invoice"}))
	require.NoError(t, g.AddNode(&Node{ID: "end", Kind: KindEndEvent}))
	require.NoError(t, g.AddFlow(&Flow{ID: "f1", Source: "task", Target: "end"}))
	require.NoError(t, g.AddFlow(&Flow{ID: "a1", Kind: FlowAssociation, Source: "note", Target: "task"}))
	require.NoError(t, g.AddFlow(&Flow{ID: "a2", Kind: FlowAssociation, Source: "task", Target: "doc"}))
	require.NoError(t, g.AddFlow(&Flow{ID: "m1", Kind: FlowMessage, Source: "task", Target: "end"}))
	assert.Error(t, g.AddFlow(&Flow{ID: "broken", Source: "task"}))

	assert.Len(t, g.Outgoing("task"), 1)
	assert.Len(t, g.Outgoing("task", FlowMessage), 1)
	assert.Len(t, g.Flows(FlowAssociation), 2)
	assert.Equal(t, "note", g.Associated("task", KindAnnotation)[0].ID)
	assert.Equal(t, "doc", g.Associated("task", KindDataObject)[0].ID)
	assert.Len(t, g.Nodes(KindTask, KindEndEvent), 2)
	assert.True(t, KindEventGateway.IsConditionalGateway())
	assert.False(t, KindParallelGateway.IsConditionalGateway())
}
