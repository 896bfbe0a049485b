package graph

import (
	"fmt"
	"strings"

	"github.com/viant/bpmnflow/model"
)

// Kind defines a node kind
type Kind string

const (
	KindTask             Kind = "task"
	KindStartEvent       Kind = "startEvent"
	KindEndEvent         Kind = "endEvent"
	KindEvent            Kind = "event"
	KindLinkThrow        Kind = "linkThrow"
	KindLinkCatch        Kind = "linkCatch"
	KindBoundaryEvent    Kind = "boundaryEvent"
	KindIntermediate     Kind = "intermediate"
	KindExclusiveGateway Kind = "exclusiveGateway"
	KindInclusiveGateway Kind = "inclusiveGateway"
	KindEventGateway     Kind = "eventBasedGateway"
	KindParallelGateway  Kind = "parallelGateway"
	KindDataObject       Kind = "dataObject"
	KindAnnotation       Kind = "textAnnotation"
)

// IsConditionalGateway returns true for first-match gateways
func (k Kind) IsConditionalGateway() bool {
	switch k {
	case KindExclusiveGateway, KindInclusiveGateway, KindEventGateway:
		return true
	}
	return false
}

// FlowKind defines an edge kind
type FlowKind string

const (
	FlowSequence    FlowKind = "sequence"
	FlowMessage     FlowKind = "message"
	FlowAssociation FlowKind = "association"
	FlowLink        FlowKind = "link"
)

type (
	// Node represents a diagram element
	Node struct {
		ID            string
		Kind          Kind
		Name          string
		Process       string
		Number        int
		Documentation string
		Link          string
		AttachedTo    string
		TimeDuration  string
		Signals       []string
		Items         model.Items
	}

	// Flow represents a directed edge
	Flow struct {
		ID        string
		Kind      FlowKind
		Source    string
		Target    string
		Condition string
	}

	// Process represents a pool or a process
	Process struct {
		ID   string
		Name string
		Pool bool
	}

	// Message represents a reusable message text
	Message struct {
		ID            string
		Name          string
		Documentation string
	}

	// Graph represents a parsed diagram addressed by element id
	Graph struct {
		Source        string
		Collaboration bool
		Definition    model.Items
		Processes     []*Process
		Messages      []*Message
		nodes         map[string]*Node
		order         []string
		flows         []*Flow
		outgoing      map[string][]*Flow
		incoming      map[string][]*Flow
	}
)

// AddNode adds a node, duplicated ids are rejected
func (g *Graph) AddNode(node *Node) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("node id was empty")
	}
	if _, ok := g.nodes[node.ID]; ok {
		return fmt.Errorf("duplicate element id %q", node.ID)
	}
	if node.Items == nil {
		node.Items = model.Items{}
	}
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddFlow adds an edge
func (g *Graph) AddFlow(flow *Flow) error {
	if flow == nil || flow.Source == "" || flow.Target == "" {
		return fmt.Errorf("flow %v has no source or target", flowID(flow))
	}
	if flow.Kind == "" {
		flow.Kind = FlowSequence
	}
	g.flows = append(g.flows, flow)
	g.outgoing[flow.Source] = append(g.outgoing[flow.Source], flow)
	g.incoming[flow.Target] = append(g.incoming[flow.Target], flow)
	return nil
}

// AddProcess adds a process
func (g *Graph) AddProcess(process *Process) {
	g.Processes = append(g.Processes, process)
}

// Process returns a process by id
func (g *Graph) Process(id string) *Process {
	for _, candidate := range g.Processes {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// Node returns a node by id or nil
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns nodes of the supplied kinds in declaration order, all nodes if no kind was given
func (g *Graph) Nodes(kinds ...Kind) []*Node {
	var ret []*Node
	for _, id := range g.order {
		node := g.nodes[id]
		if len(kinds) == 0 || node.Is(kinds...) {
			ret = append(ret, node)
		}
	}
	return ret
}

// Flows returns flows of the supplied kinds
func (g *Graph) Flows(kinds ...FlowKind) []*Flow {
	var ret []*Flow
	for _, flow := range g.flows {
		if matchesFlow(flow, kinds) {
			ret = append(ret, flow)
		}
	}
	return ret
}

// Outgoing returns outgoing flows of the supplied kinds, sequence and link flows by default
func (g *Graph) Outgoing(id string, kinds ...FlowKind) []*Flow {
	return filterFlows(g.outgoing[id], kinds)
}

// Incoming returns incoming flows of the supplied kinds, sequence and link flows by default
func (g *Graph) Incoming(id string, kinds ...FlowKind) []*Flow {
	return filterFlows(g.incoming[id], kinds)
}

// Associated returns nodes of a kind connected with an association to the element
func (g *Graph) Associated(id string, kind Kind) []*Node {
	var ret []*Node
	seen := map[string]bool{}
	for _, flow := range g.flows {
		if flow.Kind != FlowAssociation {
			continue
		}
		var other string
		switch id {
		case flow.Target:
			other = flow.Source
		case flow.Source:
			other = flow.Target
		default:
			continue
		}
		node := g.nodes[other]
		if node == nil || node.Kind != kind || seen[other] {
			continue
		}
		seen[other] = true
		ret = append(ret, node)
	}
	return ret
}

// ConnectLinks adds a link flow from every link throw event to the catch events sharing its link name
func (g *Graph) ConnectLinks() int {
	connected := 0
	catches := map[string][]*Node{}
	for _, node := range g.Nodes(KindLinkCatch) {
		catches[linkName(node)] = append(catches[linkName(node)], node)
	}
	for _, throw := range g.Nodes(KindLinkThrow) {
		for _, catch := range catches[linkName(throw)] {
			if g.hasFlow(throw.ID, catch.ID, FlowLink) {
				continue
			}
			_ = g.AddFlow(&Flow{ID: "link:" + throw.ID + ":" + catch.ID, Kind: FlowLink, Source: throw.ID, Target: catch.ID})
			connected++
		}
	}
	return connected
}

// Message returns a message by name
func (g *Graph) Message(name string) *Message {
	for _, candidate := range g.Messages {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}

func (g *Graph) hasFlow(source, target string, kind FlowKind) bool {
	for _, flow := range g.outgoing[source] {
		if flow.Target == target && flow.Kind == kind {
			return true
		}
	}
	return false
}

// Is returns true if node is of any supplied kind
func (n *Node) Is(kinds ...Kind) bool {
	for _, kind := range kinds {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

func linkName(node *Node) string {
	if node.Link != "" {
		return strings.TrimSpace(node.Link)
	}
	return strings.TrimSpace(node.Name)
}

func filterFlows(flows []*Flow, kinds []FlowKind) []*Flow {
	if len(kinds) == 0 {
		kinds = []FlowKind{FlowSequence, FlowLink}
	}
	var ret []*Flow
	for _, flow := range flows {
		if matchesFlow(flow, kinds) {
			ret = append(ret, flow)
		}
	}
	return ret
}

func matchesFlow(flow *Flow, kinds []FlowKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, kind := range kinds {
		if flow.Kind == kind {
			return true
		}
	}
	return false
}

func flowID(flow *Flow) string {
	if flow == nil {
		return "<nil>"
	}
	return flow.ID
}

// New creates an empty graph
func New(source string) *Graph {
	return &Graph{
		Source:     source,
		Definition: model.Items{},
		nodes:      map[string]*Node{},
		outgoing:   map[string][]*Flow{},
		incoming:   map[string][]*Flow{},
	}
}
