package resolver

import (
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/graph"
)

// Graph walks pass through gateways, intermediate and link events until a
// task or a catalog event is reached. Every walk carries its own visited set.

func (r *resolution) collectSourceTasks(id string, visited map[string]bool, acc []*model.Task) []*model.Task {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return acc
	}
	visited[id] = true
	switch node.Kind {
	case graph.KindTask:
		if task := r.tasks[id]; task != nil {
			acc = append(acc, task)
		}
		return acc
	case graph.KindEvent, graph.KindStartEvent:
		return acc
	case graph.KindBoundaryEvent:
		if task := r.tasks[node.AttachedTo]; task != nil {
			acc = append(acc, task)
		}
		return acc
	}
	for _, flow := range r.graph.Incoming(id) {
		acc = r.collectSourceTasks(flow.Source, visited, acc)
	}
	return acc
}

func (r *resolution) sourceEvent(id string, visited map[string]bool) *graph.Node {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return nil
	}
	visited[id] = true
	switch node.Kind {
	case graph.KindEvent:
		return node
	case graph.KindTask, graph.KindBoundaryEvent:
		return nil
	}
	for _, flow := range r.graph.Incoming(id) {
		if ret := r.sourceEvent(flow.Source, visited); ret != nil {
			return ret
		}
	}
	return nil
}

func (r *resolution) collectTargetTasks(id string, visited map[string]bool, acc []*model.Task) []*model.Task {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return acc
	}
	visited[id] = true
	switch node.Kind {
	case graph.KindTask:
		if task := r.tasks[id]; task != nil {
			acc = append(acc, task)
		}
		return acc
	case graph.KindEvent:
		return acc
	}
	for _, flow := range r.graph.Outgoing(id) {
		acc = r.collectTargetTasks(flow.Target, visited, acc)
	}
	return acc
}

func (r *resolution) targetTask(id string, visited map[string]bool) *model.Task {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return nil
	}
	visited[id] = true
	switch node.Kind {
	case graph.KindTask:
		return r.tasks[id]
	case graph.KindEvent:
		return nil
	}
	for _, flow := range r.graph.Outgoing(id) {
		if ret := r.targetTask(flow.Target, visited); ret != nil {
			return ret
		}
	}
	return nil
}

func (r *resolution) nextEvent(id string, visited map[string]bool) *graph.Node {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return nil
	}
	visited[id] = true
	switch node.Kind {
	case graph.KindEvent:
		return node
	case graph.KindTask:
		return nil
	}
	for _, flow := range r.graph.Outgoing(id) {
		if ret := r.nextEvent(flow.Target, visited); ret != nil {
			return ret
		}
	}
	return nil
}

func (r *resolution) collectTargets(id string, visited map[string]bool, acc []*graph.Node) []*graph.Node {
	node := r.graph.Node(id)
	if node == nil || visited[id] {
		return acc
	}
	visited[id] = true
	if node.Is(graph.KindTask, graph.KindEvent) {
		return append(acc, node)
	}
	for _, flow := range r.graph.Outgoing(id) {
		acc = r.collectTargets(flow.Target, visited, acc)
	}
	return acc
}

func (r *resolution) findGateway(id string, matches func(kind graph.Kind) bool, visited map[string]bool) *graph.Node {
	node := r.graph.Node(id)
	if node == nil || visited[id] || node.Is(graph.KindTask, graph.KindEvent) {
		return nil
	}
	visited[id] = true
	if matches(node.Kind) {
		return node
	}
	for _, flow := range r.graph.Outgoing(id) {
		if ret := r.findGateway(flow.Target, matches, visited); ret != nil {
			return ret
		}
	}
	return nil
}

func (r *resolution) isStartTask(node *graph.Node) bool {
	incoming := r.graph.Incoming(node.ID)
	if len(incoming) == 0 {
		return true
	}
	visited := map[string]bool{node.ID: true}
	for _, flow := range incoming {
		if r.reachesStart(flow.Source, graph.KindTask, visited) {
			return true
		}
	}
	return false
}

func (r *resolution) isStartEvent(node *graph.Node) bool {
	visited := map[string]bool{node.ID: true}
	for _, flow := range r.graph.Incoming(node.ID) {
		if r.reachesStart(flow.Source, graph.KindEvent, visited) {
			return true
		}
	}
	return false
}

// reachesStart walks backwards to a start event, stop kind ends the walk.
func (r *resolution) reachesStart(id string, stop graph.Kind, visited map[string]bool) bool {
	node := r.graph.Node(id)
	if node == nil || visited[id] || node.Kind == stop {
		return false
	}
	visited[id] = true
	if node.Kind == graph.KindStartEvent {
		return true
	}
	for _, flow := range r.graph.Incoming(id) {
		if r.reachesStart(flow.Source, stop, visited) {
			return true
		}
	}
	return false
}

func (r *resolution) isEndTask(node *graph.Node) bool {
	outgoing := r.graph.Outgoing(node.ID)
	if len(outgoing) == 0 {
		return true
	}
	visited := map[string]bool{node.ID: true}
	for _, flow := range outgoing {
		if r.reachesEnd(flow.Target, visited) {
			return true
		}
	}
	return false
}

func (r *resolution) reachesEnd(id string, visited map[string]bool) bool {
	node := r.graph.Node(id)
	if node == nil || visited[id] || node.Kind == graph.KindTask {
		return false
	}
	visited[id] = true
	if node.Kind == graph.KindEndEvent {
		return true
	}
	for _, flow := range r.graph.Outgoing(id) {
		if r.reachesEnd(flow.Target, visited) {
			return true
		}
	}
	return false
}
