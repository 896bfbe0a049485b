package resolver

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/graph"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/tracing"
)

// DefaultGroup is used for processes without a name
const DefaultGroup = "Default"

var (
	messageTag   = regexp.MustCompile(`(?s)<bpmn2:message>(.*?)</bpmn2:message>`)
	messageItems = []string{model.EventItemMailSubject, model.EventItemMailBody, "mail.subject", "mail.body"}
)

// Service turns a diagram graph into a model catalog
type Service struct {
	logger       zerolog.Logger
	defaultGroup string
}

// Resolve builds a model from the graph, either the whole model or an error is returned
func (s *Service) Resolve(ctx context.Context, g *graph.Graph) (*model.Model, error) {
	_, span := tracing.StartSpan(ctx, "model.resolve", "INTERNAL")
	span.WithAttributes(map[string]string{"source": g.Source})
	ret, err := s.resolve(g)
	tracing.EndSpan(span, err)
	if err != nil {
		var buildErr *types.BuildError
		if errors.As(err, &buildErr) && buildErr.Source == "" {
			buildErr.Source = g.Source
		}
		return nil, err
	}
	return ret, nil
}

func (s *Service) resolve(g *graph.Graph) (*model.Model, error) {
	definition, err := newDefinition(g)
	if err != nil {
		return nil, err
	}
	r := &resolution{
		graph:        g,
		builder:      model.NewBuilder(definition),
		version:      definition.Version,
		tasks:        map[string]*model.Task{},
		owners:       map[[2]int]string{},
		logger:       s.logger,
		defaultGroup: s.defaultGroup,
	}
	r.addGroups()
	if err = r.addTasks(); err != nil {
		return nil, err
	}
	if err = r.addEvents(); err != nil {
		return nil, err
	}
	ret, err := r.builder.Build()
	if err != nil {
		return nil, &types.BuildError{Message: "invalid model", Err: err}
	}
	return ret, nil
}

func newDefinition(g *graph.Graph) (*model.Definition, error) {
	items := g.Definition.Clone()
	if items == nil {
		items = model.Items{}
	}
	version := strings.TrimSpace(items.String(model.DefinitionItemVersion))
	if version == "" {
		return nil, types.NewBuildError("definition", "model version (%v) was not defined", model.DefinitionItemVersion)
	}
	var plugins []string
	for _, name := range items.Strings(model.DefinitionItemPlugins) {
		if name = strings.TrimSpace(name); name != "" {
			plugins = append(plugins, name)
		}
	}
	return &model.Definition{
		Version:    version,
		Plugins:    plugins,
		DebugLevel: items.Int(model.DefinitionItemDebugLevel),
		Items:      items,
	}, nil
}

type resolution struct {
	graph        *graph.Graph
	builder      *model.Builder
	version      string
	tasks        map[string]*model.Task
	owners       map[[2]int]string
	logger       zerolog.Logger
	defaultGroup string
}

func (r *resolution) groupName(processID string) string {
	if process := r.graph.Process(processID); process != nil && strings.TrimSpace(process.Name) != "" {
		return strings.TrimSpace(process.Name)
	}
	return r.defaultGroup
}

// addGroups registers groups of processes that start a flow; single process
// documents also register processes holding tasks.
func (r *resolution) addGroups() {
	starts := map[string]bool{}
	for _, node := range r.graph.Nodes(graph.KindStartEvent) {
		starts[node.Process] = true
	}
	holders := map[string]bool{}
	for _, node := range r.graph.Nodes(graph.KindTask) {
		holders[node.Process] = true
	}
	for _, process := range r.graph.Processes {
		if starts[process.ID] || (!r.graph.Collaboration && holders[process.ID]) {
			r.builder.AddGroup(r.groupName(process.ID))
		}
	}
}

func (r *resolution) addTasks() error {
	for _, node := range r.graph.Nodes(graph.KindTask) {
		if node.Number <= 0 {
			return types.NewBuildError(node.ID, "task %q has no valid id", node.Name)
		}
		task := &model.Task{
			ID:            node.Number,
			Name:          node.Name,
			Group:         r.groupName(node.Process),
			Documentation: node.Documentation,
			Items:         node.Items.Clone(),
			Start:         r.isStartTask(node),
			End:           r.isEndTask(node),
		}
		if task.Items == nil {
			task.Items = model.Items{}
		}
		if task.Documentation == "" {
			task.Documentation = r.annotation(node.ID)
		}
		if dataObjects := r.dataObjects(node.ID); len(dataObjects) > 0 {
			task.Items.Set(model.TaskItemDataObjects, dataObjects...)
		}
		r.addBoundaryEvent(node, task)
		if r.builder.HasTask(task.ID) {
			return types.NewBuildError(node.ID, "duplicate task id %d (%v)", task.ID, task.Name)
		}
		if err := r.builder.AddTask(task); err != nil {
			return &types.BuildError{Element: node.ID, Message: "invalid task", Err: err}
		}
		r.tasks[node.ID] = task
	}
	return nil
}

func (r *resolution) addBoundaryEvent(node *graph.Node, task *model.Task) {
	for _, boundary := range r.graph.Nodes(graph.KindBoundaryEvent) {
		if boundary.AttachedTo != node.ID {
			continue
		}
		target := r.nextEvent(boundary.ID, map[string]bool{})
		if target == nil {
			r.logger.Warn().Str("element", boundary.ID).Int("task", task.ID).Msg("boundary event has no target event")
			return
		}
		task.Items.Set(model.TaskItemBoundaryTarget, target.Number)
		if duration := strings.TrimSpace(boundary.TimeDuration); duration != "" {
			if value, err := strconv.Atoi(duration); err == nil {
				task.Items.Set(model.TaskItemBoundaryTimeDuration, value)
			} else {
				r.logger.Warn().Str("element", boundary.ID).Str("duration", duration).Msg("invalid boundary event time duration")
			}
		}
		return
	}
}

func (r *resolution) addEvents() error {
	for _, node := range r.graph.Nodes(graph.KindEvent) {
		if node.Number <= 0 {
			return types.NewBuildError(node.ID, "event %q has no valid id", node.Name)
		}
		sources, err := r.sourceTasks(node)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			r.logger.Debug().Str("element", node.ID).Int("event", node.Number).Msg("event has no direct source task")
		}
		for _, source := range sources {
			if err = r.addEvent(node, source, map[string]bool{}); err != nil {
				return err
			}
		}
	}
	return nil
}

// sourceTasks returns tasks owning the event. Events fed by another event are
// follow-ups and resolved from their origin; events fed by a start event
// belong to their target tasks; otherwise an event without source task is a
// loop event owned by its single target task.
func (r *resolution) sourceTasks(node *graph.Node) ([]*model.Task, error) {
	var result []*model.Task
	followUp := false
	incoming := r.graph.Incoming(node.ID)
	for _, flow := range incoming {
		sources := r.collectSourceTasks(flow.Source, map[string]bool{}, nil)
		if len(sources) > 0 {
			result = appendTasks(result, sources...)
			continue
		}
		if r.sourceEvent(flow.Source, map[string]bool{}) != nil {
			followUp = true
			continue
		}
		if start := r.graph.Node(flow.Source); start != nil && start.Kind == graph.KindStartEvent {
			for _, outgoing := range r.graph.Outgoing(node.ID) {
				result = appendTasks(result, r.collectTargetTasks(outgoing.Target, map[string]bool{}, nil)...)
			}
		}
	}
	if len(result) > 0 || followUp {
		return result, nil
	}
	outgoing := r.graph.Outgoing(node.ID)
	if len(outgoing) != 1 {
		return nil, types.NewBuildError(node.ID, "event %d (%v) has none or more than one targets", node.Number, node.Name)
	}
	if target := r.targetTask(outgoing[0].Target, map[string]bool{}); target != nil {
		result = append(result, target)
	}
	return result, nil
}

// addEvent resolves the event for the source task; chain holds events of the
// follow-up chain being resolved.
func (r *resolution) addEvent(node *graph.Node, source *model.Task, chain map[string]bool) error {
	key := [2]int{source.ID, node.Number}
	if owner, ok := r.owners[key]; ok {
		if owner != node.ID {
			return types.NewBuildError(node.ID, "duplicate event id %d for task %d", node.Number, source.ID)
		}
		return nil
	}
	if chain[node.ID] {
		return &types.BuildError{Element: node.ID, Message: "cyclic follow-up chain at event " + strconv.Itoa(node.Number) +
			" of task " + strconv.Itoa(source.ID), Err: types.ErrLoop}
	}
	chain[node.ID] = true
	defer delete(chain, node.ID)

	outgoing := r.graph.Outgoing(node.ID)
	if len(outgoing) == 0 {
		return types.NewBuildError(node.ID, "event %d (%v) has no target", node.Number, node.Name)
	}
	event := &model.Event{
		ID:            node.Number,
		TaskID:        source.ID,
		Name:          node.Name,
		Documentation: node.Documentation,
		ModelVersion:  r.version,
		Items:         node.Items.Clone(),
	}
	if event.Items == nil {
		event.Items = model.Items{}
	}
	visited := map[string]bool{}
	var targets []*graph.Node
	for _, flow := range outgoing {
		targets = r.collectTargets(flow.Target, visited, targets)
	}

	switch {
	case len(targets) > 1:
		event.NextTaskID = source.ID
		event.Exclusive = r.conditions(outgoing, func(kind graph.Kind) bool { return kind.IsConditionalGateway() })
		event.Split = r.conditions(outgoing, func(kind graph.Kind) bool { return kind == graph.KindParallelGateway })
		if len(event.Exclusive) == 0 && len(event.Split) == 0 {
			return types.NewBuildError(node.ID, "event %d (%v) has more than one target", node.Number, node.Name)
		}
		for _, target := range targets {
			if target.Kind != graph.KindEvent {
				continue
			}
			if err := r.addEvent(target, source, chain); err != nil {
				return err
			}
		}
	default:
		if next := r.followUpEvent(outgoing); next != nil {
			if err := r.addEvent(next, source, chain); err != nil {
				return err
			}
			event.FollowUp = true
			event.NextEventID = next.Number
			break
		}
		var target *model.Task
		for _, flow := range outgoing {
			candidate := r.targetTask(flow.Target, map[string]bool{})
			if candidate == nil {
				continue
			}
			if target != nil && target.ID != candidate.ID {
				return types.NewBuildError(node.ID, "event %d (%v) has more than one target task", node.Number, node.Name)
			}
			target = candidate
		}
		if target == nil {
			return types.NewBuildError(node.ID, "event %d (%v) has no target task", node.Number, node.Name)
		}
		event.NextTaskID = target.ID
	}

	for _, signal := range node.Signals {
		if signal = strings.TrimSpace(signal); signal != "" {
			event.AdapterIDs = append(event.AdapterIDs, signal)
		}
	}
	if len(event.AdapterIDs) > 0 {
		adapters := make([]interface{}, 0, len(event.AdapterIDs))
		for _, id := range event.AdapterIDs {
			adapters = append(adapters, id)
		}
		event.Items.Set(model.EventItemAdapterID, adapters...)
	}
	r.replaceMessageTags(event)
	if dataObjects := r.dataObjects(node.ID); len(dataObjects) > 0 {
		event.Items.Set(model.EventItemDataObjects, dataObjects...)
	}
	event.StartEvent = r.isStartEvent(node)
	if err := r.builder.AddEvent(event); err != nil {
		return &types.BuildError{Element: node.ID, Message: "invalid event", Err: err}
	}
	r.owners[key] = node.ID
	return nil
}

// conditions copies branch expressions of the first gateway accepted by
// matches on each outgoing path; an unconditional branch defaults to true.
func (r *resolution) conditions(outgoing []*graph.Flow, matches func(kind graph.Kind) bool) model.Conditions {
	var ret model.Conditions
	seen := map[string]bool{}
	for _, flow := range outgoing {
		gateway := r.findGateway(flow.Target, matches, map[string]bool{})
		if gateway == nil {
			continue
		}
		for _, branch := range r.graph.Outgoing(gateway.ID) {
			var target model.Target
			if task := r.targetTask(branch.Target, map[string]bool{}); task != nil {
				target = model.Target{Kind: model.TargetTask, ID: task.ID}
			} else if event := r.nextEvent(branch.Target, map[string]bool{}); event != nil {
				target = model.Target{Kind: model.TargetEvent, ID: event.Number}
			} else {
				continue
			}
			if seen[target.Key()] {
				continue
			}
			seen[target.Key()] = true
			expression := strings.TrimSpace(branch.Condition)
			if expression == "" {
				expression = model.DefaultExpression
			}
			ret = append(ret, &model.Condition{Target: target, Expression: expression})
		}
	}
	return ret
}

func (r *resolution) followUpEvent(outgoing []*graph.Flow) *graph.Node {
	for _, flow := range outgoing {
		if event := r.nextEvent(flow.Target, map[string]bool{}); event != nil {
			return event
		}
	}
	return nil
}

func (r *resolution) replaceMessageTags(event *model.Event) {
	for _, name := range messageItems {
		if !event.Items.Has(name) {
			continue
		}
		value := event.Items.String(name)
		if !strings.Contains(value, "<bpmn2:message>") {
			continue
		}
		replaced := messageTag.ReplaceAllStringFunc(value, func(tag string) string {
			match := messageTag.FindStringSubmatch(tag)
			if message := r.graph.Message(strings.TrimSpace(match[1])); message != nil {
				return message.Documentation
			}
			return tag
		})
		event.Items.Set(name, replaced)
	}
}

func (r *resolution) annotation(id string) string {
	var ret []string
	for _, node := range r.graph.Associated(id, graph.KindAnnotation) {
		if text := strings.TrimSpace(node.Documentation); text != "" {
			ret = append(ret, text)
		}
	}
	return strings.Join(ret, "\n")
}

func (r *resolution) dataObjects(id string) []interface{} {
	var ret []interface{}
	for _, node := range r.graph.Associated(id, graph.KindDataObject) {
		ret = append(ret, []string{node.Name, node.Documentation})
	}
	return ret
}

func appendTasks(tasks []*model.Task, candidates ...*model.Task) []*model.Task {
	for _, candidate := range candidates {
		found := false
		for _, task := range tasks {
			if task.ID == candidate.ID {
				found = true
				break
			}
		}
		if !found {
			tasks = append(tasks, candidate)
		}
	}
	return tasks
}

// New creates a resolver
func New(opts ...Option) *Service {
	ret := &Service{logger: zerolog.Nop(), defaultGroup: DefaultGroup}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
