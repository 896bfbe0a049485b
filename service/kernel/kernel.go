package kernel

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/internal/clock"
	"github.com/viant/bpmnflow/internal/idgen"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/evaluator"
	"github.com/viant/bpmnflow/service/messaging"
	"github.com/viant/bpmnflow/tracing"
)

const (
	// DefaultMaxSteps bounds the number of events processed in one call
	DefaultMaxSteps = 100
	// DefaultMaxEventLog bounds the number of $eventlog entries
	DefaultMaxEventLog = 30
)

// Models resolves the model of a workitem
type Models interface {
	Lookup(version, group string) (*model.Model, string, error)
}

// Result represents a processing result
type Result struct {
	WorkItem       *model.WorkItem
	SplitWorkItems []*model.WorkItem
}

// Service processes workitems through resolved models
type Service struct {
	models      Models
	evaluator   evaluator.Evaluator
	extensions  *extension.Registry
	pluginChain []string
	outbox      messaging.Queue[model.WorkItem]
	logger      zerolog.Logger
	maxSteps    int
	maxEventLog int
}

// Extensions returns plugin and adapter registry
func (s *Service) Extensions() *extension.Registry {
	return s.extensions
}

// Process processes the workitem event and all follow-up events, the workitem is modified in place
func (s *Service) Process(ctx context.Context, workitem *model.WorkItem) (*model.WorkItem, error) {
	result, err := s.Run(ctx, workitem)
	if err != nil {
		return nil, err
	}
	return result.WorkItem, nil
}

// Run processes the workitem and returns it with split versions created on the way
func (s *Service) Run(ctx context.Context, workitem *model.WorkItem) (result *Result, err error) {
	if err = validate(workitem); err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "kernel.process", "INTERNAL")
	span.WithAttributes(map[string]string{
		"model": workitem.ModelVersion(),
		"task":  strconv.Itoa(workitem.TaskID()),
		"event": strconv.Itoa(workitem.EventID()),
	})
	defer func() { tracing.EndSpan(span, err) }()

	session := newSession(s)
	defer func() {
		if closeErr := session.close(err != nil); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if workitem, err = s.process(ctx, session, workitem); err != nil {
		return nil, err
	}
	return &Result{WorkItem: workitem, SplitWorkItems: session.splits}, nil
}

func (s *Service) process(ctx context.Context, session *session, workitem *model.WorkItem) (*model.WorkItem, error) {
	if workitem.UniqueID() == "" {
		workitem.Set(model.ItemUniqueID, idgen.New())
	}
	if workitem.Items.String(model.ItemWorkItemID) == "" {
		workitem.Set(model.ItemWorkItemID, idgen.New())
	}
	workitem.Set(model.ItemTransactionID, idgen.NewTransaction())
	workitem.Set(model.ItemLastTask, workitem.TaskID())
	for _, name := range []string{model.ItemAdapterErrorContext, model.ItemAdapterErrorCode, model.ItemAdapterErrorParams, model.ItemAdapterErrorMessage} {
		workitem.Items.Remove(name)
	}
	visited := map[string]bool{}
	for steps := 0; workitem.EventID() > 0; steps++ {
		if steps >= s.maxSteps {
			return nil, types.NewModelError(types.LoopDetected, "maximum number of %d events exceeded at %d.%d", s.maxSteps, workitem.TaskID(), workitem.EventID())
		}
		workitem.Set(model.ItemLastEventDate, clock.Now())
		aModel, event, err := s.loadEvent(workitem, visited)
		if err != nil {
			return nil, err
		}
		if workitem, err = s.processEvent(ctx, session, aModel, workitem, event); err != nil {
			return nil, err
		}
		s.updateEventList(workitem, event)
		if err = s.updateModelVersion(workitem, event); err != nil {
			return nil, err
		}
	}
	return workitem, nil
}

// loadEvent resolves the model and the current event, an edge visited twice is a loop
func (s *Service) loadEvent(workitem *model.WorkItem, visited map[string]bool) (*model.Model, *model.Event, error) {
	aModel, err := s.model(workitem)
	if err != nil {
		return nil, nil, err
	}
	event, err := aModel.Event(workitem.TaskID(), workitem.EventID())
	if err != nil {
		return nil, nil, err
	}
	edge := fmt.Sprintf("%s:%d.%d", aModel.Version(), event.TaskID, event.ID)
	if visited[edge] {
		return nil, nil, &types.ModelError{Code: types.LoopDetected, Message: fmt.Sprintf("loop detected at %d.%d (%s)", event.TaskID, event.ID, aModel.Version())}
	}
	visited[edge] = true
	return aModel, event, nil
}

func (s *Service) model(workitem *model.WorkItem) (*model.Model, error) {
	aModel, version, err := s.models.Lookup(workitem.ModelVersion(), workitem.WorkflowGroup())
	if err != nil {
		return nil, err
	}
	if version != workitem.ModelVersion() {
		s.logger.Info().Str("uniqueid", workitem.UniqueID()).Str("from", workitem.ModelVersion()).Str("model", version).Msg("model version switched")
		workitem.SetModelVersion(version)
	}
	return aModel, nil
}

func (s *Service) processEvent(ctx context.Context, session *session, aModel *model.Model, workitem *model.WorkItem, event *model.Event) (ret *model.WorkItem, err error) {
	ctx, span := tracing.StartSpan(ctx, "kernel.event", "INTERNAL")
	span.WithAttributes(map[string]string{
		"model": aModel.Version(),
		"task":  strconv.Itoa(event.TaskID),
		"event": strconv.Itoa(event.ID),
	})
	defer func() { tracing.EndSpan(span, err) }()
	ctx = types.EnsureProcessingContext(ctx,
		types.ContextUniqueID, workitem.UniqueID(),
		types.ContextTransactionID, workitem.Items.String(model.ItemTransactionID),
		types.ContextModelVersion, aModel.Version())

	if workitem, err = s.executeSignalAdapters(ctx, workitem, event); err != nil {
		return nil, err
	}
	if workitem, err = session.runPlugins(ctx, aModel, workitem, event); err != nil {
		return nil, err
	}
	if workitem, err = s.executeGenericAdapters(ctx, workitem, event); err != nil {
		return nil, err
	}
	s.logEvent(workitem, event)
	next, err := s.findNextTask(ctx, aModel, workitem, event)
	if err != nil {
		return nil, err
	}
	if err = s.evaluateSplit(ctx, session, aModel, workitem, event); err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("uniqueid", workitem.UniqueID()).
		Str("model", aModel.Version()).
		Int("task", event.TaskID).
		Int("event", event.ID).
		Int("next", next.ID).
		Msg("event processed")
	updateWorkflowStatus(workitem, next)
	workitem.Set(model.ItemRuns, workitem.Runs()+1)
	return workitem, nil
}

// Eval returns the task a workitem would reach without running plugins, the workitem is not modified
func (s *Service) Eval(ctx context.Context, workitem *model.WorkItem) (int, error) {
	if err := validate(workitem); err != nil {
		return 0, err
	}
	clone := workitem.Clone()
	visited := map[string]bool{}
	for steps := 0; clone.EventID() > 0; steps++ {
		if steps >= s.maxSteps {
			return 0, types.NewModelError(types.LoopDetected, "maximum number of %d events exceeded", s.maxSteps)
		}
		aModel, event, err := s.loadEvent(clone, visited)
		if err != nil {
			return 0, err
		}
		next, err := s.findNextTask(ctx, aModel, clone, event)
		if err != nil {
			return 0, err
		}
		clone.SetTaskID(next.ID)
		s.updateEventList(clone, event)
		if err = s.updateModelVersion(clone, event); err != nil {
			return 0, err
		}
	}
	return clone.TaskID(), nil
}

func validate(workitem *model.WorkItem) error {
	switch {
	case workitem == nil:
		return types.NewModelError(types.InvalidWorkItem, "workitem was nil")
	case workitem.TaskID() <= 0:
		return types.NewModelError(types.InvalidWorkItem, "$taskid undefined (%d)", workitem.TaskID())
	case workitem.EventID() <= 0:
		return types.NewModelError(types.InvalidWorkItem, "$eventid undefined (%d)", workitem.EventID())
	}
	return nil
}

// New creates a kernel
func New(models Models, opts ...Option) *Service {
	ret := &Service{
		models:      models,
		evaluator:   evaluator.New(),
		extensions:  extension.NewRegistry(),
		logger:      zerolog.Nop(),
		maxSteps:    DefaultMaxSteps,
		maxEventLog: DefaultMaxEventLog,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
