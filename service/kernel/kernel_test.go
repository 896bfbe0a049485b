package kernel

import (
	"context"
	"embed"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/dao/diagram"
	"github.com/viant/bpmnflow/service/messaging/memory"
	"github.com/viant/bpmnflow/service/meta"
	"github.com/viant/bpmnflow/service/plugin/history"
	"github.com/viant/bpmnflow/service/plugin/result"
	"github.com/viant/bpmnflow/service/plugin/rule"
	"github.com/viant/bpmnflow/service/registry"
	"github.com/viant/bpmnflow/service/resolver"
)

//go:embed testdata/*
var testFS embed.FS

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	ctx := context.Background()
	loader := diagram.New(diagram.WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))
	ret := registry.New()
	for _, name := range []string{"ticket.yaml", "ticket-2.0.0.yaml", "ticket-2.1.0.yaml", "loop.yaml"} {
		g, err := loader.Load(ctx, name)
		require.NoError(t, err, name)
		aModel, err := resolver.New().Resolve(ctx, g)
		require.NoError(t, err, name)
		require.NoError(t, ret.Add(aModel), name)
	}
	return ret
}

type recordingPlugin struct {
	name     string
	fail     error
	inits    int
	closed   []bool
	observed []int
}

func (p *recordingPlugin) Name() string { return p.name }

func (p *recordingPlugin) Init(context.Context, *extension.Context) error {
	p.inits++
	return nil
}

func (p *recordingPlugin) Run(_ context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	p.observed = append(p.observed, event.ID)
	workitem.Items.Append("trace", p.name)
	return workitem, nil
}

func (p *recordingPlugin) Close(rollback bool) error {
	p.closed = append(p.closed, rollback)
	return nil
}

type testAdapter struct {
	name    string
	generic bool
	fail    error
	calls   int
}

func (a *testAdapter) Name() string  { return a.name }
func (a *testAdapter) Generic() bool { return a.generic }

func (a *testAdapter) Execute(_ context.Context, workitem *model.WorkItem, _ *model.Event) (*model.WorkItem, error) {
	a.calls++
	if a.fail != nil {
		return nil, a.fail
	}
	workitem.Set(a.name+".executed", true)
	return workitem, nil
}

func TestService_Process(t *testing.T) {
	models := newRegistry(t)
	testCases := []struct {
		description string
		version     string
		taskID      int
		eventID     int
		items       map[string]interface{}
		expectTask  int
		expectRuns  int
		expectModel string
		expectType  string
	}{
		{description: "simple transition", version: "1.0.0", taskID: 1000, eventID: 10, expectTask: 1100, expectRuns: 1, expectModel: "1.0.0"},
		{description: "follow-up chain", version: "1.0.0", taskID: 1000, eventID: 20, expectTask: 1200, expectRuns: 2, expectModel: "1.0.0", expectType: "workitemarchive"},
		{description: "conditional match", version: "1.0.0", taskID: 1100, eventID: 40, items: map[string]interface{}{"_budget": 500}, expectTask: 1200, expectRuns: 1, expectModel: "1.0.0"},
		{description: "conditional fallback", version: "1.0.0", taskID: 1100, eventID: 40, items: map[string]interface{}{"_budget": 50}, expectTask: 1000, expectRuns: 1, expectModel: "1.0.0", expectType: "workitem"},
		{description: "conditional missing item", version: "1.0.0", taskID: 1100, eventID: 40, expectTask: 1000, expectRuns: 1, expectModel: "1.0.0"},
		{description: "exact model switch", version: "1.0.0", taskID: 1100, eventID: 50, expectTask: 2000, expectRuns: 2, expectModel: "2.0.0"},
		{description: "regex model switch", version: "1.0.0", taskID: 1100, eventID: 60, expectTask: 2100, expectRuns: 2, expectModel: "2.1.0"},
		{description: "regex workitem version", version: `2\.0\..*`, taskID: 1100, eventID: 10, expectTask: 2000, expectRuns: 1, expectModel: "2.0.0"},
		{description: "exclusive task branch", version: "1.0.0", taskID: 1100, eventID: 90, items: map[string]interface{}{"_level": 1}, expectTask: 1300, expectRuns: 1, expectModel: "1.0.0"},
		{description: "exclusive event branch", version: "1.0.0", taskID: 1100, eventID: 90, items: map[string]interface{}{"_level": 2}, expectTask: 1200, expectRuns: 2, expectModel: "1.0.0", expectType: "workitemarchive"},
	}
	for _, testCase := range testCases {
		service := New(models)
		workitem := model.NewWorkItem(testCase.version, testCase.taskID, testCase.eventID)
		for k, v := range testCase.items {
			workitem.Set(k, v)
		}
		actual, err := service.Process(context.Background(), workitem)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		assert.Equal(t, testCase.expectTask, actual.TaskID(), testCase.description)
		assert.Equal(t, testCase.expectRuns, actual.Runs(), testCase.description)
		assert.Equal(t, testCase.expectModel, actual.ModelVersion(), testCase.description)
		assert.Equal(t, 0, actual.EventID(), testCase.description)
		if testCase.expectType != "" {
			assert.Equal(t, testCase.expectType, actual.Items.String(model.ItemType), testCase.description)
		}
	}
}

func TestService_Process_Bookkeeping(t *testing.T) {
	service := New(newRegistry(t))
	workitem := model.NewWorkItem("1.0.0", 1000, 20).Set("$eventlogcomment", "")
	actual, err := service.Process(context.Background(), workitem)
	require.NoError(t, err)
	assert.NotEmpty(t, actual.UniqueID())
	assert.NotEmpty(t, actual.Items.String(model.ItemWorkItemID))
	assert.NotEmpty(t, actual.Items.String(model.ItemTransactionID))
	assert.Equal(t, 1000, actual.Items.Int(model.ItemLastTask))
	assert.Equal(t, 30, actual.Items.Int(model.ItemLastEvent))
	assert.Equal(t, "Closed", actual.Items.String(model.ItemWorkflowStatus))
	assert.Equal(t, "Ticket", actual.WorkflowGroup())
	assert.False(t, actual.Items.Has(model.ItemEventIDList))
	log := actual.Items.Strings(model.ItemEventLog)
	require.Len(t, log, 2)
	assert.True(t, strings.HasSuffix(log[0], "|1.0.0|1000.20|0|"), log[0])
	assert.True(t, strings.HasSuffix(log[1], "|1.0.0|1000.30|1200|"), log[1])

	uniqueID := actual.UniqueID()
	next := model.NewWorkItem("1.0.0", 1000, 10).Set(model.ItemUniqueID, uniqueID)
	actual, err = service.Process(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, uniqueID, actual.UniqueID())
	assert.True(t, strings.HasSuffix(actual.Items.Strings(model.ItemEventLog)[0], "|1000.10|1100|submitted"))
}

func TestService_Process_EventLogLimit(t *testing.T) {
	service := New(newRegistry(t), WithMaxEventLog(2))
	workitem := model.NewWorkItem("1.0.0", 1000, 10)
	workitem.Set(model.ItemEventLog, "a", "b", "c")
	actual, err := service.Process(context.Background(), workitem)
	require.NoError(t, err)
	log := actual.Items.Strings(model.ItemEventLog)
	require.Len(t, log, 2)
	assert.Equal(t, "c", log[0])
}

func TestService_Process_Split(t *testing.T) {
	outbox := memory.NewQueue[model.WorkItem](memory.DefaultConfig())
	service := New(newRegistry(t), WithOutbox(outbox))
	workitem := model.NewWorkItem("1.0.0", 1100, 70).Set(model.ItemUniqueID, "origin")
	outcome, err := service.Run(context.Background(), workitem)
	require.NoError(t, err)
	assert.Equal(t, 1200, outcome.WorkItem.TaskID())
	require.Len(t, outcome.SplitWorkItems, 1)
	version := outcome.SplitWorkItems[0]
	assert.Equal(t, 1300, version.TaskID())
	assert.Equal(t, "origin", version.Items.String(model.ItemUniqueIDSource))
	assert.NotEqual(t, "origin", version.UniqueID())
	assert.False(t, version.Items.Has(model.ItemIsVersion))
	assert.Equal(t, []string{version.UniqueID()}, outcome.WorkItem.Items.Strings(model.ItemUniqueIDVersions))
	published := outbox.Drain()
	require.Len(t, published, 1)
	assert.Equal(t, version.UniqueID(), published[0].UniqueID())
}

func TestService_Process_Plugins(t *testing.T) {
	first := &recordingPlugin{name: "first"}
	second := &recordingPlugin{name: "second"}
	service := New(newRegistry(t), WithPlugins(first, second), WithPluginChain("second", "first"))
	actual, err := service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first", "second", "first"}, actual.Items.Strings("trace"))
	assert.Equal(t, 1, first.inits)
	assert.Equal(t, []bool{false}, first.closed)
	assert.Equal(t, []int{20, 30}, second.observed)

	failing := &recordingPlugin{name: "failing", fail: types.NewPluginError("failing", "INVALID_BUDGET", "budget exceeded", "500", "100")}
	service = New(newRegistry(t), WithPlugins(first, failing), WithPluginChain("first", "failing"))
	_, err = service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 10))
	require.Error(t, err)
	pluginErr := &types.PluginError{}
	require.True(t, errors.As(err, &pluginErr))
	assert.Equal(t, "INVALID_BUDGET", pluginErr.Code)
	assert.Equal(t, []string{"500", "100"}, pluginErr.Params)
	assert.Equal(t, []bool{true}, failing.closed)
	assert.Equal(t, []bool{false, true}, first.closed)

	service = New(newRegistry(t), WithPluginChain("missing"))
	_, err = service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 10))
	require.True(t, errors.As(err, &pluginErr))
	assert.Equal(t, types.PluginNotRegistered, pluginErr.Code)
}

func TestService_Process_Concurrent(t *testing.T) {
	service := New(newRegistry(t), WithPlugins(result.New(), history.New(), rule.New()), WithPluginChain(result.Name, history.Name, rule.Name))
	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	tasks := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actual, err := service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 10))
			if err != nil {
				errs <- err
				return
			}
			tasks <- actual.TaskID()
		}()
	}
	wg.Wait()
	close(errs)
	close(tasks)
	for err := range errs {
		assert.NoError(t, err)
	}
	count := 0
	for taskID := range tasks {
		assert.Equal(t, 1100, taskID)
		count++
	}
	assert.Equal(t, workers, count)
}

func TestService_Process_Adapters(t *testing.T) {
	notify := &testAdapter{name: "notify"}
	audit := &testAdapter{name: "audit", generic: true}
	service := New(newRegistry(t), WithAdapters(notify, audit))
	actual, err := service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 15))
	require.NoError(t, err)
	assert.True(t, actual.Items.Bool("notify.executed"))
	assert.True(t, actual.Items.Bool("audit.executed"))
	assert.Equal(t, 1100, actual.TaskID())

	_, err = service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, notify.calls)
	assert.Equal(t, 3, audit.calls)

	failing := &testAdapter{name: "notify", fail: types.NewAdapterError("notify", "SMTP_DOWN", "mail server down", "smtp.local")}
	service = New(newRegistry(t), WithAdapters(failing))
	workitem := model.NewWorkItem("1.0.0", 1000, 15)
	_, err = service.Process(context.Background(), workitem)
	adapterErr := &types.AdapterError{}
	require.True(t, errors.As(err, &adapterErr))
	assert.Equal(t, "SMTP_DOWN", adapterErr.Code)
	assert.Equal(t, []string{"SMTP_DOWN"}, workitem.Items.Strings(model.ItemAdapterErrorCode))
	assert.Equal(t, []string{"notify"}, workitem.Items.Strings(model.ItemAdapterErrorContext))
	assert.Equal(t, []interface{}{[]interface{}{"smtp.local"}}, workitem.Items.Values(model.ItemAdapterErrorParams))

	service = New(newRegistry(t))
	_, err = service.Process(context.Background(), model.NewWorkItem("1.0.0", 1000, 15))
	modelErr := &types.ModelError{}
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, types.InvalidModel, modelErr.Code)
}

func TestService_Process_Errors(t *testing.T) {
	models := newRegistry(t)
	testCases := []struct {
		description string
		workitem    *model.WorkItem
		options     []Option
		code        string
		sentinel    error
	}{
		{description: "nil workitem", code: types.InvalidWorkItem},
		{description: "missing event", workitem: model.NewWorkItem("1.0.0", 1000, 0), code: types.InvalidWorkItem},
		{description: "unknown version", workitem: model.NewWorkItem("0.0.1", 1000, 10), code: types.UndefinedModelVersion, sentinel: types.ErrModelNotFound},
		{description: "unknown event", workitem: model.NewWorkItem("1.0.0", 1000, 99), code: types.UndefinedModelEntry, sentinel: types.ErrEntryNotFound},
		{description: "model tag loop", workitem: model.NewWorkItem("9.0.0", 1000, 10), code: types.LoopDetected, sentinel: types.ErrLoop},
		{description: "max steps", workitem: model.NewWorkItem("1.0.0", 1000, 20), options: []Option{WithMaxSteps(1)}, code: types.LoopDetected, sentinel: types.ErrLoop},
		{description: "no matching branch", workitem: model.NewWorkItem("1.0.0", 1100, 90).Set("_level", 3), code: types.InvalidModel, sentinel: types.ErrNoMatchingCondition},
		{description: "no matching branch without item", workitem: model.NewWorkItem("1.0.0", 1100, 90), code: types.InvalidModel, sentinel: types.ErrNoMatchingCondition},
	}
	for _, testCase := range testCases {
		service := New(models, testCase.options...)
		_, err := service.Process(context.Background(), testCase.workitem)
		require.Error(t, err, testCase.description)
		modelErr := &types.ModelError{}
		if assert.True(t, errors.As(err, &modelErr), testCase.description) {
			assert.Equal(t, testCase.code, modelErr.Code, testCase.description)
		}
		if testCase.sentinel != nil {
			assert.True(t, errors.Is(err, testCase.sentinel), testCase.description)
		}
	}
}

func TestService_Eval(t *testing.T) {
	service := New(newRegistry(t), WithPlugins(&recordingPlugin{name: "first", fail: errors.New("must not run")}), WithPluginChain("first"))
	workitem := model.NewWorkItem("1.0.0", 1000, 20)
	taskID, err := service.Eval(context.Background(), workitem)
	require.NoError(t, err)
	assert.Equal(t, 1200, taskID)
	assert.Equal(t, 1000, workitem.TaskID())
	assert.Equal(t, 20, workitem.EventID())
	assert.False(t, workitem.Items.Has(model.ItemRuns))

	taskID, err = service.Eval(context.Background(), model.NewWorkItem("1.0.0", 1100, 50))
	require.NoError(t, err)
	assert.Equal(t, 2000, taskID)
}
