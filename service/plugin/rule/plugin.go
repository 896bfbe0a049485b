package rule

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/viant/structology/conv"
	"github.com/viant/toolbox"

	"github.com/viant/bpmnflow/extension"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
)

const (
	// Name is the plugin registration name
	Name = "rule"
	// EventItemEngine selects the rule engine, only "go" is supported
	EventItemEngine = "rule.engine"
	// EventItemDefinition holds the rule source
	EventItemDefinition = "rule.definition"
	// Engine is the supported engine name
	Engine = "go"
	// FuncName is the function a rule source has to declare:
	//
	//	func Rule(workitem map[string]interface{}, event map[string]interface{}) map[string]interface{}
	FuncName = "Rule"
)

// Func represents a compiled rule
type Func func(workitem map[string]interface{}, event map[string]interface{}) map[string]interface{}

// Plugin runs go business rules bound to an event
type Plugin struct {
	logger    zerolog.Logger
	once      sync.Once
	converter *conv.Converter
	mux       sync.Mutex
	compiled  map[string]Func
}

func (p *Plugin) Name() string {
	return Name
}

// Init adopts the logger of the first session, a plugin instance is shared by concurrent sessions
func (p *Plugin) Init(_ context.Context, extCtx *extension.Context) error {
	p.once.Do(func() {
		if extCtx != nil {
			p.logger = extCtx.Logger
		}
	})
	return nil
}

func (p *Plugin) Run(_ context.Context, workitem *model.WorkItem, event *model.Event) (*model.WorkItem, error) {
	definition := strings.TrimSpace(event.Items.String(EventItemDefinition))
	if definition == "" {
		return workitem, nil
	}
	if engine := strings.TrimSpace(event.Items.String(EventItemEngine)); !strings.EqualFold(engine, Engine) {
		p.logger.Warn().Str("engine", engine).Int("task", event.TaskID).Int("event", event.ID).Msg("unsupported rule engine, rule skipped")
		return workitem, nil
	}
	fn, err := p.compile(definition)
	if err != nil {
		return nil, types.NewPluginError(Name, types.InvalidFormat, fmt.Sprintf("invalid rule of event %d.%d: %v", event.TaskID, event.ID, err))
	}
	output, err := call(fn, workitem.Items.Map(), eventMap(event))
	if err != nil {
		return nil, &types.PluginError{Context: Name, Code: types.PluginFailed, Message: fmt.Sprintf("rule of event %d.%d failed", event.TaskID, event.ID), Err: err}
	}
	result, err := p.decode(output)
	if err != nil {
		return nil, &types.PluginError{Context: Name, Code: types.PluginFailed, Message: "invalid rule result", Err: err}
	}
	if !result.IsValid {
		code := result.ErrorCode
		if code == "" {
			code = types.ValidationFailed
		}
		message := result.ErrorMessage
		if message == "" {
			message = "business rule validation failed"
		}
		return nil, types.NewPluginError(Name, code, message, result.ErrorParams...)
	}
	for name, value := range result.Items {
		if strings.HasPrefix(name, "$") {
			p.logger.Warn().Str("item", name).Msg("rule result item ignored")
			continue
		}
		workitem.Items.Set(name, value)
	}
	if result.FollowUp > 0 {
		workitem.Items.Append(model.ItemEventIDList, result.FollowUp)
	}
	return workitem, nil
}

func (p *Plugin) Close(bool) error {
	return nil
}

func (p *Plugin) compile(definition string) (Func, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	if fn, ok := p.compiled[definition]; ok {
		return fn, nil
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, err
	}
	if _, err := i.Eval(definition); err != nil {
		return nil, fmt.Errorf("failed to interpret rule: %w", err)
	}
	value, err := i.Eval(FuncName)
	if err != nil {
		return nil, fmt.Errorf("rule has to define %v: %w", FuncName, err)
	}
	if !value.IsValid() || !value.CanInterface() {
		return nil, fmt.Errorf("rule has to define %v", FuncName)
	}
	fn, ok := value.Interface().(func(map[string]interface{}, map[string]interface{}) map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%v has invalid signature: %T", FuncName, value.Interface())
	}
	p.compiled[definition] = fn
	return fn, nil
}

func call(fn Func, workitem, event map[string]interface{}) (output map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panic: %v", r)
		}
	}()
	return fn(workitem, event), nil
}

func (p *Plugin) decode(output map[string]interface{}) (*Result, error) {
	ret := &Result{}
	if len(output) == 0 {
		ret.IsValid = true
		return ret, nil
	}
	if err := p.converter.Convert(output, ret); err != nil {
		return nil, err
	}
	ret.IsValid = true
	if value, ok := output["isValid"]; ok {
		ret.IsValid = toolbox.AsBoolean(value)
	}
	return ret, nil
}

func eventMap(event *model.Event) map[string]interface{} {
	return map[string]interface{}{
		"id":         event.ID,
		"taskId":     event.TaskID,
		"name":       event.Name,
		"nextTaskId": event.NextTaskID,
		"items":      event.Items.Map(),
	}
}

// New creates a rule plugin
func New() *Plugin {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	return &Plugin{
		logger:    zerolog.Nop(),
		converter: conv.NewConverter(options),
		compiled:  map[string]Func{},
	}
}
