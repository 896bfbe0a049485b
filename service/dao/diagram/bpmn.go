package diagram

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/graph"
)

type (
	bpmnDefinitions struct {
		XMLName        xml.Name            `xml:"definitions"`
		Extension      *bpmnExtension      `xml:"extensionElements"`
		Collaborations []bpmnCollaboration `xml:"collaboration"`
		Processes      []bpmnProcess       `xml:"process"`
		Messages       []bpmnMessage       `xml:"message"`
		Signals        []bpmnSignal        `xml:"signal"`
	}

	bpmnCollaboration struct {
		ID           string            `xml:"id,attr"`
		Participants []bpmnParticipant `xml:"participant"`
		MessageFlows []bpmnFlow        `xml:"messageFlow"`
	}

	bpmnParticipant struct {
		ID         string `xml:"id,attr"`
		Name       string `xml:"name,attr"`
		ProcessRef string `xml:"processRef,attr"`
	}

	bpmnProcess struct {
		ID                   string               `xml:"id,attr"`
		Name                 string               `xml:"name,attr"`
		Tasks                []bpmnTask           `xml:"task"`
		UserTasks            []bpmnTask           `xml:"userTask"`
		ManualTasks          []bpmnTask           `xml:"manualTask"`
		ServiceTasks         []bpmnTask           `xml:"serviceTask"`
		ScriptTasks          []bpmnTask           `xml:"scriptTask"`
		SendTasks            []bpmnTask           `xml:"sendTask"`
		ReceiveTasks         []bpmnTask           `xml:"receiveTask"`
		BusinessRuleTasks    []bpmnTask           `xml:"businessRuleTask"`
		StartEvents          []bpmnEvent          `xml:"startEvent"`
		EndEvents            []bpmnEvent          `xml:"endEvent"`
		CatchEvents          []bpmnEvent          `xml:"intermediateCatchEvent"`
		ThrowEvents          []bpmnEvent          `xml:"intermediateThrowEvent"`
		BoundaryEvents       []bpmnEvent          `xml:"boundaryEvent"`
		ExclusiveGateways    []bpmnElement        `xml:"exclusiveGateway"`
		InclusiveGateways    []bpmnElement        `xml:"inclusiveGateway"`
		EventBasedGateways   []bpmnElement        `xml:"eventBasedGateway"`
		ParallelGateways     []bpmnElement        `xml:"parallelGateway"`
		SequenceFlows        []bpmnFlow           `xml:"sequenceFlow"`
		Associations         []bpmnFlow           `xml:"association"`
		DataObjects          []bpmnElement        `xml:"dataObject"`
		DataObjectReferences []bpmnDataObjectRef  `xml:"dataObjectReference"`
		TextAnnotations      []bpmnTextAnnotation `xml:"textAnnotation"`
	}

	bpmnElement struct {
		ID            string         `xml:"id,attr"`
		Name          string         `xml:"name,attr"`
		Documentation []string       `xml:"documentation"`
		Extension     *bpmnExtension `xml:"extensionElements"`
	}

	bpmnTask struct {
		bpmnElement
		ProcessID string `xml:"processid,attr"`
	}

	bpmnEvent struct {
		bpmnElement
		ActivityID    string                 `xml:"activityid,attr"`
		AttachedToRef string                 `xml:"attachedToRef,attr"`
		Link          *bpmnLinkDefinition    `xml:"linkEventDefinition"`
		Timer         *bpmnTimerDefinition   `xml:"timerEventDefinition"`
		Signals       []bpmnSignalDefinition `xml:"signalEventDefinition"`
	}

	bpmnLinkDefinition struct {
		Name string `xml:"name,attr"`
	}

	bpmnTimerDefinition struct {
		TimeDuration string `xml:"timeDuration"`
	}

	bpmnSignalDefinition struct {
		SignalRef string `xml:"signalRef,attr"`
	}

	bpmnFlow struct {
		ID        string `xml:"id,attr"`
		Name      string `xml:"name,attr"`
		SourceRef string `xml:"sourceRef,attr"`
		TargetRef string `xml:"targetRef,attr"`
		Condition string `xml:"conditionExpression"`
	}

	bpmnDataObjectRef struct {
		bpmnElement
		DataObjectRef string `xml:"dataObjectRef,attr"`
	}

	bpmnTextAnnotation struct {
		ID   string `xml:"id,attr"`
		Text string `xml:"text"`
	}

	bpmnMessage struct {
		bpmnElement
	}

	bpmnSignal struct {
		ID   string `xml:"id,attr"`
		Name string `xml:"name,attr"`
	}

	bpmnExtension struct {
		Items []bpmnItem `xml:"item"`
	}

	bpmnItem struct {
		Name   string   `xml:"name,attr"`
		Type   string   `xml:"type,attr"`
		Values []string `xml:"value"`
		Text   string   `xml:",chardata"`
	}
)

// DecodeBPMN decodes a BPMN 2.0 document with imixs extension attributes into a graph
func DecodeBPMN(source string, data []byte) (*graph.Graph, error) {
	var definitions bpmnDefinitions
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&definitions); err != nil {
		return nil, fmt.Errorf("failed to decode bpmn %v: %w", source, err)
	}
	ret := graph.New(source)
	ret.Definition = definitions.Extension.items()
	signals := map[string]string{}
	for _, signal := range definitions.Signals {
		signals[signal.ID] = signal.Name
	}
	for _, message := range definitions.Messages {
		ret.Messages = append(ret.Messages, &graph.Message{ID: message.ID, Name: message.Name, Documentation: message.documentation()})
	}

	pools := map[string]string{}
	for _, collaboration := range definitions.Collaborations {
		for _, participant := range collaboration.Participants {
			if participant.ProcessRef == "" {
				continue
			}
			ret.Collaboration = true
			pools[participant.ProcessRef] = participant.Name
		}
	}
	for i := range definitions.Processes {
		process := &definitions.Processes[i]
		name, pool := pools[process.ID]
		if !pool {
			name = process.Name
		}
		ret.AddProcess(&graph.Process{ID: process.ID, Name: name, Pool: pool})
		if err := addProcess(ret, process, signals); err != nil {
			return nil, fmt.Errorf("invalid bpmn %v: %w", source, err)
		}
	}
	for _, collaboration := range definitions.Collaborations {
		for _, flow := range collaboration.MessageFlows {
			if err := ret.AddFlow(&graph.Flow{ID: flow.ID, Kind: graph.FlowMessage, Source: flow.SourceRef, Target: flow.TargetRef}); err != nil {
				return nil, fmt.Errorf("invalid bpmn %v: %w", source, err)
			}
		}
	}
	ret.ConnectLinks()
	return ret, nil
}

func addProcess(g *graph.Graph, process *bpmnProcess, signals map[string]string) error {
	taskGroups := [][]bpmnTask{process.Tasks, process.UserTasks, process.ManualTasks, process.ServiceTasks,
		process.ScriptTasks, process.SendTasks, process.ReceiveTasks, process.BusinessRuleTasks}
	for _, tasks := range taskGroups {
		for i := range tasks {
			if err := addTask(g, process.ID, &tasks[i]); err != nil {
				return err
			}
		}
	}
	eventGroups := []struct {
		events []bpmnEvent
		kind   graph.Kind
	}{
		{process.StartEvents, graph.KindStartEvent},
		{process.EndEvents, graph.KindEndEvent},
		{process.CatchEvents, graph.KindLinkCatch},
		{process.ThrowEvents, graph.KindLinkThrow},
		{process.BoundaryEvents, graph.KindBoundaryEvent},
	}
	for _, group := range eventGroups {
		for i := range group.events {
			if err := addEvent(g, process.ID, &group.events[i], group.kind, signals); err != nil {
				return err
			}
		}
	}
	gatewayGroups := []struct {
		gateways []bpmnElement
		kind     graph.Kind
	}{
		{process.ExclusiveGateways, graph.KindExclusiveGateway},
		{process.InclusiveGateways, graph.KindInclusiveGateway},
		{process.EventBasedGateways, graph.KindEventGateway},
		{process.ParallelGateways, graph.KindParallelGateway},
	}
	for _, group := range gatewayGroups {
		for _, gateway := range group.gateways {
			if err := g.AddNode(&graph.Node{ID: gateway.ID, Kind: group.kind, Name: gateway.Name, Process: process.ID}); err != nil {
				return err
			}
		}
	}
	dataObjects := map[string]bpmnElement{}
	for _, dataObject := range process.DataObjects {
		dataObjects[dataObject.ID] = dataObject
		if err := g.AddNode(&graph.Node{ID: dataObject.ID, Kind: graph.KindDataObject, Name: dataObject.Name,
			Process: process.ID, Documentation: dataObject.documentation()}); err != nil {
			return err
		}
	}
	for _, reference := range process.DataObjectReferences {
		node := &graph.Node{ID: reference.ID, Kind: graph.KindDataObject, Name: reference.Name, Process: process.ID, Documentation: reference.documentation()}
		if target, ok := dataObjects[reference.DataObjectRef]; ok {
			if node.Name == "" {
				node.Name = target.Name
			}
			if node.Documentation == "" {
				node.Documentation = target.documentation()
			}
		}
		if err := g.AddNode(node); err != nil {
			return err
		}
	}
	for _, annotation := range process.TextAnnotations {
		if err := g.AddNode(&graph.Node{ID: annotation.ID, Kind: graph.KindAnnotation, Process: process.ID,
			Documentation: strings.TrimSpace(annotation.Text)}); err != nil {
			return err
		}
	}
	for _, flow := range process.SequenceFlows {
		if err := g.AddFlow(&graph.Flow{ID: flow.ID, Kind: graph.FlowSequence, Source: flow.SourceRef, Target: flow.TargetRef,
			Condition: strings.TrimSpace(flow.Condition)}); err != nil {
			return err
		}
	}
	for _, flow := range process.Associations {
		if err := g.AddFlow(&graph.Flow{ID: flow.ID, Kind: graph.FlowAssociation, Source: flow.SourceRef, Target: flow.TargetRef}); err != nil {
			return err
		}
	}
	return nil
}

func addTask(g *graph.Graph, processID string, task *bpmnTask) error {
	node := &graph.Node{ID: task.ID, Kind: graph.KindTask, Name: task.Name, Process: processID,
		Documentation: task.documentation(), Items: task.Extension.items()}
	if task.ProcessID == "" {
		node.Kind = graph.KindIntermediate
	} else {
		number, err := strconv.Atoi(strings.TrimSpace(task.ProcessID))
		if err != nil {
			return fmt.Errorf("task %v has invalid processid %q", task.ID, task.ProcessID)
		}
		node.Number = number
	}
	return g.AddNode(node)
}

func addEvent(g *graph.Graph, processID string, event *bpmnEvent, kind graph.Kind, signals map[string]string) error {
	node := &graph.Node{ID: event.ID, Kind: kind, Name: event.Name, Process: processID,
		Documentation: event.documentation(), AttachedTo: event.AttachedToRef, Items: event.Extension.items()}
	if event.Timer != nil {
		node.TimeDuration = strings.TrimSpace(event.Timer.TimeDuration)
	}
	for _, signal := range event.Signals {
		if name := signals[signal.SignalRef]; name != "" {
			node.Signals = append(node.Signals, name)
		}
	}
	switch kind {
	case graph.KindLinkCatch, graph.KindLinkThrow:
		if event.ActivityID != "" {
			number, err := strconv.Atoi(strings.TrimSpace(event.ActivityID))
			if err != nil {
				return fmt.Errorf("event %v has invalid activityid %q", event.ID, event.ActivityID)
			}
			node.Kind = graph.KindEvent
			node.Number = number
		} else if event.Link != nil {
			node.Link = event.Link.Name
		} else {
			node.Kind = graph.KindIntermediate
		}
	}
	return g.AddNode(node)
}

func (e *bpmnElement) documentation() string {
	return strings.TrimSpace(strings.Join(e.Documentation, "\n"))
}

func (e *bpmnExtension) items() model.Items {
	ret := model.Items{}
	if e == nil {
		return ret
	}
	for _, item := range e.Items {
		if item.Name == "" {
			continue
		}
		values := item.Values
		if len(values) == 0 && strings.TrimSpace(item.Text) != "" {
			values = []string{item.Text}
		}
		converted := make([]interface{}, 0, len(values))
		for _, value := range values {
			converted = append(converted, convertValue(item.Type, value))
		}
		ret.Set(item.Name, converted...)
	}
	return ret
}

func convertValue(kind, value string) interface{} {
	switch strings.ToLower(strings.TrimPrefix(kind, "xs:")) {
	case "boolean":
		return strings.EqualFold(strings.TrimSpace(value), "true")
	case "int", "integer", "long":
		if number, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return number
		}
	case "double", "float", "decimal":
		if number, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return number
		}
	}
	return value
}
