package diagram

import (
	"fmt"
	"strings"

	"github.com/viant/bpmnflow/internal/yml"
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/graph"
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes the compact YAML diagram format into a graph
func DecodeYAML(source string, data []byte) (*graph.Graph, error) {
	root, err := yml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode yaml %v: %w", source, err)
	}
	ret := graph.New(source)
	if err = parseDiagram(root, ret); err != nil {
		return nil, fmt.Errorf("invalid yaml diagram %v: %w", source, err)
	}
	ret.ConnectLinks()
	return ret, nil
}

func parseDiagram(root *yml.Node, g *graph.Graph) error {
	if items := root.Lookup("definition"); items != nil {
		definition, err := parseItems(items)
		if err != nil {
			return fmt.Errorf("definition: %w", err)
		}
		g.Definition = definition
	}
	g.Collaboration = root.Lookup("collaboration").Bool()
	if err := root.Lookup("messages").Items(func(_ int, node *yml.Node) error {
		g.Messages = append(g.Messages, &graph.Message{
			ID:            node.Lookup("id").String(),
			Name:          node.Lookup("name").String(),
			Documentation: node.Lookup("documentation").String(),
		})
		return nil
	}); err != nil {
		return err
	}
	return root.Lookup("processes").Items(func(index int, node *yml.Node) error {
		process := &graph.Process{
			ID:   node.Lookup("id").String(),
			Name: node.Lookup("name").String(),
			Pool: node.Lookup("pool").Bool(),
		}
		if process.ID == "" {
			process.ID = fmt.Sprintf("process_%d", index+1)
		}
		if process.Pool {
			g.Collaboration = true
		}
		g.AddProcess(process)
		if err := node.Lookup("nodes").Items(func(_ int, element *yml.Node) error {
			return parseNode(element, process.ID, g)
		}); err != nil {
			return fmt.Errorf("process %v: %w", process.ID, err)
		}
		return node.Lookup("flows").Items(func(i int, element *yml.Node) error {
			flow := &graph.Flow{
				ID:        element.Lookup("id").String(),
				Kind:      graph.FlowKind(element.Lookup("kind").String()),
				Source:    element.Lookup("source").String(),
				Target:    element.Lookup("target").String(),
				Condition: strings.TrimSpace(element.Lookup("condition").String()),
			}
			if flow.ID == "" {
				flow.ID = fmt.Sprintf("%v_flow_%d", process.ID, i+1)
			}
			if err := g.AddFlow(flow); err != nil {
				return fmt.Errorf("process %v: %w", process.ID, err)
			}
			return nil
		})
	})
}

func parseNode(element *yml.Node, processID string, g *graph.Graph) error {
	if element.Kind != yaml.MappingNode {
		return fmt.Errorf("node should be a mapping")
	}
	node := &graph.Node{Process: processID}
	err := element.Pairs(func(key string, value *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			node.ID = value.String()
		case "kind":
			node.Kind = graph.Kind(value.String())
		case "name":
			node.Name = value.String()
		case "number":
			node.Number = value.Int()
		case "documentation":
			node.Documentation = strings.TrimSpace(value.String())
		case "link":
			node.Link = value.String()
		case "attachedto":
			node.AttachedTo = value.String()
		case "timeduration":
			node.TimeDuration = value.String()
		case "signals":
			if value.Kind == yaml.ScalarNode {
				node.Signals = []string{value.String()}
				return nil
			}
			return value.Items(func(_ int, signal *yml.Node) error {
				node.Signals = append(node.Signals, signal.String())
				return nil
			})
		case "items":
			items, err := parseItems(value)
			if err != nil {
				return err
			}
			node.Items = items
		}
		return nil
	})
	if err != nil {
		return err
	}
	if node.Kind == "" {
		return fmt.Errorf("node %v has no kind", node.ID)
	}
	return g.AddNode(node)
}

func parseItems(node *yml.Node) (model.Items, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("items should be a mapping")
	}
	ret := model.Items{}
	err := node.Pairs(func(key string, value *yml.Node) error {
		switch actual := value.Interface().(type) {
		case []interface{}:
			ret.Set(key, actual...)
		case nil:
			ret.Set(key)
		default:
			ret.Set(key, actual)
		}
		return nil
	})
	return ret, err
}
