package yml

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node wraps yaml.Node with traversal helpers.
type Node yaml.Node

// Lookup returns the value node for a mapping key (case-insensitive), or nil.
func (n *Node) Lookup(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return (*Node)(n.Content[0]).Lookup(name)
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if strings.EqualFold(n.Content[i].Value, name) {
			return (*Node)(n.Content[i+1])
		}
	}
	return nil
}

// Items iterates sequence elements.
func (n *Node) Items(callback func(index int, node *Node) error) error {
	if n == nil {
		return nil
	}
	for i := 0; i < len(n.Content); i++ {
		if err := callback(i, (*Node)(n.Content[i])); err != nil {
			return err
		}
	}
	return nil
}

// Pairs iterates mapping key/value pairs in declaration order.
func (n *Node) Pairs(callback func(key string, node *Node) error) error {
	if n == nil {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := callback(n.Content[i].Value, (*Node)(n.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}

// String returns scalar text, empty for nil or non scalar nodes.
func (n *Node) String() string {
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	return n.Value
}

// Int returns scalar integer, 0 when missing or invalid.
func (n *Node) Int() int {
	ret, _ := strconv.Atoi(strings.TrimSpace(n.String()))
	return ret
}

// Bool returns scalar boolean.
func (n *Node) Bool() bool {
	return strings.EqualFold(strings.TrimSpace(n.String()), "true")
}

// Interface converts node into plain go values.
func (n *Node) Interface() interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return (*Node)(n.Content[0]).Interface()
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!bool":
			return strings.EqualFold(n.Value, "true")
		case "!!null":
			return nil
		case "!!float":
			f, _ := strconv.ParseFloat(n.Value, 64)
			return f
		case "!!int":
			i, _ := strconv.Atoi(n.Value)
			return i
		default:
			return n.Value
		}
	case yaml.MappingNode:
		var aMap = make(map[string]interface{})
		for i := 0; i+1 < len(n.Content); i += 2 {
			aMap[n.Content[i].Value] = (*Node)(n.Content[i+1]).Interface()
		}
		return aMap
	case yaml.SequenceNode:
		var aSlice = make([]interface{}, 0, len(n.Content))
		for i := 0; i < len(n.Content); i++ {
			aSlice = append(aSlice, (*Node)(n.Content[i]).Interface())
		}
		return aSlice
	}
	return nil
}

// Parse decodes data into a Node.
func Parse(data []byte) (*Node, error) {
	node := &yaml.Node{}
	if err := yaml.Unmarshal(data, node); err != nil {
		return nil, err
	}
	return (*Node)(node), nil
}
