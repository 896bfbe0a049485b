package catalog

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/viant/bpmnflow/model"
)

// Catalog represents a deterministic listing of a model
type Catalog struct {
	Version    string       `yaml:"version"`
	Plugins    []string     `yaml:"plugins,omitempty"`
	DebugLevel int          `yaml:"debugLevel,omitempty"`
	Groups     []string     `yaml:"groups,omitempty"`
	Tasks      []*TaskEntry `yaml:"tasks,omitempty"`
	Items      model.Items  `yaml:"items,omitempty"`
}

// TaskEntry represents a task with its events
type TaskEntry struct {
	ID            int            `yaml:"id"`
	Name          string         `yaml:"name,omitempty"`
	Group         string         `yaml:"group,omitempty"`
	Documentation string         `yaml:"documentation,omitempty"`
	Start         bool           `yaml:"start,omitempty"`
	End           bool           `yaml:"end,omitempty"`
	Items         model.Items    `yaml:"items,omitempty"`
	Events        []*model.Event `yaml:"events,omitempty"`
}

// New creates a catalog of the supplied model
func New(aModel *model.Model) *Catalog {
	definition := aModel.Definition()
	ret := &Catalog{
		Version:    aModel.Version(),
		Plugins:    definition.Plugins,
		DebugLevel: definition.DebugLevel,
		Groups:     aModel.Groups(),
		Items:      definition.Items,
	}
	for _, task := range aModel.Tasks() {
		ret.Tasks = append(ret.Tasks, &TaskEntry{
			ID:            task.ID,
			Name:          task.Name,
			Group:         task.Group,
			Documentation: task.Documentation,
			Start:         task.Start,
			End:           task.End,
			Items:         task.Items,
			Events:        aModel.Events(task.ID),
		})
	}
	return ret
}

// Render renders the model catalog as YAML
func Render(aModel *model.Model) (string, error) {
	buffer := &bytes.Buffer{}
	encoder := yaml.NewEncoder(buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(New(aModel)); err != nil {
		return "", fmt.Errorf("failed to render model %v: %w", aModel.Version(), err)
	}
	if err := encoder.Close(); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// Diff returns a unified diff of two model catalogs, empty when they are equal
func Diff(from, to *model.Model) (string, error) {
	fromText, err := Render(from)
	if err != nil {
		return "", err
	}
	toText, err := Render(to)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(fromText),
		B:        difflib.SplitLines(toText),
		FromFile: from.Version(),
		ToFile:   to.Version(),
		Context:  3,
	})
}
