package model

// Definition item names.
const (
	DefinitionItemVersion    = "txtworkflowmodelversion"
	DefinitionItemPlugins    = "txtplugins"
	DefinitionItemDebugLevel = "keydebuglevel"
)

// Definition represents a model profile
type Definition struct {
	Version    string   `json:"version" yaml:"version"`
	Plugins    []string `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	DebugLevel int      `json:"debugLevel,omitempty" yaml:"debugLevel,omitempty"`
	Items      Items    `json:"items,omitempty" yaml:"items,omitempty"`
}

// Clone returns a deep copy
func (d *Definition) Clone() *Definition {
	if d == nil {
		return nil
	}
	ret := *d
	if d.Plugins != nil {
		ret.Plugins = append([]string{}, d.Plugins...)
	}
	ret.Items = d.Items.Clone()
	return &ret
}
