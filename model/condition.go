package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetKind defines a condition target kind
type TargetKind string

const (
	TargetTask  TargetKind = "task"
	TargetEvent TargetKind = "event"
)

// DefaultExpression marks an unconditional gateway branch
const DefaultExpression = "true"

// Target identifies a task or an event
type Target struct {
	Kind TargetKind `json:"kind" yaml:"kind"`
	ID   int        `json:"id" yaml:"id"`
}

// Key returns "task=<id>" or "event=<id>"
func (t Target) Key() string {
	return string(t.Kind) + "=" + strconv.Itoa(t.ID)
}

// ParseTarget parses "task=<id>" or "event=<id>"
func ParseTarget(key string) (Target, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(key), "=")
	if !ok {
		return Target{}, fmt.Errorf("invalid condition target: %q", key)
	}
	number, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return Target{}, fmt.Errorf("invalid condition target id: %q: %w", key, err)
	}
	switch TargetKind(strings.ToLower(strings.TrimSpace(kind))) {
	case TargetTask:
		return Target{Kind: TargetTask, ID: number}, nil
	case TargetEvent:
		return Target{Kind: TargetEvent, ID: number}, nil
	}
	return Target{}, fmt.Errorf("unsupported condition target kind: %q", key)
}

// Condition represents a gateway branch copied onto an event
type Condition struct {
	Target     Target `json:"target" yaml:"target"`
	Expression string `json:"expression" yaml:"expression"`
}

// IsDefault returns true for an unconditional branch
func (c *Condition) IsDefault() bool {
	expr := strings.TrimSpace(c.Expression)
	return expr == "" || expr == DefaultExpression
}

// Conditions represents ordered gateway branches
type Conditions []*Condition

// Map returns conditions keyed by target
func (c Conditions) Map() map[string]string {
	if len(c) == 0 {
		return nil
	}
	ret := make(map[string]string, len(c))
	for _, cond := range c {
		ret[cond.Target.Key()] = cond.Expression
	}
	return ret
}

// Ordered returns conditions in declaration order with default branches last
func (c Conditions) Ordered() Conditions {
	ret := make(Conditions, 0, len(c))
	var defaults Conditions
	for _, cond := range c {
		if cond.IsDefault() {
			defaults = append(defaults, cond)
			continue
		}
		ret = append(ret, cond)
	}
	return append(ret, defaults...)
}

// Lookup returns condition for a target key
func (c Conditions) Lookup(key string) *Condition {
	for _, cond := range c {
		if cond.Target.Key() == key {
			return cond
		}
	}
	return nil
}

// Clone returns a deep copy
func (c Conditions) Clone() Conditions {
	if c == nil {
		return nil
	}
	ret := make(Conditions, len(c))
	for i, cond := range c {
		copied := *cond
		ret[i] = &copied
	}
	return ret
}
