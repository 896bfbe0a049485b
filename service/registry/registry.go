package registry

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/model/types"
	"github.com/viant/bpmnflow/service/dao"
	"github.com/viant/bpmnflow/service/dao/criteria"
	"github.com/viant/bpmnflow/service/dao/store"
)

// ParameterGroup filters models by workflow group
const ParameterGroup = "group"

// Registry holds resolved models by version, models are never replaced
type Registry struct {
	mu     sync.Mutex
	models dao.Service[string, model.Model]
}

// Add registers a model, an already registered version is rejected
func (r *Registry) Add(m *model.Model) error {
	if m == nil {
		return fmt.Errorf("model was nil")
	}
	if m.Version() == "" {
		return types.NewModelError(types.InvalidModel, "model version was empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()
	if prev, _ := r.models.Load(ctx, m.Version()); prev != nil {
		return types.NewModelError(types.InvalidModel, "model %s already registered", m.Version())
	}
	return r.models.Save(ctx, m)
}

// Model returns a model by exact version
func (r *Registry) Model(version string) (*model.Model, error) {
	ret, _ := r.models.Load(context.Background(), version)
	if ret == nil {
		return nil, &types.ModelError{Code: types.UndefinedModelVersion, Message: fmt.Sprintf("model version '%s' not found", version)}
	}
	return ret, nil
}

// Lookup resolves a model for a workitem: exact version first, then the
// highest version matching version as a regular expression, then the highest
// version defining group. It returns the model and its version.
func (r *Registry) Lookup(version, group string) (*model.Model, string, error) {
	if ret, _ := r.models.Load(context.Background(), version); ret != nil {
		return ret, version, nil
	}
	if version != "" {
		if versions, err := r.FindVersionsByRegex(version); err == nil && len(versions) > 0 {
			ret, err := r.Model(versions[0])
			return ret, versions[0], err
		}
	}
	if group != "" {
		if versions := r.FindVersionsByGroup(group); len(versions) > 0 {
			ret, err := r.Model(versions[0])
			return ret, versions[0], err
		}
	}
	return nil, "", &types.ModelError{Code: types.UndefinedModelVersion, Message: fmt.Sprintf("model version '%s' not found, workflow group '%s'", version, group)}
}

// FindVersionsByRegex returns versions containing a match of expr, highest first.
// Anchor expr with ^ and $ to require a full match.
func (r *Registry) FindVersionsByRegex(expr string) ([]string, error) {
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid model version pattern %q: %w", expr, err)
	}
	var ret []string
	for _, version := range r.Versions() {
		if pattern.MatchString(version) {
			ret = append(ret, version)
		}
	}
	SortDescending(ret)
	return ret, nil
}

// FindVersionsByGroup returns versions defining the workflow group, highest first
func (r *Registry) FindVersionsByGroup(group string) []string {
	models, _ := r.models.List(context.Background(), dao.NewParameter(ParameterGroup, group))
	ret := make([]string, 0, len(models))
	for _, m := range models {
		ret = append(ret, m.Version())
	}
	SortDescending(ret)
	return ret
}

// Versions returns registered versions in registration order
func (r *Registry) Versions() []string {
	models, _ := r.models.List(context.Background())
	ret := make([]string, 0, len(models))
	for _, m := range models {
		ret = append(ret, m.Version())
	}
	return ret
}

// Groups returns sorted workflow groups of all models
func (r *Registry) Groups() []string {
	models, _ := r.models.List(context.Background())
	unique := map[string]bool{}
	var ret []string
	for _, m := range models {
		for _, group := range m.Groups() {
			if !unique[group] {
				unique[group] = true
				ret = append(ret, group)
			}
		}
	}
	sort.Strings(ret)
	return ret
}

// Len returns number of registered models
func (r *Registry) Len() int {
	models, _ := r.models.List(context.Background())
	return len(models)
}

// SortDescending sorts versions highest first, numeric segments compare as numbers
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) > 0
	})
}

// CompareVersions compares dot or dash separated versions segment by segment
func CompareVersions(a, b string) int {
	split := func(r rune) bool { return r == '.' || r == '-' || r == '_' }
	as, bs := strings.FieldsFunc(a, split), strings.FieldsFunc(b, split)
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		if aErr == nil && bErr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if cmp := strings.Compare(as[i], bs[i]); cmp != 0 {
			return cmp
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// NewStore creates an in-memory model store keyed by version, filtering by workflow group
func NewStore() *store.MemoryStore[string, model.Model] {
	return store.NewMemoryStore[string, model.Model](func(m *model.Model) string { return m.Version() }).
		WithFilter(func(m *model.Model, parameters []*dao.Parameter) bool {
			return criteria.Match(ParameterGroup, m.Groups(), parameters)
		})
}

// New creates an empty registry
func New(opts ...Option) *Registry {
	ret := &Registry{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.models == nil {
		ret.models = NewStore()
	}
	return ret
}
