package registry

import (
	"github.com/viant/bpmnflow/model"
	"github.com/viant/bpmnflow/service/dao"
)

type Option func(*Registry)

// WithStore sets the model store; a store shared by registries makes their models visible to each other
func WithStore(models dao.Service[string, model.Model]) Option {
	return func(r *Registry) {
		r.models = models
	}
}
