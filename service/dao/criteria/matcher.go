package criteria

import (
	"strings"

	"github.com/viant/bpmnflow/service/dao"
)

// Match returns true when every parameter named name accepts one of the
// candidate values. Parameters with other names are ignored.
func Match(name string, candidates []string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if !strings.EqualFold(parameter.Name, name) {
			continue
		}
		if !matchAny(candidates, parameter.Values()) {
			return false
		}
	}
	return true
}

func matchAny(candidates, values []string) bool {
	for _, value := range values {
		for _, candidate := range candidates {
			if value == candidate {
				return true
			}
		}
	}
	return false
}
