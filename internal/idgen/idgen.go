package idgen

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/viant/bpmnflow/internal/clock"
)

// NewFunc returns a new globally unique identifier as string. It is
// implemented as a variable so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new unique identifier
func New() string { return NewFunc() }

// NewTransaction returns a compact transaction identifier prefixed with the current unix time in hex.
func NewTransaction() string {
	id := strings.ReplaceAll(NewFunc(), "-", "")
	if len(id) > 12 {
		id = id[:12]
	}
	return strconv.FormatInt(clock.Now().UnixMilli(), 16) + "-" + id
}
