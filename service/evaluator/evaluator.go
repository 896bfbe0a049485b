package evaluator

import (
	"context"
	"fmt"
	"go/parser"
	"regexp"
	"strings"

	"github.com/viant/bpmnflow/model"
)

// Evaluator evaluates a gateway condition or script against a workitem
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, workitem *model.WorkItem) (interface{}, error)
}

// WorkItemVariable names the workitem in expressions
const WorkItemVariable = "workitem"

// dollarPrefix replaces '$' in identifiers, e.g. workitem.$taskid
const dollarPrefix = "__dollar_"

var (
	singleQuoted = regexp.MustCompile(`'([^']*)'`)
	dollarIdent  = regexp.MustCompile(`\.\$([A-Za-z_])`)
)

// Expression evaluates JavaScript like conditions:
//
//	(workitem._budget && workitem._budget[0]>100)
//	workitem.txtname === 'Anna' || workitem.$taskid[0] == 1000
//
// Item references resolve to the item value list, or undefined when the item
// does not exist. Logical operators follow JavaScript truthiness.
type Expression struct{}

// Evaluate evaluates expression
func (e *Expression) Evaluate(_ context.Context, expr string, workitem *model.WorkItem) (interface{}, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}
	node, err := parser.ParseExpr(normalize(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	scope := &scope{workitem: workitem}
	if scope.workitem == nil {
		scope.workitem = &model.WorkItem{Items: model.Items{}}
	}
	ret, err := scope.evaluate(node)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", expr, err)
	}
	return ret, nil
}

// Bool evaluates expression with evaluator and converts the result with JavaScript truthiness
func Bool(ctx context.Context, evaluator Evaluator, expr string, workitem *model.WorkItem) (bool, error) {
	if strings.TrimSpace(expr) == "" || strings.TrimSpace(expr) == "true" {
		return true, nil
	}
	ret, err := evaluator.Evaluate(ctx, expr, workitem)
	if err != nil {
		return false, err
	}
	return Truthy(ret), nil
}

func normalize(expr string) string {
	expr = strings.ReplaceAll(expr, "!==", "!=")
	expr = strings.ReplaceAll(expr, "===", "==")
	expr = singleQuoted.ReplaceAllString(expr, `"$1"`)
	expr = dollarIdent.ReplaceAllString(expr, "."+dollarPrefix+"$1")
	return expr
}

// New creates the default expression evaluator
func New() *Expression {
	return &Expression{}
}

var _ Evaluator = (*Expression)(nil)
