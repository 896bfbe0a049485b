package evaluator

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"github.com/viant/bpmnflow/model"
)

// undefined represents a JavaScript undefined value, i.e. a missing item
type undefined struct{}

// Undefined is returned for references to missing items
var Undefined = undefined{}

type scope struct {
	workitem *model.WorkItem
}

func (s *scope) evaluate(node ast.Expr) (interface{}, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return s.evaluate(n.X)
	case *ast.BasicLit:
		return literal(n)
	case *ast.Ident:
		return s.ident(n.Name)
	case *ast.SelectorExpr:
		x, err := s.evaluate(n.X)
		if err != nil {
			return nil, err
		}
		return s.property(x, itemName(n.Sel.Name))
	case *ast.IndexExpr:
		x, err := s.evaluate(n.X)
		if err != nil {
			return nil, err
		}
		index, err := s.evaluate(n.Index)
		if err != nil {
			return nil, err
		}
		return s.index(x, index)
	case *ast.CallExpr:
		return s.call(n)
	case *ast.UnaryExpr:
		x, err := s.evaluate(n.X)
		if err != nil {
			return nil, err
		}
		return unary(n.Op, x)
	case *ast.BinaryExpr:
		return s.binary(n)
	}
	return nil, fmt.Errorf("unsupported expression: %T", node)
}

func (s *scope) ident(name string) (interface{}, error) {
	switch name {
	case WorkItemVariable:
		return s.workitem, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "nil":
		return nil, nil
	case "undefined":
		return Undefined, nil
	}
	return nil, fmt.Errorf("unknown identifier: %v", name)
}

func (s *scope) property(x interface{}, name string) (interface{}, error) {
	switch actual := x.(type) {
	case *model.WorkItem:
		if !actual.Items.Has(name) {
			return Undefined, nil
		}
		return actual.Items.Values(name), nil
	case []interface{}:
		if name == "length" {
			return len(actual), nil
		}
	case string:
		if name == "length" {
			return len(actual), nil
		}
	case map[string]interface{}:
		if value, ok := actual[name]; ok {
			return value, nil
		}
		return Undefined, nil
	case nil, undefined:
		return nil, fmt.Errorf("cannot read property %v of %v", name, stringify(x))
	}
	return Undefined, nil
}

func (s *scope) index(x, index interface{}) (interface{}, error) {
	switch actual := x.(type) {
	case *model.WorkItem:
		return s.property(actual, stringify(index))
	case map[string]interface{}:
		return s.property(actual, stringify(index))
	case []interface{}:
		if !isNumber(index) {
			return s.property(actual, stringify(index))
		}
		i := toInt(index)
		if i < 0 || i >= len(actual) {
			return Undefined, nil
		}
		return actual[i], nil
	case string:
		i := toInt(index)
		if i < 0 || i >= len(actual) {
			return Undefined, nil
		}
		return actual[i : i+1], nil
	case nil, undefined:
		return nil, fmt.Errorf("cannot read index %v of %v", stringify(index), stringify(x))
	}
	return Undefined, nil
}

// call supports the workitem item accessors, e.g. workitem.getItemValueString('name')
func (s *scope) call(n *ast.CallExpr) (interface{}, error) {
	selector, ok := n.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, fmt.Errorf("unsupported function call: %T", n.Fun)
	}
	receiver, err := s.evaluate(selector.X)
	if err != nil {
		return nil, err
	}
	workitem, ok := receiver.(*model.WorkItem)
	if !ok || len(n.Args) != 1 {
		return nil, fmt.Errorf("unsupported function: %v", selector.Sel.Name)
	}
	arg, err := s.evaluate(n.Args[0])
	if err != nil {
		return nil, err
	}
	name := stringify(arg)
	switch strings.ToLower(selector.Sel.Name) {
	case "getitemvalue":
		return workitem.Items.Values(name), nil
	case "getitemvaluestring":
		return workitem.Items.String(name), nil
	case "getitemvalueinteger":
		return workitem.Items.Int(name), nil
	case "getitemvaluedouble", "getitemvaluefloat":
		return workitem.Items.Float(name), nil
	case "getitemvalueboolean":
		return workitem.Items.Bool(name), nil
	case "hasitem":
		return workitem.Items.Has(name), nil
	case "isitemempty":
		return len(workitem.Items.Strings(name)) == 0 || workitem.Items.String(name) == "", nil
	}
	return nil, fmt.Errorf("unsupported function: %v", selector.Sel.Name)
}

func (s *scope) binary(n *ast.BinaryExpr) (interface{}, error) {
	x, err := s.evaluate(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.LAND:
		if !Truthy(x) {
			return x, nil
		}
		return s.evaluate(n.Y)
	case token.LOR:
		if Truthy(x) {
			return x, nil
		}
		return s.evaluate(n.Y)
	}
	y, err := s.evaluate(n.Y)
	if err != nil {
		return nil, err
	}
	x, y = scalar(x), scalar(y)
	switch n.Op {
	case token.EQL:
		return looseEqual(x, y), nil
	case token.NEQ:
		return !looseEqual(x, y), nil
	case token.LSS, token.GTR, token.LEQ, token.GEQ:
		cmp, ok := compareValues(x, y)
		if !ok {
			return false, nil
		}
		switch n.Op {
		case token.LSS:
			return cmp < 0, nil
		case token.GTR:
			return cmp > 0, nil
		case token.LEQ:
			return cmp <= 0, nil
		}
		return cmp >= 0, nil
	case token.ADD:
		return performAddition(x, y), nil
	case token.SUB:
		return performSubtraction(x, y), nil
	case token.MUL:
		return performMultiplication(x, y), nil
	case token.QUO:
		return performDivision(x, y), nil
	case token.REM:
		return performModulo(x, y), nil
	}
	return nil, fmt.Errorf("unsupported operator: %v", n.Op)
}

func unary(op token.Token, x interface{}) (interface{}, error) {
	switch op {
	case token.NOT:
		return !Truthy(x), nil
	case token.SUB:
		x = scalar(x)
		if isIntType(x) {
			return -toInt(x), nil
		}
		return -toFloat64(x), nil
	case token.ADD:
		return toFloat64(scalar(x)), nil
	}
	return nil, fmt.Errorf("unsupported unary operator: %v", op)
}

func literal(lit *ast.BasicLit) (interface{}, error) {
	switch lit.Kind {
	case token.INT:
		value, err := strconv.ParseInt(lit.Value, 0, 64)
		return int(value), err
	case token.FLOAT:
		value, err := strconv.ParseFloat(lit.Value, 64)
		return value, err
	case token.STRING, token.CHAR:
		if lit.Kind == token.CHAR {
			return strings.Trim(lit.Value, "'"), nil
		}
		return strconv.Unquote(lit.Value)
	}
	return nil, fmt.Errorf("unsupported literal: %v", lit.Value)
}

func itemName(name string) string {
	if strings.HasPrefix(name, dollarPrefix) {
		return "$" + name[len(dollarPrefix):]
	}
	return name
}

// scalar unwraps single valued item lists, an empty list becomes undefined
func scalar(v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok {
		switch len(list) {
		case 0:
			return Undefined
		case 1:
			return list[0]
		}
	}
	return v
}
