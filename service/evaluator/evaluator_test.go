package evaluator

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/bpmnflow/model"
)

func TestExpression_Evaluate(t *testing.T) {
	workitem := model.NewWorkItem("1.0.0", 1000, 10)
	workitem.Set("_budget", 500)
	workitem.Set("txtname", "Anna")
	workitem.Set("_team", "a", "b", "c")
	workitem.Set("_amount", "12.5")

	testCases := []struct {
		description string
		expr        string
		expected    interface{}
	}{
		{description: "guarded item", expr: "(workitem._budget && workitem._budget[0]>100)", expected: true},
		{description: "missing item guard", expr: "(workitem._missing && workitem._missing[0]>100)", expected: Undefined},
		{description: "strict equality", expr: "workitem.txtname[0] === 'Anna'", expected: true},
		{description: "strict inequality", expr: "workitem.txtname[0] !== 'Anna'", expected: false},
		{description: "single value compare", expr: "workitem.txtname == 'Anna'", expected: true},
		{description: "system item", expr: "workitem.$taskid[0] == 1000", expected: true},
		{description: "index by name", expr: "workitem['$eventid'][0] + 1", expected: 11},
		{description: "length", expr: "workitem._team.length", expected: 3},
		{description: "out of range", expr: "workitem._team[5]", expected: Undefined},
		{description: "or returns operand", expr: "workitem._missing || 'fallback'", expected: "fallback"},
		{description: "negation", expr: "!workitem._missing", expected: true},
		{description: "numeric string", expr: "workitem._amount[0] > 10", expected: true},
		{description: "arithmetic", expr: "workitem._budget[0] * 2 - 100", expected: 900},
		{description: "division", expr: "workitem._budget[0] / 1000", expected: 0.5},
		{description: "concatenation", expr: "'Hi ' + workitem.txtname[0]", expected: "Hi Anna"},
		{description: "accessor", expr: "workitem.getItemValueInteger('_budget') >= 500", expected: true},
		{description: "has item", expr: "workitem.hasItem('_nope')", expected: false},
		{description: "undefined compare", expr: "workitem._missing > 1", expected: false},
		{description: "literal", expr: "true", expected: true},
	}

	evaluator := New()
	for _, testCase := range testCases {
		actual, err := evaluator.Evaluate(context.Background(), testCase.expr, workitem)
		if !assert.Nil(t, err, testCase.description) {
			continue
		}
		assert.EqualValues(t, testCase.expected, actual, testCase.description)
	}
}

func TestExpression_DivisionByZero(t *testing.T) {
	evaluator := New()
	workitem := model.NewWorkItem("1.0.0", 1000, 10).Set("_budget", 500)
	testCases := []struct {
		description string
		expr        string
		sign        int
		isNaN       bool
	}{
		{description: "positive", expr: "workitem._budget[0] / 0", sign: 1},
		{description: "negative", expr: "(0 - workitem._budget[0]) / 0", sign: -1},
		{description: "zero", expr: "0 / 0", isNaN: true},
	}
	for _, testCase := range testCases {
		actual, err := evaluator.Evaluate(context.Background(), testCase.expr, workitem)
		require.NoError(t, err, testCase.description)
		value, ok := actual.(float64)
		require.True(t, ok, testCase.description)
		if testCase.isNaN {
			assert.True(t, math.IsNaN(value), testCase.description)
			continue
		}
		assert.True(t, math.IsInf(value, testCase.sign), testCase.description)
	}
}

func TestExpression_Errors(t *testing.T) {
	evaluator := New()
	workitem := model.NewWorkItem("1.0.0", 1000, 10)
	for _, expr := range []string{"workitem._budget[0] >", "foo == 1", "workitem._missing[0].x"} {
		_, err := evaluator.Evaluate(context.Background(), expr, workitem)
		assert.Error(t, err, expr)
	}
}

func TestBool(t *testing.T) {
	evaluator := New()
	workitem := model.NewWorkItem("1.0.0", 1000, 10).Set("_budget", 50)
	testCases := []struct {
		expr     string
		expected bool
	}{
		{expr: "", expected: true},
		{expr: "true", expected: true},
		{expr: "false", expected: false},
		{expr: "workitem._budget && workitem._budget[0] > 100", expected: false},
		{expr: "workitem._budget", expected: true},
		{expr: "workitem._other", expected: false},
	}
	for _, testCase := range testCases {
		actual, err := Bool(context.Background(), evaluator, testCase.expr, workitem)
		require.NoError(t, err, testCase.expr)
		assert.Equal(t, testCase.expected, actual, testCase.expr)
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(Undefined))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(""))
	assert.True(t, Truthy([]interface{}{}))
	assert.True(t, Truthy("x"))
	assert.True(t, Truthy(1.5))
}
