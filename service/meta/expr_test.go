package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("BPMNFLOW_MODELS", "/opt/models")
	t.Setenv("BPMNFLOW_LEVEL", "debug")
	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "plain text", input: "models: /tmp", expect: "models: /tmp"},
		{description: "single", input: "models: ${env.BPMNFLOW_MODELS}", expect: "models: /opt/models"},
		{description: "repeated", input: "${env.BPMNFLOW_LEVEL}-${env.BPMNFLOW_MODELS}-${env.BPMNFLOW_LEVEL}", expect: "debug-/opt/models-debug"},
		{description: "unset", input: "x=${env.BPMNFLOW_UNSET}.", expect: "x=."},
		{description: "empty name", input: "x=${env.}.", expect: "x=."},
		{description: "unclosed", input: "x=${env.BPMNFLOW_LEVEL", expect: "x=${env.BPMNFLOW_LEVEL"},
		{description: "invalid name kept", input: "${env.a-b} ${env.BPMNFLOW_LEVEL}", expect: "${env.a-b} debug"},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, expandEnv(testCase.input), testCase.description)
	}
}
