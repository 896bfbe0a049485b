package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	testCases := []struct {
		description string
		args        []string
		expect      []string
		hasError    bool
	}{
		{
			description: "inspect",
			args:        []string{"inspect", "testdata/ticket.yaml"},
			expect:      []string{"Model 1.0.0", "Group Ticket", "1000 Open [start]", "10 Submit -> task 1100", "20 Approve -> event 30", "task=1200: (workitem._budget && workitem._budget[0]>100)"},
		},
		{
			description: "diff",
			args:        []string{"diff", "testdata/ticket.yaml", "testdata/ticket-2.0.0.yaml"},
			expect:      []string{"--- 1.0.0", "+++ 2.0.0", "+version: 2.0.0"},
		},
		{
			description: "process",
			args:        []string{"process", "-model", "testdata/ticket.yaml", "-task", "1100", "-event", "40", "-set", "_budget=500"},
			expect:      []string{"$taskid: 1200", "$workflowstatus: Closed", "_budget: \"500\""},
		},
		{description: "missing command", hasError: true},
		{description: "unknown command", args: []string{"deploy"}, hasError: true},
		{description: "inspect without model", args: []string{"inspect"}, hasError: true},
		{description: "invalid assignment", args: []string{"process", "-set", "budget"}, hasError: true},
	}
	for _, testCase := range testCases {
		output := &bytes.Buffer{}
		err := run(context.Background(), testCase.args, output)
		if testCase.hasError {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		for _, fragment := range testCase.expect {
			assert.Contains(t, output.String(), fragment, testCase.description)
		}
	}
}
