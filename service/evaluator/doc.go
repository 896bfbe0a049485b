// Package evaluator provides the expression evaluator used for gateway
// conditions. The default implementation parses JavaScript like boolean
// expressions with go/parser and evaluates them against workitem items.
package evaluator
