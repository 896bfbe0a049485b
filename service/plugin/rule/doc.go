// Package rule implements the plugin running go business rules with the yaegi interpreter.
//
// An event opts in with the rule.engine ("go") and rule.definition items:
//
//	func Rule(workitem map[string]interface{}, event map[string]interface{}) map[string]interface{} {
//		if budget, _ := workitem["_budget"].(int); budget > 1000 {
//			return map[string]interface{}{"isValid": false, "errorCode": "BUDGET_EXCEEDED", "errorParams": []string{"1000"}}
//		}
//		return map[string]interface{}{"items": map[string]interface{}{"_reviewed": true}}
//	}
//
// The returned isValid, errorCode, errorMessage, errorParams, followUp and items
// keys control validation, follow-up events and item updates.
package rule
