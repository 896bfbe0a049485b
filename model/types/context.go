package types

import "context"

type processingContextKey string

// ProcessingContextKey holds per call values such as the transaction id or the editor.
var ProcessingContextKey = processingContextKey("processing-context")

// Context keys stored under ProcessingContextKey.
const (
	ContextUniqueID      = "uniqueid"
	ContextTransactionID = "transactionid"
	ContextModelVersion  = "modelversion"
	ContextEditor        = "editor"
)

// EnsureProcessingContext ensures the processing values map and sets the supplied key/value pairs.
func EnsureProcessingContext(ctx context.Context, pairs ...string) context.Context {
	values, ok := ctx.Value(ProcessingContextKey).(map[string]string)
	if !ok {
		values = map[string]string{}
	} else {
		copied := make(map[string]string, len(values)+len(pairs)/2)
		for k, v := range values {
			copied[k] = v
		}
		values = copied
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return context.WithValue(ctx, ProcessingContextKey, values)
}

// ProcessingValue returns a processing value or empty string
func ProcessingValue(ctx context.Context, key string) string {
	values, ok := ctx.Value(ProcessingContextKey).(map[string]string)
	if !ok {
		return ""
	}
	return values[key]
}
