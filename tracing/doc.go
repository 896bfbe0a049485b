// Package tracing wraps OpenTelemetry so that the process kernel can emit a
// span per processed event without importing the SDK directly. Spans are no-op
// until Init or InitWithExporter installs a provider.
package tracing
