// Package catalog renders resolved models as YAML listings and compares them.
package catalog
