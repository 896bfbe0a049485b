// Package tag extracts xml like tags from workflow result definitions.
package tag
