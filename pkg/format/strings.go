// Package format renders report findings and pipeline results for terminal
// output: padded tables, clipped cell content, and compact map summaries.
package format

import (
	"fmt"
	"sort"
	"strings"
)

// ClipDirection selects which end of an overlong string survives clipping.
type ClipDirection int

const (
	// ClipLeft keeps the tail, for paths where the filename matters most.
	ClipLeft ClipDirection = iota
	// ClipRight keeps the head, for prose where the start carries the point.
	ClipRight
)

// Summarize clips content to at most length characters, marking the removed
// end with an ellipsis when there is room for one.
func Summarize(content string, length int, clip ClipDirection) string {
	if len(content) < length {
		return content
	}
	if length <= 3 {
		// no room for an ellipsis, hard cut
		if clip == ClipLeft {
			return content[:length]
		}
		return content[len(content)-length:]
	}
	if clip == ClipLeft {
		return "..." + content[len(content)-length+3:]
	}
	return content[:length-3] + "..."
}

// PrettyPrintMap renders a map as "(k: v, k: v)" with entries sorted by key
// text, so log lines and error messages are stable across runs.
func PrettyPrintMap[K comparable, V any](m map[K]V) string {
	entries := make([]string, 0, len(m))
	for k, v := range m {
		entries = append(entries, fmt.Sprintf("%v: %v", k, v))
	}
	sort.Strings(entries)
	return fmt.Sprintf("(%s)", strings.Join(entries, ", "))
}
