// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame of
// stack that points into an internal package, in stack order.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.SplitSeq(string(stack), "\n") {
		line = strings.TrimSpace(line)

		at := strings.Index(line, marker)
		if at == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		// drop the " +0x1f" offset suffix
		frame, _, _ := strings.Cut(line[at+1:], " ")
		paths = append(paths, frame)
	}

	return paths
}
