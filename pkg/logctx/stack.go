package logctx

import (
	"runtime"
	"strings"
)

func runtimeStack(buf []byte) int {
	return runtime.Stack(buf, false)
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
