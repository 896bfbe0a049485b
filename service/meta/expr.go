package meta

import (
	"os"
	"strings"
)

const envPrefix = "${env."

// expandEnv replaces ${env.NAME} with the NAME environment variable, unset
// variables expand to an empty string. Expressions with invalid names or
// without closing brace are kept as is.
func expandEnv(text string) string {
	if !strings.Contains(text, envPrefix) {
		return text
	}
	var builder strings.Builder
	for {
		before, after, found := strings.Cut(text, envPrefix)
		builder.WriteString(before)
		if !found {
			return builder.String()
		}
		name, rest, closed := strings.Cut(after, "}")
		if !closed {
			builder.WriteString(envPrefix)
			builder.WriteString(after)
			return builder.String()
		}
		if !isEnvName(name) {
			builder.WriteString(envPrefix)
			text = after
			continue
		}
		builder.WriteString(os.Getenv(name))
		text = rest
	}
}

func isEnvName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return false
	}
	return true
}
