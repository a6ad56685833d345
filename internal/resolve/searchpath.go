// Package resolve maps imported module names to files via a search
// path and produces their manifests, with per-run and cross-run caches.
package resolve

import (
	"os"
	"strings"
)

// Placeholder is the character in a path template substituted with the
// module name being resolved.
const Placeholder = "?"

// DefaultTemplate is used when neither the caller nor the environment
// supplies a search path.
const DefaultTemplate = "./?.lua"

// EnvSearchPath is the environment fallback, Lua's own convention.
const EnvSearchPath = "LUA_PATH"

// SearchPath is an ordered list of path templates; the first template
// yielding an existing file wins.
type SearchPath struct {
	templates []string
}

// Parse splits a semicolon-separated template list. Empty segments are
// skipped.
func Parse(s string) SearchPath {
	var templates []string
	for _, tmpl := range strings.Split(s, ";") {
		tmpl = strings.TrimSpace(tmpl)
		if tmpl != "" {
			templates = append(templates, tmpl)
		}
	}
	return SearchPath{templates: templates}
}

// Default resolves the search path from the environment, falling back
// to the single default template.
func Default() SearchPath {
	if env := os.Getenv(EnvSearchPath); env != "" {
		if sp := Parse(env); len(sp.templates) > 0 {
			return sp
		}
	}
	return Parse(DefaultTemplate)
}

// Templates returns the ordered template list.
func (p SearchPath) Templates() []string { return p.templates }

// Empty reports whether no templates are configured.
func (p SearchPath) Empty() bool { return len(p.templates) == 0 }

// Find substitutes module into each template in order and returns the
// first existing regular file.
func (p SearchPath) Find(module string) (string, bool) {
	for _, tmpl := range p.templates {
		path := strings.ReplaceAll(tmpl, Placeholder, module)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
