package policy

import "lualint/internal/manifest"

// builtins is the fixed allow-list: the Lua standard globals plus the
// marker names themselves. Reads of these never warn, regardless of
// declaration or import state.
var builtins = map[string]struct{}{}

func init() {
	names := []string{
		// base library
		"_G", "_VERSION", "assert", "collectgarbage", "dofile", "error",
		"gcinfo", "getfenv", "getmetatable", "ipairs", "load", "loadfile",
		"loadstring", "module", "newproxy", "next", "pairs", "pcall",
		"print", "rawequal", "rawget", "rawset", "select", "setfenv",
		"setmetatable", "tonumber", "tostring", "type", "unpack", "xpcall",
		// standard library tables
		"coroutine", "debug", "io", "math", "os", "package", "string",
		"table",
		// the marker calls must never warn on themselves
		manifest.MarkerImport, manifest.MarkerDeclare, manifest.MarkerIgnore,
	}
	for _, name := range names {
		builtins[name] = struct{}{}
	}
}

// Builtin reports whether name is in the fixed allow-list.
func Builtin(name string) bool {
	_, ok := builtins[name]
	return ok
}
