package caller

import (
	"runtime"
	"strings"
)

// Name returns the short name of the function that called Name, e.g.
// "mapper.mapUnit" for a method or "Run" for a function. offsetOpt skips
// additional frames:
//
//	func Foo() { Bar() }
//	func Bar() { caller.Name(1) } // "Foo"
func Name(offsetOpt ...int) string {
	offset := 1
	if len(offsetOpt) > 0 {
		offset += offsetOpt[0]
	}

	pc, _, _, ok := runtime.Caller(offset)
	if !ok {
		return ""
	}

	details := runtime.FuncForPC(pc)
	if details == nil {
		return ""
	}

	return shorten(details.Name())
}

// shorten turns "github.com/x/y/pkg.(*T).M.func1" into "T.M".
func shorten(fullName string) string {
	// drop the import path, keep "pkg.(*T).M.func1"
	if i := strings.LastIndex(fullName, "/"); i >= 0 {
		fullName = fullName[i+1:]
	}

	parts := strings.Split(fullName, ".")

	// closures: "func1", "func2", ...
	for len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		parts = parts[:len(parts)-1]
	}

	switch len(parts) {
	case 0:
		return ""
	case 1, 2:
		return parts[len(parts)-1]
	default:
		typeName := strings.Trim(parts[len(parts)-2], "(*)")
		return typeName + "." + parts[len(parts)-1]
	}
}
