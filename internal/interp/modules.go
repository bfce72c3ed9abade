package interp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/termfx/lithium/internal/ast"
	"github.com/termfx/lithium/internal/runtime"
	"github.com/termfx/lithium/internal/sema"
)

// fileExt is the extension of lithium module files.
const fileExt = ".li"

// importStmt resolves a module name, preferring the built-in registry
// over the filesystem. Re-imports are silently skipped. A file module
// is parsed, semantically checked and evaluated in this interpreter, so
// its top-level declarations land in the importing scope.
func (i *Interp) importStmt(s *ast.ImportStmt) outcome {
	if s.Module == "" {
		return i.errorf("imported module name is empty", s.ModuleRng)
	}
	if _, done := i.imported[s.Module]; done {
		return ok(nil)
	}

	if registered := i.importBuiltinModule(s.Module); registered {
		i.imported[s.Module] = struct{}{}
		return ok(nil)
	}

	path := i.findModule(s.Module)
	if path == "" {
		return i.errorAt("could not find module '"+s.Module+"'", s.ModuleRng.Start, s.Range())
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return i.errorAt("failed to load module '"+s.Module+"'", s.ModuleRng.Start, s.Range())
	}
	if len(text) == 0 {
		// Empty modules are fine.
		i.imported[s.Module] = struct{}{}
		return ok(nil)
	}

	file := i.sources.Add(strings.TrimPrefix(path, "./"), string(text))
	prog, parsed := i.modParser.Parse(file)
	if !parsed {
		return i.errorAt("failed to load module '"+s.Module+"'", s.ModuleRng.Start, s.Range())
	}
	if !sema.New(i.reporter).Check(prog) {
		return i.errorAt("failed to load module '"+s.Module+"'", s.ModuleRng.Start, s.Range())
	}

	out := i.program(prog)
	if out.ctrl == ctrlFatal {
		return i.errorAt("error while importing module '"+s.Module+"'", s.ModuleRng.Start, s.Range())
	}
	if out.ctrl != ctrlNone {
		return out
	}

	i.imported[s.Module] = struct{}{}
	return ok(nil)
}

// findModule probes the search paths in order: the current directory,
// ./modules/, $HOME/modules/ and any configured extra directories.
func (i *Interp) findModule(name string) string {
	paths := []string{".", "modules"}
	if i.opts.Home != "" {
		paths = append(paths, filepath.Join(i.opts.Home, "modules"))
	}
	paths = append(paths, i.opts.ModulePath...)

	for _, dir := range paths {
		full := filepath.Join(dir, name+fileExt)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			return full
		}
	}
	return ""
}

// importBuiltinModule declares the host functions and constants of an
// interpreter-internal module; it reports whether name matched one.
func (i *Interp) importBuiltinModule(name string) bool {
	switch name {
	case "args":
		elems := make([]runtime.Value, len(i.opts.Args))
		for idx, arg := range i.opts.Args {
			elems[idx] = runtime.NewString(arg)
		}
		i.scope.Declare("args", runtime.NewArray(elems), true)

	case "io":
		i.declareModuleFn("printf", i.builtinPrintf)
		i.declareModuleFn("input", i.builtinInput)

	case "math":
		i.scope.Declare("PI", runtime.NewNumber(3.14159265358979323846), true)
		i.scope.Declare("E", runtime.NewNumber(2.71828182845904523536), true)

	case "random":
		i.declareModuleFn("random", i.builtinRandom)

	case "os":
		i.declareModuleFn("open", i.builtinOpen)
		i.declareModuleFn("close", i.builtinClose)
		i.declareModuleFn("read", i.builtinRead)
		i.declareModuleFn("write", i.builtinWrite)
		i.declareModuleFn("shell", i.builtinShell)

	case "socket":
		i.declareModuleFn("socket", i.builtinSocket)
		i.declareModuleFn("close", i.builtinClose)
		i.declareModuleFn("listen", i.builtinListen)
		i.declareModuleFn("accept", i.builtinAccept)
		i.declareModuleFn("connect", i.builtinConnect)
		i.declareModuleFn("send", i.builtinSend)
		i.declareModuleFn("receive", i.builtinReceive)

	default:
		return false
	}
	return true
}

func (i *Interp) declareModuleFn(name string, fn runtime.BuiltinFn) {
	i.scope.Declare(name, &runtime.Builtin{Name: name, Fn: fn}, true)
}
