package harness

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

var errNoCall = errors.New("no matching call")

type sourceFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
	err  error
}

var sources = struct {
	sync.Mutex
	files map[string]*sourceFile
}{files: make(map[string]*sourceFile)}

// expression returns the source text of the first argument passed to method
// at the call site skip frames up the stack, as in runtime.Caller. It falls
// back to file:line when the source is not available.
func expression(skip int, method string) string {
	_, path, line, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}
	text, err := argumentText(path, line, method)
	if err != nil {
		return fmt.Sprintf("%s:%d", filepath.Base(path), line)
	}
	return text
}

func argumentText(path string, line int, method string) (string, error) {
	sf := loadSource(path)
	if sf.err != nil {
		return "", sf.err
	}

	// Two matching calls on one line cannot be told apart; the caller falls
	// back to file:line.
	var matches []*ast.CallExpr
	ast.Inspect(sf.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != method {
			return true
		}
		if sf.fset.Position(call.Lparen).Line == line || sf.fset.Position(sel.Sel.Pos()).Line == line {
			matches = append(matches, call)
		}
		return true
	})
	if len(matches) != 1 {
		return "", errNoCall
	}
	found := matches[0]

	arg := found.Args[0]
	start := sf.fset.Position(arg.Pos()).Offset
	end := sf.fset.Position(arg.End()).Offset
	if start < 0 || end > len(sf.src) || start > end {
		return "", errNoCall
	}
	return string(sf.src[start:end]), nil
}

// loadSource parses path once per process. Failures are cached too.
func loadSource(path string) *sourceFile {
	sources.Lock()
	defer sources.Unlock()

	if sf, ok := sources.files[path]; ok {
		return sf
	}

	sf := &sourceFile{fset: token.NewFileSet()}
	sf.src, sf.err = os.ReadFile(path)
	if sf.err == nil {
		sf.file, sf.err = parser.ParseFile(sf.fset, path, sf.src, parser.SkipObjectResolution)
	}
	if sf.err != nil {
		sf.err = fmt.Errorf("read source %s: %w", path, sf.err)
	}
	sources.files[path] = sf
	return sf
}
