package architecture_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Exported service methods with these prefixes change the identity store.
var auditMutationPrefixes = []string{
	"Create",
	"Update",
	"Delete",
	"Reset",
	"Add",
	"Remove",
	"Lock",
	"Set",
}

// Key format: "path/to/file.go:Receiver.Method".
var auditRuleExceptions = map[string]string{}

type serviceFile struct {
	rel    string
	parsed *ast.File
}

func parseServiceFiles(t *testing.T) []serviceFile {
	t.Helper()

	files, err := collectGoFiles(filepath.Join(repoRootDir(), "internal", "service"))
	require.NoError(t, err)

	out := make([]serviceFile, 0, len(files))
	for _, file := range files {
		if isTestFile(file) {
			continue
		}
		parsed, err := parser.ParseFile(token.NewFileSet(), file, nil, 0)
		require.NoErrorf(t, err, "parse %s", file)
		out = append(out, serviceFile{rel: relToRepoRoot(file), parsed: parsed})
	}
	return out
}

func TestServiceMutations_AreAudited(t *testing.T) {
	violations := make([]string, 0)

	for _, f := range parseServiceFiles(t) {
		for _, decl := range f.parsed.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || fn.Body == nil || !fn.Name.IsExported() {
				continue
			}
			receiver := receiverTypeName(fn)
			if !strings.HasSuffix(receiver, "Service") || !isMutatingMethod(fn.Name.Name) {
				continue
			}

			key := f.rel + ":" + receiver + "." + fn.Name.Name
			if _, ok := auditRuleExceptions[key]; ok {
				continue
			}
			if len(auditActions(fn.Body)) == 0 {
				violations = append(violations, key)
			}
		}
	}

	sort.Strings(violations)
	require.Empty(t, violations,
		"mutating service methods must call logAudit with an Action constant:\n%s",
		strings.Join(violations, "\n"),
	)
}

func TestAuditActions_AreDeclaredAndUsed(t *testing.T) {
	declared := make(map[string]bool)
	used := make(map[string]bool)

	for _, f := range parseServiceFiles(t) {
		for _, decl := range f.parsed.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.CONST {
					continue
				}
				for _, s := range d.Specs {
					for _, name := range s.(*ast.ValueSpec).Names {
						if strings.HasPrefix(name.Name, "Action") {
							declared[name.Name] = true
						}
					}
				}
			case *ast.FuncDecl:
				if d.Body == nil {
					continue
				}
				for _, action := range auditActions(d.Body) {
					used[action] = true
				}
			}
		}
	}

	require.NotEmpty(t, declared, "no audit action constants found")

	var unused, undeclared []string
	for name := range declared {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	for name := range used {
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	sort.Strings(unused)
	sort.Strings(undeclared)
	require.Empty(t, unused, "audit actions that are never logged")
	require.Empty(t, undeclared, "logAudit called with an action that is not an Action constant")
}

// auditActions returns the action argument of every logAudit call in body.
// A non-constant action is returned as "<expr>".
func auditActions(body *ast.BlockStmt) []string {
	var actions []string
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		ident, ok := call.Fun.(*ast.Ident)
		if !ok || ident.Name != "logAudit" || len(call.Args) < 4 {
			return true
		}
		if action, ok := call.Args[3].(*ast.Ident); ok {
			actions = append(actions, action.Name)
		} else {
			actions = append(actions, "<expr>")
		}
		return true
	})
	return actions
}

func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	switch rt := fn.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if id, ok := rt.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.Ident:
		return rt.Name
	}
	return ""
}

func isMutatingMethod(name string) bool {
	for _, prefix := range auditMutationPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
