// Command check_boundaries enforces the layering of every context module:
// domain <- ports <- application <- adapters, with transport DTOs kept free of
// module code and the shared kernel free of runtime infrastructure.
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "desci"

const sharedKernel = modulePath + "/internal/shared"

// layerRule lists what a layer may import besides the standard library.
// Local entries are relative to the owning context module.
type layerRule struct {
	local     []string
	kernel    bool
	libraries []string
}

var layerRules = map[string]layerRule{
	"domain": {
		local:  []string{"domain"},
		kernel: true,
	},
	"ports": {
		local:  []string{"domain"},
		kernel: true,
	},
	"application": {
		local:  []string{"application", "domain", "ports"},
		kernel: true,
		libraries: []string{
			"github.com/ethereum/go-ethereum/common",
			"github.com/microcosm-cc/bluemonday",
			"golang.org/x/sync/errgroup",
		},
	},
	"transport": {},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations(".")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File != violations[j].File {
			return violations[i].File < violations[j].File
		}
		return violations[i].Line < violations[j].Line
	})
	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectViolations(root string) []violation {
	var violations []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		violations = append(violations, checkFile(path, filepath.ToSlash(rel))...)
		return nil
	})
	return violations
}

// checkFile applies the rule set matching the file's location.
func checkFile(path string, rel string) []violation {
	imports, err := readImports(path)
	if err != nil {
		return []violation{{File: rel, Line: 1, Rule: "file must parse"}}
	}

	parts := strings.Split(rel, "/")
	switch {
	case len(parts) >= 5 && parts[0] == "contexts":
		contextModule := modulePath + "/" + strings.Join(parts[:3], "/")
		return checkContextFile(rel, parts[3], contextModule, imports)
	case strings.HasPrefix(rel, "internal/shared/"):
		return checkSharedFile(rel, imports)
	}
	return nil
}

func checkContextFile(rel string, layer string, contextModule string, imports []importRef) []violation {
	var violations []violation
	rule, layered := layerRules[layer]
	for _, imp := range imports {
		if hasPrefix(imp.Path, modulePath+"/contexts") && !hasPrefix(imp.Path, contextModule) {
			violations = append(violations, violation{rel, imp.Line, imp.Path, "context modules must not import each other"})
			continue
		}
		if layer == "adapters" && hasPrefix(imp.Path, contextModule+"/adapters") && !sameAdapter(rel, imp.Path, contextModule) {
			violations = append(violations, violation{rel, imp.Line, imp.Path, "adapters must not depend on sibling adapters"})
		}
		if !layered || isStdlib(imp.Path) {
			continue
		}
		if !rule.permits(imp.Path, contextModule) {
			violations = append(violations, violation{rel, imp.Line, imp.Path, layer + " import is outside its layer allowlist"})
		}
	}
	return violations
}

// checkSharedFile keeps the shared kernel independent of contexts and
// platform runtime.
func checkSharedFile(rel string, imports []importRef) []violation {
	var violations []violation
	for _, imp := range imports {
		if hasPrefix(imp.Path, modulePath) && !hasPrefix(imp.Path, sharedKernel) {
			violations = append(violations, violation{rel, imp.Line, imp.Path, "shared kernel must only import itself"})
		}
	}
	return violations
}

func (r layerRule) permits(importPath string, contextModule string) bool {
	for _, local := range r.local {
		if hasPrefix(importPath, contextModule+"/"+local) {
			return true
		}
	}
	if r.kernel && hasPrefix(importPath, sharedKernel) {
		return true
	}
	for _, lib := range r.libraries {
		if hasPrefix(importPath, lib) {
			return true
		}
	}
	return false
}

// sameAdapter reports whether importPath lives in the adapter directory that
// holds rel.
func sameAdapter(rel string, importPath string, contextModule string) bool {
	parts := strings.Split(rel, "/")
	if len(parts) < 6 {
		return false
	}
	return hasPrefix(importPath, contextModule+"/adapters/"+parts[4])
}

type importRef struct {
	Path string
	Line int
}

func readImports(path string) ([]importRef, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	refs := make([]importRef, 0, len(file.Imports))
	for _, imp := range file.Imports {
		refs = append(refs, importRef{
			Path: strings.Trim(imp.Path.Value, `"`),
			Line: fset.Position(imp.Pos()).Line,
		})
	}
	return refs, nil
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
