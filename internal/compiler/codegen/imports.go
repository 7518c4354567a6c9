package codegen

import (
	goast "go/ast"
	goparser "go/parser"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/conduit-lang/ringgen/internal/compiler/ast"
)

// declQualifiers returns the sorted package qualifiers (the "time" in time.Time)
// used by field types and type parameter constraints.
func declQualifiers(decl *ast.Declaration) []string {
	seen := make(map[string]bool)
	collect := func(src string) {
		if src == "" {
			return
		}
		expr, err := goparser.ParseExpr(src)
		if err != nil {
			return
		}
		goast.Inspect(expr, func(n goast.Node) bool {
			sel, ok := n.(*goast.SelectorExpr)
			if !ok {
				return true
			}
			if id, ok := sel.X.(*goast.Ident); ok {
				seen[id.Name] = true
			}
			return false
		})
	}

	for _, f := range decl.Fields {
		if f.Type != nil {
			collect(f.Type.Src)
		}
	}
	for _, tp := range decl.TypeParams {
		collect(tp.Constraint)
	}

	out := make([]string, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// requiredImports keeps the source imports whose package name is referenced
// by at least one expansion, sorted by path. Blank and dot imports are dropped.
func requiredImports(imports []ast.Import, expansions []*Expansion) []ast.Import {
	used := make(map[string]bool)
	for _, exp := range expansions {
		for _, q := range exp.Qualifiers {
			used[q] = true
		}
	}

	var out []ast.Import
	seen := make(map[string]bool)
	for _, imp := range imports {
		if imp.Alias == "_" || imp.Alias == "." || seen[imp.Path] {
			continue
		}
		if used[ImportName(imp)] {
			seen[imp.Path] = true
			out = append(out, imp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}

var majorVersion = regexp.MustCompile(`^v[0-9]+$`)

// ImportName returns the name an import is referred to by: its alias, or a
// guess from the path ("gopkg.in/yaml.v3" is yaml, "github.com/x/go-redis/v9"
// is redis).
func ImportName(imp ast.Import) string {
	if imp.Alias != "" {
		return imp.Alias
	}

	p := imp.Path
	base := path.Base(p)
	if majorVersion.MatchString(base) && strings.Contains(p, "/") {
		base = path.Base(path.Dir(p))
	}
	if i := strings.Index(base, ".v"); i > 0 && majorVersion.MatchString(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, "-go")
	return strings.ReplaceAll(base, "-", "")
}
