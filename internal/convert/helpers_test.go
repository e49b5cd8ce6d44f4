package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/valgen/internal/testutil"
	"github.com/leapstack-labs/valgen/pkg/ast"
	"github.com/leapstack-labs/valgen/pkg/format"
	"github.com/leapstack-labs/valgen/pkg/parser"
)

func newTestProject(t *testing.T, files map[string]string, opts ...func(*Config)) (*Project, *testutil.Sources) {
	t.Helper()
	src := testutil.NewSources(files)
	cfg := DefaultConfig()
	cfg.Parse = src.Parse
	cfg.Resolve = src.Resolve
	cfg.Logger = testutil.NewTestLogger(t)
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := NewProject(cfg)
	require.NoError(t, err)
	return p, src
}

// process converts path and returns the processed result.
func process(t *testing.T, p *Project, path string) *Result {
	t.Helper()
	res, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	return res
}

// normalized parses src and prints it canonically.
func normalized(t *testing.T, path, src string) string {
	t.Helper()
	f, err := parser.ParseFile(path, src)
	require.NoError(t, err)
	return format.Normalize(f)
}

// requireSource checks a converted file against the expected source,
// ignoring layout differences.
func requireSource(t *testing.T, p *Project, path, want string) {
	t.Helper()
	f, err := p.ForFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, normalized(t, path, want), format.Normalize(f.Working))
}

// convertSite converts a single cast site for typ and returns the printed
// replacement expression.
func convertSite(t *testing.T, dialect ast.Dialect, prelude, typ string, opts ...func(*Config)) (string, error) {
	t.Helper()
	path := "/src/site.ts"
	site := "const v = reify as Type<" + typ + ">\n"
	if dialect == ast.Flow {
		path = "/src/site.js"
		site = "const v = (reify: Type<" + typ + ">)\n"
	}
	p, _ := newTestProject(t, map[string]string{path: prelude + site}, opts...)
	res, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		return "", err
	}
	for _, stmt := range res.Tree.Body {
		if v, ok := stmt.(*ast.VarDecl); ok && v.Declarators[0].Name.Name == "v" {
			return format.Expr(v.Declarators[0].Init), nil
		}
	}
	t.Fatalf("declaration of v not found in\n%s", format.Source(res.Tree))
	return "", nil
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}
