package starlark

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRule(t *testing.T) {
	tests := []struct {
		expr string
		in   string
		want string
	}{
		{expr: `name + "Type"`, in: "User", want: "UserType"},
		{expr: `"valid" + upper_first(name)`, in: "user", want: "validUser"},
		{expr: `lower_first(name) + "Validator"`, in: "User", want: "userValidator"},
		{expr: `snake_case(name).upper() + "_TYPE"`, in: "UserID", want: "USER_ID_TYPE"},
		{expr: `title(name) + "Type"`, in: "point", want: "PointType"},
		{expr: `name if name.endswith("Type") else name + "Type"`, in: "UserType", want: "UserType"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			rule, err := CompileNameRule(tt.expr)
			require.NoError(t, err)
			got, err := rule.Name(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expr, rule.Expr())
		})
	}
}

func TestCompileNameRuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		message string
	}{
		{name: "syntax", expr: `name +`, message: `validator name rule "name +"`},
		{name: "unknown variable", expr: `nam + "Type"`, message: "undefined: nam"},
		{name: "not a string", expr: `len(name)`, message: "got int, want string"},
		{name: "not an identifier", expr: `name + "-type"`, message: `"Example-type" is not a valid identifier`},
		{name: "empty", expr: `""`, message: `"" is not a valid identifier`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileNameRule(tt.expr)
			require.Error(t, err)
			var evalErr *EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestNameRuleConcurrent(t *testing.T) {
	rule, err := CompileNameRule(`name + "Type"`)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := rule.Name("User")
			assert.NoError(t, err)
			assert.Equal(t, "UserType", got)
		}()
	}
	wg.Wait()
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "user_id", snakeCase("UserID"))
	assert.Equal(t, "http_server", snakeCase("HTTPServer"))
	assert.Equal(t, "a1_b", snakeCase("A1B"))
	assert.Equal(t, "", snakeCase(""))
}
