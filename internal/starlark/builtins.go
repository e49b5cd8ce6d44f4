package starlark

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Predeclared returns the builtins available to name rules besides the
// `name` variable:
//
//	upper_first("user")   -> "User"
//	lower_first("User")   -> "user"
//	snake_case("UserID")  -> "user_id"
//	title("user profile") -> "User Profile"
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"upper_first": stringBuiltin("upper_first", upperFirst),
		"lower_first": stringBuiltin("lower_first", lowerFirst),
		"snake_case":  stringBuiltin("snake_case", snakeCase),
		"title":       stringBuiltin("title", cases.Title(language.English).String),
	}
}

// stringBuiltin wraps a string function as a one-argument builtin.
func stringBuiltin(name string, fn func(string) string) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var s string
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
			return nil, err
		}
		return starlark.String(fn(s)), nil
	})
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// snakeCase splits s before an upper case letter that follows a lower case
// letter or digit, or that starts a new word after an acronym.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
