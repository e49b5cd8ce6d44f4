package output

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffContext is the number of unchanged lines shown around a change.
const DiffContext = 3

// UnifiedDiff returns the unified diff turning before into after, or ""
// when they are equal.
func UnifiedDiff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  DiffContext,
	})
}

// DiffStat counts added and removed lines of a unified diff.
func DiffStat(diff string) (added, removed int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}
	return added, removed
}

// Diff writes the diff of one file: colored in text mode, fenced in
// markdown mode. JSON mode writes nothing; diffs travel in the result.
func (r *Renderer) Diff(path, before, after string) error {
	diff, err := UnifiedDiff(path, before, after)
	if err != nil || diff == "" {
		return err
	}

	switch r.EffectiveMode() {
	case ModeJSON:
		return nil
	case ModeMarkdown:
		r.Println("```diff")
		r.Printf("%s", ensureNewline(diff))
		r.Println("```")
		return nil
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = r.styles.DiffFile.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = r.styles.DiffHunk.Render(text)
		case strings.HasPrefix(text, "+"):
			text = r.styles.DiffAdd.Render(text)
		case strings.HasPrefix(text, "-"):
			text = r.styles.DiffDelete.Render(text)
		}
		r.Println(text)
	}
	return nil
}

// splitLines splits s into newline terminated lines. A missing final
// newline is not reported.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return difflib.SplitLines(strings.TrimSuffix(s, "\n"))
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
