package resolve

import "strings"

// maxPlaceholderPasses bounds recursive substitution so mutually or
// self-referential properties terminate instead of looping.
const maxPlaceholderPasses = 16

// Evaluate replaces every ${key} in text by lookup(key), repeating until a
// fixed point or the recursion bound is reached. Placeholders whose key has
// no binding are left textually intact; callers detect unresolved
// placeholders by searching the result for "${". Evaluate never fails.
func Evaluate(text string, lookup func(string) (string, bool)) string {
	if text == "" || !strings.Contains(text, "${") {
		return text
	}
	for range maxPlaceholderPasses {
		next, changed := substituteOnce(text, lookup)
		if !changed {
			return next
		}
		text = next
	}
	return text
}

// substituteOnce performs a single left-to-right substitution pass.
func substituteOnce(text string, lookup func(string) (string, bool)) (string, bool) {
	var b strings.Builder
	changed := false
	for {
		start := strings.Index(text, "${")
		if start < 0 {
			b.WriteString(text)
			return b.String(), changed
		}
		end := strings.Index(text[start:], "}")
		if end < 0 {
			b.WriteString(text)
			return b.String(), changed
		}
		end += start
		b.WriteString(text[:start])

		key := text[start+2 : end]
		if value, ok := lookup(key); ok {
			b.WriteString(value)
			changed = true
		} else {
			b.WriteString(text[start : end+1])
		}
		text = text[end+1:]
	}
}

// evalProps evaluates text against an environment lookup followed by a
// plain property map. It is the evaluator used while walking the parent
// chain, before a partial exists to provide the full property view.
func evalProps(text string, env func(string) (string, bool), props map[string]string) string {
	return Evaluate(text, func(key string) (string, bool) {
		if env != nil {
			if v, ok := env(key); ok {
				return v, true
			}
		}
		v, ok := props[key]
		return v, ok
	})
}

// unresolved reports whether a required value is unusable: absent, or
// still carrying a placeholder after evaluation.
func unresolved(v string) bool {
	return v == "" || strings.Contains(v, "${")
}
