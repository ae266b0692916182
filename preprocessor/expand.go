package preprocessor

import (
	"fmt"
	"strings"
)

// hideSet holds the names of macros being expanded; they are not expanded
// again inside their own replacement.
type hideSet map[string]struct{}

func (h hideSet) with(name string) hideSet {
	out := make(hideSet, len(h)+1)
	for k := range h {
		out[k] = struct{}{}
	}
	out[name] = struct{}{}
	return out
}

func (h hideSet) has(name string) bool {
	_, ok := h[name]
	return ok
}

// expandLine copies one source line to the output, replacing macro
// invocations. Unexpanded text is mapped verbatim, each expansion is mapped
// to the start of its invocation. It returns the block comment state at the
// end of the line.
func (p *preprocessor) expandLine(file string, lineStart int, line string, inComment bool) (bool, error) {
	runStart := 0
	flush := func(to int) {
		if to > runStart {
			p.out.verbatim(line[runStart:to], file, lineStart+runStart)
		}
	}

	i := 0
	for i < len(line) {
		if inComment {
			j := strings.Index(line[i:], "*/")
			if j < 0 {
				i = len(line)
				break
			}
			i += j + 2
			inComment = false
			continue
		}

		c := line[i]
		switch {
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			i = len(line)
		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			inComment = true
			i += 2
		case c == '"':
			i = skipString(line, i)
		case isDigit(c):
			i = skipNumber(line, i)
		case isIdentStart(c):
			j := identEnd(line, i)
			word := line[i:j]
			m, ok := p.macros[word]
			if !ok {
				i = j
				continue
			}

			var (
				expanded string
				end      = j
				err      error
			)
			if m.function {
				k := skipSpaces(line, j)
				if k >= len(line) || line[k] != '(' {
					i = j
					continue
				}
				var args []string
				args, end, err = splitArgs(line, k)
				if err == nil {
					expanded, err = p.expandFunction(m, args, nil)
				}
			} else {
				expanded, err = p.expand(m.body, hideSet{word: {}})
			}
			if err != nil {
				return inComment, p.errorf(file, lineStart+i, "%v", err)
			}

			flush(i)
			p.out.mapped(expanded, file, lineStart+i)
			i = end
			runStart = end
		default:
			i++
		}
	}
	flush(len(line))
	return inComment, nil
}

// expand returns text with every macro not in hide replaced.
func (p *preprocessor) expand(text string, hide hideSet) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"':
			j := skipString(text, i)
			sb.WriteString(text[i:j])
			i = j
		case isDigit(c):
			j := skipNumber(text, i)
			sb.WriteString(text[i:j])
			i = j
		case isIdentStart(c):
			j := identEnd(text, i)
			word := text[i:j]
			m, ok := p.macros[word]
			if !ok || hide.has(word) {
				sb.WriteString(word)
				i = j
				continue
			}
			if !m.function {
				expanded, err := p.expand(m.body, hide.with(word))
				if err != nil {
					return "", err
				}
				sb.WriteString(expanded)
				i = j
				continue
			}
			k := skipSpaces(text, j)
			if k >= len(text) || text[k] != '(' {
				sb.WriteString(word)
				i = j
				continue
			}
			args, end, err := splitArgs(text, k)
			if err != nil {
				return "", err
			}
			expanded, err := p.expandFunction(m, args, hide)
			if err != nil {
				return "", err
			}
			sb.WriteString(expanded)
			i = end
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), nil
}

// expandFunction substitutes pre-expanded arguments into a function-like
// macro body and rescans the result.
func (p *preprocessor) expandFunction(m *macro, args []string, hide hideSet) (string, error) {
	if len(m.params) == 0 && len(args) == 1 && args[0] == "" {
		args = nil
	}
	if len(args) != len(m.params) {
		return "", fmt.Errorf("macro %q expects %d arguments, got %d", m.name, len(m.params), len(args))
	}

	expandedArgs := make([]string, len(args))
	for i, arg := range args {
		expanded, err := p.expand(arg, hide)
		if err != nil {
			return "", err
		}
		expandedArgs[i] = expanded
	}

	paramIndex := func(name string) int {
		for i, param := range m.params {
			if param == name {
				return i
			}
		}
		return -1
	}

	var sb strings.Builder
	body := m.body
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == '#' && i+1 < len(body) && body[i+1] == '#':
			// Token pasting: drop the operator and the whitespace around it.
			trimmed := strings.TrimRight(sb.String(), " \t")
			sb.Reset()
			sb.WriteString(trimmed)
			i = skipSpaces(body, i+2)
		case c == '#':
			j := skipSpaces(body, i+1)
			if j < len(body) && isIdentStart(body[j]) {
				end := identEnd(body, j)
				if idx := paramIndex(body[j:end]); idx >= 0 {
					sb.WriteString(`"` + strings.TrimSpace(args[idx]) + `"`)
					i = end
					continue
				}
			}
			sb.WriteByte(c)
			i++
		case c == '"':
			j := skipString(body, i)
			sb.WriteString(body[i:j])
			i = j
		case isDigit(c):
			j := skipNumber(body, i)
			sb.WriteString(body[i:j])
			i = j
		case isIdentStart(c):
			j := identEnd(body, i)
			if idx := paramIndex(body[i:j]); idx >= 0 {
				sb.WriteString(expandedArgs[idx])
			} else {
				sb.WriteString(body[i:j])
			}
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return p.expand(sb.String(), hide.with(m.name))
}

// resolveDefined replaces every "defined NAME" and "defined(NAME)" with 1
// or 0.
func (p *preprocessor) resolveDefined(expr string) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(expr) {
		c := expr[i]
		if !isIdentStart(c) {
			if isDigit(c) {
				j := skipNumber(expr, i)
				sb.WriteString(expr[i:j])
				i = j
				continue
			}
			sb.WriteByte(c)
			i++
			continue
		}
		j := identEnd(expr, i)
		if expr[i:j] != "defined" {
			sb.WriteString(expr[i:j])
			i = j
			continue
		}

		k := skipSpaces(expr, j)
		paren := k < len(expr) && expr[k] == '('
		if paren {
			k = skipSpaces(expr, k+1)
		}
		name := leadingIdent(expr[k:])
		if name == "" {
			return "", fmt.Errorf("operator 'defined' used incorrectly")
		}
		k += len(name)
		if paren {
			k = skipSpaces(expr, k)
			if k >= len(expr) || expr[k] != ')' {
				return "", fmt.Errorf("missing ')' after 'defined(%s'", name)
			}
			k++
		}
		if _, ok := p.macros[name]; ok {
			sb.WriteString(" 1 ")
		} else {
			sb.WriteString(" 0 ")
		}
		i = k
	}
	return sb.String(), nil
}

// splitArgs reads a parenthesized, comma-separated argument list starting
// at text[open] == '('. It returns the trimmed arguments and the offset
// just past the closing parenthesis.
func splitArgs(text string, open int) ([]string, int, error) {
	var args []string
	depth := 0
	start := open + 1
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				args = append(args, strings.TrimSpace(text[start:i]))
				return args, i + 1, nil
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		case '"':
			i = skipString(text, i) - 1
		}
	}
	return nil, len(text), fmt.Errorf("unterminated macro invocation")
}

// scanComments returns the block comment state after line.
func scanComments(line string, inComment bool) bool {
	i := 0
	for i < len(line) {
		if inComment {
			j := strings.Index(line[i:], "*/")
			if j < 0 {
				return true
			}
			i += j + 2
			inComment = false
			continue
		}
		switch {
		case strings.HasPrefix(line[i:], "//"):
			return false
		case strings.HasPrefix(line[i:], "/*"):
			inComment = true
			i += 2
		default:
			i++
		}
	}
	return inComment
}

// stripComments removes comments from a single directive line.
func stripComments(line string) string {
	var sb strings.Builder
	i := 0
	for i < len(line) {
		switch {
		case strings.HasPrefix(line[i:], "//"):
			return sb.String()
		case strings.HasPrefix(line[i:], "/*"):
			j := strings.Index(line[i+2:], "*/")
			if j < 0 {
				return sb.String()
			}
			sb.WriteByte(' ')
			i += j + 4
		case line[i] == '"':
			j := skipString(line, i)
			sb.WriteString(line[i:j])
			i = j
		default:
			sb.WriteByte(line[i])
			i++
		}
	}
	return sb.String()
}

func leadingIdent(s string) string {
	if s == "" || !isIdentStart(s[0]) {
		return ""
	}
	return s[:identEnd(s, 0)]
}

func identEnd(s string, i int) int {
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return i
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\r') {
		i++
	}
	return i
}

func skipString(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func skipNumber(s string, i int) int {
	for i < len(s) && (isIdentPart(s[i]) || s[i] == '.') {
		i++
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
