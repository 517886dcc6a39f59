package action

import (
	"strconv"
	"strings"
)

// Parse validates raw against the action-line grammar and returns its
// classification. Parse never returns an error: an ungrammatical line comes
// back as a Line with Kind == Invalid and a human-readable Warning, per
// §4.2's "rejected with a warning ... the whole line becomes Invalid".
func Parse(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Raw: raw, Kind: Invalid}
	}

	tk := tokenise(trimmed)
	keyword, _ := tk.get()

	switch strings.ToLower(keyword) {
	case "end":
		if tk.remainder() != "" {
			return invalid(raw, "end takes no operand")
		}
		return Line{Raw: raw, Kind: End}

	case "while-stepping":
		rest := tk.remainder()
		if rest == "" {
			return Line{Raw: raw, Kind: WhileStepping, StepCount: -1}
		}
		n, err := strconv.ParseInt(rest, 0, 64)
		if err != nil {
			return invalid(raw, "while-stepping count must be an integer")
		}
		if n == 0 {
			return invalid(raw, "while-stepping count must not be zero")
		}
		return Line{Raw: raw, Kind: WhileStepping, StepCount: int(n)}

	case "collect":
		rest := tk.remainder()
		if rest == "" {
			return invalid(raw, "collect requires at least one item")
		}
		items, warning := parseCollectItems(rest)
		if warning != "" {
			return invalid(raw, warning)
		}
		return Line{Raw: raw, Kind: Collect, Items: items}

	default:
		return invalid(raw, "enter \"collect\", \"while-stepping\" or \"end\"")
	}
}

func invalid(raw, warning string) Line {
	return Line{Raw: raw, Kind: Invalid, Warning: warning}
}

// parseCollectItems splits the comma-separated collect-item list (honouring
// parentheses, since a literal memrange's own arguments are comma
// separated) and classifies each item.
func parseCollectItems(s string) ([]Item, string) {
	parts := splitTopLevel(s)
	items := make([]Item, 0, len(parts))
	for _, p := range parts {
		item, warning := parseItem(strings.TrimSpace(p))
		if warning != "" {
			return nil, warning
		}
		items = append(items, item)
	}
	return items, ""
}

// splitTopLevel splits s on commas that are not nested inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func parseItem(s string) (Item, string) {
	switch strings.ToLower(s) {
	case "$reg":
		return Item{Kind: AllRegisters}, ""
	case "$arg":
		return Item{Kind: AllArgs}, ""
	case "$loc":
		return Item{Kind: AllLocals}, ""
	}

	if strings.HasPrefix(s, "$(") && strings.HasSuffix(s, ")") {
		return parseMemrangeLiteral(s[2 : len(s)-1])
	}

	if isRegisterReference(s) || isSimpleIdentifier(s) {
		return Item{Kind: Expression, Expr: s}, ""
	}

	return Item{}, "enter variable name or register"
}

func parseMemrangeLiteral(body string) (Item, string) {
	parts := splitTopLevel(body)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var regName string
	var offsetText, lengthText string

	switch len(parts) {
	case 2:
		offsetText, lengthText = parts[0], parts[1]
	case 3:
		if !strings.HasPrefix(parts[0], "$") {
			return Item{}, "malformed memrange literal: expected $register as first field"
		}
		regName = strings.TrimPrefix(parts[0], "$")
		offsetText, lengthText = parts[1], parts[2]
	default:
		return Item{}, "malformed memrange literal"
	}

	offset, err := strconv.ParseInt(offsetText, 0, 64)
	if err != nil {
		return Item{}, "malformed memrange literal: offset must be an integer"
	}

	length, err := strconv.ParseInt(lengthText, 0, 64)
	if err != nil || length <= 0 {
		return Item{}, "malformed memrange literal: size must be a positive integer"
	}

	return Item{Kind: LiteralMemrange, RegisterName: regName, Offset: offset, Length: length}, ""
}

// isRegisterReference recognises "$" followed by a register name, e.g.
// "$pc", "$sp", "$r3". The reserved sigils ($reg/$arg/$loc) are handled
// before this is reached.
func isRegisterReference(s string) bool {
	if len(s) < 2 || s[0] != '$' {
		return false
	}
	return isSimpleIdentifier(s[1:])
}

// isSimpleIdentifier reports whether s is a plain variable-name shaped
// token: this is what distinguishes a collectable symbol reference from a
// constant, cast or computed expression per §4.2.
func isSimpleIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
