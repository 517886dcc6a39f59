package action

import "strings"

// tokens is a minimal whitespace-field cursor, in the spirit of the
// teacher's debugger/tokens.go: get/unget/peek over the fields of a line,
// plus remainder() for "everything from here to the end of the line".
type tokens struct {
	fields []string
	curr   int
}

func tokenise(line string) *tokens {
	return &tokens{fields: strings.Fields(line)}
}

func (tk *tokens) get() (string, bool) {
	if tk.curr >= len(tk.fields) {
		return "", false
	}
	tk.curr++
	return tk.fields[tk.curr-1], true
}

func (tk *tokens) unget() {
	if tk.curr > 0 {
		tk.curr--
	}
}

func (tk *tokens) peek() (string, bool) {
	if tk.curr >= len(tk.fields) {
		return "", false
	}
	return tk.fields[tk.curr], true
}

func (tk *tokens) remainder() string {
	return strings.TrimSpace(strings.Join(tk.fields[tk.curr:], " "))
}
