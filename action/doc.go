// Package action implements the ActionParser component (§4.2): validating
// one action line against the grammar
//
//	action-line   := "collect" collect-item ("," collect-item)*
//	               | "while-stepping" integer?
//	               | "end"
//	               | <empty>
//	collect-item  := "$reg" | "$arg" | "$loc"
//	               | "$(" memrange-body ")"
//	               | expression
//	memrange-body := [ "$" register-name "," ] signed-int "," positive-int
//
// and classifying it into a Line with a Kind of Collect, WhileStepping, End
// or Invalid.
//
// The leading-keyword tokeniser is grounded on the teacher's
// debugger/tokens.go: a small get/unget/peek token cursor over
// whitespace-split fields, generalised here to split "keyword" from
// "remainder of line" rather than a whole command into many tokens, since
// the grammar is line-oriented rather than token-oriented once past the
// keyword.
package action
