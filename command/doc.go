// Package command implements the §6 user-command table as a thin,
// teacher-styled dispatcher: a token-driven switch grounded on the shape of
// debugger/commands.go's processTokens and debugger/tokens.go's tokeniser.
// It deliberately does not reuse the teacher's commandline.Commands
// grammar-template/tab-completion engine — that is named out of scope in
// §1 as an external collaborator (generic command dispatch, readline-style
// line editing), and reimplementing it here would mean rebuilding an
// explicitly-excluded component rather than the tracepoint core.
package command
