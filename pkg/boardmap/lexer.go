package boardmap

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// boardLexer defines the lexical structure of board map files: one signal
// definition per line, hash comments, whitespace-separated fields.
var boardLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to end of line; the newline itself stays significant.
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Newlines terminate entries, so they are not elided.
	{Name: "Newline", Pattern: `\r?\n`},

	{Name: "Whitespace", Pattern: `[ \t]+`},

	// Expander pin designator: side letter plus bit index. Must precede
	// Ident so "B3" does not lex as a name.
	{Name: "Pin", Pattern: `[ABab][0-7]\b`},

	// Signal names and keywords (mode, flags).
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
})
