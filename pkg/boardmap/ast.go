package boardmap

import "github.com/alecthomas/participle/v2/lexer"

// astFile is the raw parse tree of a board map file: entry lines separated
// by blank lines and comments.
type astFile struct {
	Entries []*astEntry `( @@ | Newline )*`
}

// astEntry is one signal definition line. Mode and flags are validated in
// a second pass (see resolve) so parse errors and semantic errors stay
// distinguishable.
type astEntry struct {
	Name  string   `@Ident`
	Pin   string   `@Pin`
	Mode  string   `@Ident`
	Flags []string `@Ident*`

	Pos lexer.Position
}
