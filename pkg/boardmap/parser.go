package boardmap

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses board map files.
type Parser struct {
	parser *participle.Parser[astFile]
}

// NewParser builds a board map parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[astFile](
		participle.Lexer(boardLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a board map from a reader and validates it.
func (p *Parser) Parse(r io.Reader) (*Map, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return resolve(file)
}

// ParseString parses a board map from a string.
func (p *Parser) ParseString(input string) (*Map, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return resolve(file)
}

// ParseFile parses a board map from a file path.
func (p *Parser) ParseFile(filename string) (*Map, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// LoadFile is a convenience wrapper building a parser and reading one file.
func LoadFile(filename string) (*Map, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(filename)
}
