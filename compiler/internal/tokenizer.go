package internal

import (
	"bufio"
	"encoding/json"
	"io"
	"simplelang/util"
	"unicode/utf8"
)

// A simple Tokenizer for SimpleLang.

// SimpleLang has those elements:
// * KeyWord: int, float, if, else, print.
// * Identifier: letters, digits, underscore, not starting with a digit.
// * Constant: integer (42), float (4.2, 4.).
// * Operator: + - * / = < > == != <= >=.
// * Delimiter: ; , ( ) { }.
// Everything else becomes an unknown token, tokenizing never stops at a bad character.

type TokenType int

const (
	KeyWordTP TokenType = iota
	IdentifierTP
	ConstantTP
	OperatorTP
	DelimiterTP
	UnknownTP
)

var tokenTypeNames = [...]string{
	KeyWordTP:    "KEYWORD",
	IdentifierTP: "IDENTIFIER",
	ConstantTP:   "CONSTANT",
	OperatorTP:   "OPERATOR",
	DelimiterTP:  "DELIMITER",
	UnknownTP:    "UNKNOWN",
}

func (tp TokenType) String() string {
	if int(tp) < len(tokenTypeNames) {
		return tokenTypeNames[tp]
	}
	return "INVALID"
}

var keyWords = map[string]bool{
	"int":   true,
	"float": true,
	"if":    true,
	"else":  true,
	"print": true,
}

type Token struct {
	content  string
	value    Number // Only set for ConstantTP.
	line     int
	startPos int
	endPos   int
	tp       TokenType
}

func (t *Token) is(tp TokenType, content string) bool {
	return t.tp == tp && t.content == content
}

func (t *Token) String() string {
	return "(" + t.tp.String() + "," + t.content + ")"
}

// MarshalJSON writes the token as a [kind, value] pair, constants as JSON numbers.
func (t *Token) MarshalJSON() ([]byte, error) {
	if t.tp == ConstantTP {
		return json.Marshal([]interface{}{t.tp.String(), t.value})
	}
	return json.Marshal([]string{t.tp.String(), t.content})
}

type Tokenizer struct {
	currentPos  int
	currentLine int
	tokens      []*Token
	symbolTable *SymbolTable
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{symbolTable: NewSymbolTable()}
}

// getNextToken returns the next token from line, or nil when the line is exhausted.
func (tokenizer *Tokenizer) getNextToken(line []byte) *Token {
	tokenizer.trimSpace(line)
	if !tokenizer.hasRemainCharacters(line) {
		return nil
	}
	b := line[tokenizer.currentPos]
	switch {
	case util.IsLetterOrUnderscore(b):
		return tokenizer.toKeywordOrIdentifier(line)
	case util.IsNumber(b):
		return tokenizer.tokenNumber(line)
	case util.IsOperator(b), b == '!' && tokenizer.peek(line, 1) == '=':
		return tokenizer.tokenOperator(line)
	case util.IsDelimiter(b):
		return tokenizer.makeToken(line, DelimiterTP, tokenizer.currentPos+1)
	default:
		return tokenizer.tokenUnknown(line)
	}
}

// trimSpace steps forward through line over all continuous space.
func (tokenizer *Tokenizer) trimSpace(line []byte) {
	for tokenizer.currentPos < len(line) && util.IsSpace(line[tokenizer.currentPos]) {
		tokenizer.currentPos++
	}
}

func (tokenizer *Tokenizer) hasRemainCharacters(line []byte) bool {
	return tokenizer.currentPos < len(line)
}

func (tokenizer *Tokenizer) peek(line []byte, offset int) byte {
	if tokenizer.currentPos+offset >= len(line) {
		return 0
	}
	return line[tokenizer.currentPos+offset]
}

// makeToken cuts line[currentPos:endPos] into a token and moves past it.
func (tokenizer *Tokenizer) makeToken(line []byte, tp TokenType, endPos int) *Token {
	token := &Token{
		content:  string(line[tokenizer.currentPos:endPos]),
		line:     tokenizer.currentLine,
		tp:       tp,
		startPos: tokenizer.currentPos,
		endPos:   endPos,
	}
	tokenizer.currentPos = endPos
	return token
}

func (tokenizer *Tokenizer) toKeywordOrIdentifier(line []byte) *Token {
	endPos := tokenizer.currentPos
	for endPos < len(line) && util.IsLetterOrUnderscoreOrNumber(line[endPos]) {
		endPos++
	}
	token := tokenizer.makeToken(line, IdentifierTP, endPos)
	if keyWords[token.content] {
		token.tp = KeyWordTP
		return token
	}
	// The lexer only leaves a skeleton entry, types are filled in by semantic analysis.
	tokenizer.symbolTable.touch(token.content)
	return token
}

// tokenNumber takes a maximal run of digits and dots. Lexemes that are not a valid literal,
// like 1.2.3 or an int beyond 64 bits, come out as unknown tokens.
func (tokenizer *Tokenizer) tokenNumber(line []byte) *Token {
	endPos := tokenizer.currentPos
	for endPos < len(line) && util.IsNumberOrDot(line[endPos]) {
		endPos++
	}
	token := tokenizer.makeToken(line, ConstantTP, endPos)
	value, ok := parseNumber(token.content)
	if !ok {
		token.tp = UnknownTP
		return token
	}
	token.value = value
	return token
}

func (tokenizer *Tokenizer) tokenOperator(line []byte) *Token {
	endPos := tokenizer.currentPos + 1
	if util.IsExtensibleOperator(line[tokenizer.currentPos]) && tokenizer.peek(line, 1) == '=' {
		endPos++
	}
	return tokenizer.makeToken(line, OperatorTP, endPos)
}

func (tokenizer *Tokenizer) tokenUnknown(line []byte) *Token {
	_, size := utf8.DecodeRune(line[tokenizer.currentPos:])
	return tokenizer.makeToken(line, UnknownTP, tokenizer.currentPos+size)
}

// Tokenize reads the whole source from rd and splits it into tokens. It also returns the symbol
// table skeleton holding every identifier seen, in order of first sighting.
func (tokenizer *Tokenizer) Tokenize(rd io.Reader) ([]*Token, *SymbolTable, error) {
	bfReader := bufio.NewReader(rd)
	tokenizer.currentLine = 0
	for {
		tokenizer.currentLine++
		tokenizer.currentPos = 0
		line, err := bfReader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, nil, err
		}
		tokenizer.parseLine(line)
		if err == io.EOF {
			return tokenizer.tokens, tokenizer.symbolTable, nil
		}
	}
}

func (tokenizer *Tokenizer) parseLine(line []byte) {
	for {
		token := tokenizer.getNextToken(line)
		if token == nil {
			return
		}
		tokenizer.tokens = append(tokenizer.tokens, token)
	}
}
