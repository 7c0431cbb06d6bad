package internal

import (
	"fmt"
)

// Parser is a recursive descent parser with one token of lookahead. It never stops at the
// first syntax error: a broken statement is reported and dropped, and parsing carries on
// with the next one.
type Parser struct {
	currentTokenPos int
	currentTokens   []*Token
	errors          []string
	depth           int
	exprNodes       int
	stopped         bool
	limits          Limits
}

func NewParser(limits Limits) *Parser {
	return &Parser{limits: limits}
}

// Parse builds the program from tokens. The returned program holds every statement that
// parsed cleanly, the error list holds one message per problem in source order.
func (parser *Parser) Parse(tokens []*Token) (*ProgramAst, []string) {
	parser.limits = parser.limits.withDefaults()
	parser.currentTokenPos, parser.currentTokens = 0, tokens
	parser.errors, parser.depth, parser.exprNodes, parser.stopped = nil, 0, 0, false
	statements := parser.parseStatements(false)
	return &ProgramAst{Statements: statements}, parser.errors
}

// statement*, up to the end of tokens or, inside a block, up to the closing brace.
func (parser *Parser) parseStatements(inBlock bool) (statements []StatementAst) {
	for parser.hasRemainTokens() {
		if _, match := parser.expectToken(DelimiterTP, "}", false); match && inBlock {
			break
		}
		statement := parser.parseStatement()
		if statement != nil {
			statements = append(statements, statement)
		}
	}
	return
}

func (parser *Parser) parseStatement() StatementAst {
	token := parser.getCurrentToken()
	switch {
	case token.is(DelimiterTP, ";"):
		// A stray ';' is an empty statement.
		parser.stepForward()
		return nil
	case token.is(KeyWordTP, "int"), token.is(KeyWordTP, "float"):
		return parser.parseDeclaration()
	case token.tp == IdentifierTP:
		return parser.parseAssignment()
	case token.is(KeyWordTP, "print"):
		return parser.parsePrint()
	case token.is(KeyWordTP, "if"):
		return parser.parseConditional()
	}
	// Nothing starts with this token. Skip it so the loop always moves.
	parser.reportError(fmt.Sprintf("Unexpected token '%s'", token.content))
	parser.stepForward()
	return nil
}

// [int|float] varName ;
func (parser *Parser) parseDeclaration() StatementAst {
	typeToken := parser.getCurrentToken()
	parser.stepForward()
	varType, _ := varTypeOf(typeToken.content)

	idToken, match := parser.expectToken(IdentifierTP, "", true)
	if !match {
		parser.reportError("Expected identifier after type")
		return nil
	}
	if _, match = parser.expectToken(DelimiterTP, ";", true); !match {
		parser.reportError("Expected ';' after declaration")
		return nil
	}
	return &DeclarationAst{VarType: varType, VarName: idToken.content}
}

// varName = expression ;
func (parser *Parser) parseAssignment() StatementAst {
	idToken := parser.getCurrentToken()
	parser.stepForward()

	if _, match := parser.expectToken(OperatorTP, "=", true); !match {
		parser.reportError("Expected '=' in assignment")
		return nil
	}
	parser.exprNodes = 0
	value := parser.parseExpression()
	if value == nil {
		parser.reportError("Expected expression after '='")
		parser.skipLongExpression()
		return nil
	}
	if _, match := parser.expectToken(DelimiterTP, ";", true); !match {
		parser.reportError("Expected ';' after assignment")
		return nil
	}
	return &AssignmentAst{VarName: idToken.content, Value: value}
}

// print ( varName ) ;
func (parser *Parser) parsePrint() StatementAst {
	parser.stepForward()
	if _, match := parser.expectToken(DelimiterTP, "(", true); !match {
		parser.reportError("Expected '(' after print")
		return nil
	}
	idToken, match := parser.expectToken(IdentifierTP, "", true)
	if !match {
		parser.reportError("Expected identifier in print statement")
		return nil
	}
	if _, match = parser.expectToken(DelimiterTP, ")", true); !match {
		parser.reportError("Expected ')' after identifier")
		return nil
	}
	if _, match = parser.expectToken(DelimiterTP, ";", true); !match {
		parser.reportError("Expected ';' after print statement")
		return nil
	}
	return &PrintAst{VarName: idToken.content}
}

// if ( condition ) { statements }
func (parser *Parser) parseConditional() StatementAst {
	parser.stepForward()
	if !parser.enter() {
		return nil
	}
	defer parser.leave()

	if _, match := parser.expectToken(DelimiterTP, "(", true); !match {
		parser.reportError("Expected '(' after if")
		return nil
	}
	parser.exprNodes = 0
	condition := parser.parseCondition()
	if condition == nil {
		parser.reportError("Expected condition")
		parser.skipLongExpression()
		return nil
	}
	if _, match := parser.expectToken(DelimiterTP, ")", true); !match {
		parser.reportError("Expected ')' after condition")
		return nil
	}
	if _, match := parser.expectToken(DelimiterTP, "{", true); !match {
		parser.reportError("Expected '{' after if condition")
		return nil
	}
	statements := parser.parseStatements(true)
	if _, match := parser.expectToken(DelimiterTP, "}", true); !match {
		parser.reportError("Expected '}' to close if block")
		return nil
	}
	return &ConditionalAst{Condition: condition, Statements: statements}
}

func (parser *Parser) stepForward() {
	parser.currentTokenPos++
}

func (parser *Parser) hasRemainTokens() bool {
	return parser.currentTokenPos < len(parser.currentTokens)
}

// getCurrentToken returns nil at the end of tokens.
func (parser *Parser) getCurrentToken() *Token {
	if !parser.hasRemainTokens() {
		return nil
	}
	return parser.currentTokens[parser.currentTokenPos]
}

// expectToken checks the current token against tp and, unless content is empty, its content.
// When walk is set a matching token is consumed.
func (parser *Parser) expectToken(tp TokenType, content string, walk bool) (*Token, bool) {
	token := parser.getCurrentToken()
	if token == nil || token.tp != tp || (content != "" && token.content != content) {
		return nil, false
	}
	if walk {
		parser.stepForward()
	}
	return token, true
}

func (parser *Parser) enter() bool {
	if parser.depth >= parser.limits.MaxNestingDepth {
		parser.reportError("Nesting too deep")
		return false
	}
	parser.depth++
	return true
}

func (parser *Parser) leave() {
	parser.depth--
}

// countExpressionNode accounts for one more binary operator in the current statement.
func (parser *Parser) countExpressionNode() bool {
	parser.exprNodes++
	if parser.exprNodes <= parser.limits.MaxExpressionNodes {
		return true
	}
	parser.reportError("Expression too long")
	return false
}

// skipLongExpression drops the rest of a statement whose expression went over the limit:
// up to and including the next ';', or up to the next brace.
func (parser *Parser) skipLongExpression() {
	if parser.exprNodes <= parser.limits.MaxExpressionNodes {
		return
	}
	for parser.hasRemainTokens() {
		token := parser.getCurrentToken()
		if token.is(DelimiterTP, "{") || token.is(DelimiterTP, "}") {
			return
		}
		parser.stepForward()
		if token.is(DelimiterTP, ";") {
			return
		}
	}
}

// errorLine is the line of the current token, or of the last one at the end of input.
func (parser *Parser) errorLine() int {
	if parser.hasRemainTokens() {
		return parser.currentTokens[parser.currentTokenPos].line
	}
	if len(parser.currentTokens) > 0 {
		return parser.currentTokens[len(parser.currentTokens)-1].line
	}
	return 1
}

// reportError records msg. Once MaxErrors messages are collected the parser gives up and
// skips the rest of the input.
func (parser *Parser) reportError(msg string) {
	if parser.stopped {
		return
	}
	if len(parser.errors) >= parser.limits.MaxErrors {
		parser.errors = append(parser.errors, "Too many errors, parsing stopped")
		parser.stopped = true
		parser.currentTokenPos = len(parser.currentTokens)
		return
	}
	parser.errors = append(parser.errors, fmt.Sprintf("%s at line %d", msg, parser.errorLine()))
}
