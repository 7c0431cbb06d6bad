package internal

// Expressions get their precedence from the grammar itself: expression handles + and -,
// term handles * and /, factor the operands. Both levels fold to the left, so a - b - c
// is (a - b) - c.
//
// Any failure inside an expression makes the whole expression nil. Callers report their own
// error on top of the one reported here.

func (parser *Parser) parseExpression() ExpressionAst {
	return parser.parseBinaryLevel(parser.parseTerm, AddOpTP, MinusOpTP)
}

func (parser *Parser) parseTerm() ExpressionAst {
	return parser.parseBinaryLevel(parser.parseFactor, MultipleOpTP, DivideOpTP)
}

func (parser *Parser) parseBinaryLevel(operand func() ExpressionAst, ops ...OpCode) ExpressionAst {
	left := operand()
	if left == nil {
		return nil
	}
	for {
		op, match := parser.matchOp(ops...)
		if !match {
			return left
		}
		parser.stepForward()
		if !parser.countExpressionNode() {
			return nil
		}
		right := operand()
		if right == nil {
			return nil
		}
		left = &BinaryOpAst{Left: left, Op: op, Right: right}
	}
}

// matchOp reports whether the current token is one of ops, without consuming it.
func (parser *Parser) matchOp(ops ...OpCode) (OpCode, bool) {
	token, match := parser.expectToken(OperatorTP, "", false)
	if !match {
		return NoOpTP, false
	}
	op := opCodes[token.content]
	for _, candidate := range ops {
		if op == candidate {
			return op, true
		}
	}
	return NoOpTP, false
}

// IDENTIFIER | CONSTANT | ( expression )
func (parser *Parser) parseFactor() ExpressionAst {
	if token, match := parser.expectToken(IdentifierTP, "", true); match {
		return &IdentifierAst{Name: token.content}
	}
	if token, match := parser.expectToken(ConstantTP, "", true); match {
		return &ConstantAst{Value: token.value}
	}
	if _, match := parser.expectToken(DelimiterTP, "(", false); !match {
		parser.reportError("Expected identifier, constant, or '('")
		return nil
	}
	if !parser.enter() {
		return nil
	}
	defer parser.leave()
	parser.stepForward()

	expr := parser.parseExpression()
	if expr == nil {
		return nil
	}
	if _, match := parser.expectToken(DelimiterTP, ")", true); !match {
		parser.reportError("Expected ')'")
		return nil
	}
	return expr
}

// condition → expression relop expression
func (parser *Parser) parseCondition() *ConditionAst {
	left := parser.parseExpression()
	if left == nil {
		return nil
	}
	token, match := parser.expectToken(OperatorTP, "", true)
	if !match || !opCodes[token.content].isRelational() {
		parser.reportError("Expected relational operator")
		return nil
	}
	right := parser.parseExpression()
	if right == nil {
		return nil
	}
	return &ConditionAst{Left: left, Op: opCodes[token.content], Right: right}
}
