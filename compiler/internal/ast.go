package internal

import (
	"encoding/json"
	"fmt"
)

// In this file, we defined all ast of SimpleLang according to its grammar:
//
//   program        → statement*
//   statement      → declaration | assignment | print_stmt | conditional
//   declaration    → ('int'|'float') IDENTIFIER ';'
//   assignment     → IDENTIFIER '=' expression ';'
//   print_stmt     → 'print' '(' IDENTIFIER ')' ';'
//   conditional    → 'if' '(' condition ')' '{' statement* '}'
//   condition      → expression ('>'|'<'|'=='|'!=') expression
//   expression     → term (('+'|'-') term)*
//   term           → factor (('*'|'/') factor)*
//   factor         → IDENTIFIER | CONSTANT | '(' expression ')'
//
// Nodes are built once by the parser and never changed afterwards.

type Node interface {
	node()
}

type StatementAst interface {
	Node
	statement()
}

type ExpressionAst interface {
	Node
	expression()
}

type OpCode int

const (
	NoOpTP OpCode = iota
	AddOpTP
	MinusOpTP
	MultipleOpTP
	DivideOpTP
	GreaterOpTP
	LessOpTP
	EqualOpTP
	NotEqualOpTP
	GreaterEqualOpTP
	LessEqualOpTP
)

var opNames = map[OpCode]string{
	AddOpTP:          "+",
	MinusOpTP:        "-",
	MultipleOpTP:     "*",
	DivideOpTP:       "/",
	GreaterOpTP:      ">",
	LessOpTP:         "<",
	EqualOpTP:        "==",
	NotEqualOpTP:     "!=",
	GreaterEqualOpTP: ">=",
	LessEqualOpTP:    "<=",
}

var opCodes = func() map[string]OpCode {
	ret := make(map[string]OpCode, len(opNames))
	for op, name := range opNames {
		ret[name] = op
	}
	return ret
}()

func (op OpCode) String() string {
	return opNames[op]
}

func (op OpCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(op.String())
}

func (op OpCode) isArithmetic() bool {
	return op >= AddOpTP && op <= DivideOpTP
}

// isRelational reports whether op may appear in a condition. <= and >= are tokenized but the
// grammar does not accept them in source programs.
func (op OpCode) isRelational() bool {
	return op >= GreaterOpTP && op <= NotEqualOpTP
}

// negate returns the relation that holds exactly when op does not.
func (op OpCode) negate() OpCode {
	switch op {
	case GreaterOpTP:
		return LessEqualOpTP
	case LessOpTP:
		return GreaterEqualOpTP
	case EqualOpTP:
		return NotEqualOpTP
	case NotEqualOpTP:
		return EqualOpTP
	case GreaterEqualOpTP:
		return LessOpTP
	case LessEqualOpTP:
		return GreaterOpTP
	}
	return op
}

type ProgramAst struct {
	Statements []StatementAst
}

type DeclarationAst struct {
	VarType VarType
	VarName string
}

type AssignmentAst struct {
	VarName string
	Value   ExpressionAst
}

type PrintAst struct {
	VarName string
}

type ConditionalAst struct {
	Condition  *ConditionAst
	Statements []StatementAst
}

type ConditionAst struct {
	Left  ExpressionAst
	Op    OpCode
	Right ExpressionAst
}

type BinaryOpAst struct {
	Left  ExpressionAst
	Op    OpCode
	Right ExpressionAst
}

type IdentifierAst struct {
	Name string
}

type ConstantAst struct {
	Value Number
}

func (*ProgramAst) node()     {}
func (*DeclarationAst) node() {}
func (*AssignmentAst) node()  {}
func (*PrintAst) node()       {}
func (*ConditionalAst) node() {}
func (*ConditionAst) node()   {}
func (*BinaryOpAst) node()    {}
func (*IdentifierAst) node()  {}
func (*ConstantAst) node()    {}

func (*DeclarationAst) statement() {}
func (*AssignmentAst) statement()  {}
func (*PrintAst) statement()       {}
func (*ConditionalAst) statement() {}

func (*BinaryOpAst) expression()   {}
func (*IdentifierAst) expression() {}
func (*ConstantAst) expression()   {}

// JSON form of the tree: every node is an object tagged by "type". The tree is converted to
// plain values first and marshaled in one pass, so nested nodes are never encoded twice.

type programJSON struct {
	Type       string        `json:"type"`
	Statements []interface{} `json:"statements"`
}

type declarationJSON struct {
	Type    string  `json:"type"`
	VarType VarType `json:"var_type"`
	VarName string  `json:"var_name"`
}

type assignmentJSON struct {
	Type       string      `json:"type"`
	VarName    string      `json:"var_name"`
	Expression interface{} `json:"expression"`
}

type printJSON struct {
	Type    string `json:"type"`
	VarName string `json:"var_name"`
}

type conditionalJSON struct {
	Type       string        `json:"type"`
	Condition  interface{}   `json:"condition"`
	Statements []interface{} `json:"statements"`
}

type conditionJSON struct {
	Type     string      `json:"type"`
	Left     interface{} `json:"left"`
	Operator OpCode      `json:"operator"`
	Right    interface{} `json:"right"`
}

type binaryOpJSON struct {
	Type     string      `json:"type"`
	Operator OpCode      `json:"operator"`
	Left     interface{} `json:"left"`
	Right    interface{} `json:"right"`
}

type identifierJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type constantJSON struct {
	Type  string `json:"type"`
	Value Number `json:"value"`
}

func toJSON(node Node) interface{} {
	switch ast := node.(type) {
	case *ProgramAst:
		return programJSON{"program", statementsToJSON(ast.Statements)}
	case *DeclarationAst:
		return declarationJSON{"declaration", ast.VarType, ast.VarName}
	case *AssignmentAst:
		return assignmentJSON{"assignment", ast.VarName, toJSON(ast.Value)}
	case *PrintAst:
		return printJSON{"print", ast.VarName}
	case *ConditionalAst:
		return conditionalJSON{"conditional", toJSON(ast.Condition), statementsToJSON(ast.Statements)}
	case *ConditionAst:
		return conditionJSON{"condition", toJSON(ast.Left), ast.Op, toJSON(ast.Right)}
	case *BinaryOpAst:
		return binaryOpJSON{"binary_op", ast.Op, toJSON(ast.Left), toJSON(ast.Right)}
	case *IdentifierAst:
		return identifierJSON{"identifier", ast.Name}
	case *ConstantAst:
		return constantJSON{"constant", ast.Value}
	}
	panic(fmt.Sprintf("ast: unknown node %T", node))
}

func statementsToJSON(statements []StatementAst) []interface{} {
	ret := make([]interface{}, 0, len(statements))
	for _, statement := range statements {
		ret = append(ret, toJSON(statement))
	}
	return ret
}

func (ast *ProgramAst) MarshalJSON() ([]byte, error)     { return json.Marshal(toJSON(ast)) }
func (ast *DeclarationAst) MarshalJSON() ([]byte, error) { return json.Marshal(toJSON(ast)) }
func (ast *AssignmentAst) MarshalJSON() ([]byte, error)  { return json.Marshal(toJSON(ast)) }
func (ast *PrintAst) MarshalJSON() ([]byte, error)       { return json.Marshal(toJSON(ast)) }
func (ast *ConditionalAst) MarshalJSON() ([]byte, error) { return json.Marshal(toJSON(ast)) }
func (ast *ConditionAst) MarshalJSON() ([]byte, error)   { return json.Marshal(toJSON(ast)) }
func (ast *BinaryOpAst) MarshalJSON() ([]byte, error)    { return json.Marshal(toJSON(ast)) }
func (ast *IdentifierAst) MarshalJSON() ([]byte, error)  { return json.Marshal(toJSON(ast)) }
func (ast *ConstantAst) MarshalJSON() ([]byte, error)    { return json.Marshal(toJSON(ast)) }
