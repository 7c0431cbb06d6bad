package internal

import (
	"fmt"
)

// SemanticAnalyzer walks the program once, top down, building its own symbol table and
// collecting every declaration or reference problem it meets. It does not stop at the first
// error.
//
// Reading a declared but never assigned variable is not an error.
type SemanticAnalyzer struct {
	symbolTable *SymbolTable
	errors      []string
}

func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{symbolTable: NewSymbolTable()}
}

func (analyzer *SemanticAnalyzer) Analyze(program *ProgramAst) []string {
	analyzer.checkStatements(program.Statements)
	return analyzer.errors
}

// SymbolTable returns the table built by Analyze.
func (analyzer *SemanticAnalyzer) SymbolTable() *SymbolTable {
	return analyzer.symbolTable
}

func (analyzer *SemanticAnalyzer) checkStatements(statements []StatementAst) {
	for _, statement := range statements {
		analyzer.checkStatement(statement)
	}
}

func (analyzer *SemanticAnalyzer) checkStatement(statement StatementAst) {
	switch stm := statement.(type) {
	case *DeclarationAst:
		if !analyzer.symbolTable.declare(stm.VarName, stm.VarType) {
			analyzer.makeSemanticError("Multiple declaration of variable '%s'", stm.VarName)
		}
	case *AssignmentAst:
		desc := analyzer.symbolTable.lookUp(stm.VarName)
		if desc == nil {
			analyzer.makeSemanticError("Undeclared variable '%s'", stm.VarName)
			return
		}
		desc.initialized = true
		analyzer.checkExpression(stm.Value)
	case *PrintAst:
		if analyzer.symbolTable.lookUp(stm.VarName) == nil {
			analyzer.makeSemanticError("Undeclared variable '%s' in print statement", stm.VarName)
		}
	case *ConditionalAst:
		analyzer.checkExpression(stm.Condition.Left)
		analyzer.checkExpression(stm.Condition.Right)
		analyzer.checkStatements(stm.Statements)
	default:
		panic(fmt.Sprintf("semantic analyzer: unknown statement %T", statement))
	}
}

func (analyzer *SemanticAnalyzer) checkExpression(expression ExpressionAst) {
	switch expr := expression.(type) {
	case *BinaryOpAst:
		analyzer.checkExpression(expr.Left)
		analyzer.checkExpression(expr.Right)
	case *IdentifierAst:
		if analyzer.symbolTable.lookUp(expr.Name) == nil {
			analyzer.makeSemanticError("Undeclared variable '%s'", expr.Name)
		}
	case *ConstantAst:
	default:
		panic(fmt.Sprintf("semantic analyzer: unknown expression %T", expression))
	}
}

func (analyzer *SemanticAnalyzer) makeSemanticError(format string, args ...interface{}) {
	analyzer.errors = append(analyzer.errors, fmt.Sprintf(format, args...))
}
