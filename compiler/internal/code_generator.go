package internal

import (
	"fmt"
	"strconv"
)

// CodeGenerator lowers a semantically valid program to three-address code. Temporaries and
// labels come from two separate counters owned by the generator, so a fresh generator
// must be used for every program.
type CodeGenerator struct {
	code         []Instruction
	tempCounter  int
	labelCounter int
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

func (generator *CodeGenerator) Generate(program *ProgramAst) []Instruction {
	generator.generateStatementsCode(program.Statements)
	return generator.code
}

func (generator *CodeGenerator) newTemp() string {
	generator.tempCounter++
	return "t" + strconv.Itoa(generator.tempCounter)
}

func (generator *CodeGenerator) newLabel() string {
	generator.labelCounter++
	return "L" + strconv.Itoa(generator.labelCounter)
}

func (generator *CodeGenerator) generateStatementsCode(statements []StatementAst) {
	for _, stm := range statements {
		generator.generateStatementCode(stm)
	}
}

func (generator *CodeGenerator) generateStatementCode(statement StatementAst) {
	switch stm := statement.(type) {
	case *DeclarationAst:
		// Declarations only matter to the symbol table.
	case *AssignmentAst:
		value := generator.generateExpressionCode(stm.Value)
		generator.writeOutput(Copy(stm.VarName, value))
	case *PrintAst:
		generator.writeOutput(Print(stm.VarName))
	case *ConditionalAst:
		generator.generateConditionalCode(stm)
	default:
		panic(fmt.Sprintf("code generator: unknown statement %T", statement))
	}
}

// For if (a > b) { statements }:
//
//   if a <= b goto L1
//   statements code
//   L1:
//
// The branch tests the negated condition, so the body is skipped when the condition is false.
func (generator *CodeGenerator) generateConditionalCode(stm *ConditionalAst) {
	left := generator.generateExpressionCode(stm.Condition.Left)
	right := generator.generateExpressionCode(stm.Condition.Right)
	exitLabel := generator.newLabel()
	generator.writeOutput(Branch(left, stm.Condition.Op.negate(), right, exitLabel))
	generator.generateStatementsCode(stm.Statements)
	generator.writeOutput(Label(exitLabel))
}

// generateExpressionCode: for example: 5 + a * c
//
//           +
//         /   \
//        5     *
//             / \
//            a   c
//
// a postOrder traversal gives t1 = a * c, t2 = 5 + t1 and the result operand t2. Every
// binary node gets its own temporary, even when an identical one was computed before.
func (generator *CodeGenerator) generateExpressionCode(expression ExpressionAst) Operand {
	switch expr := expression.(type) {
	case *ConstantAst:
		return ConstOperand(expr.Value)
	case *IdentifierAst:
		return NameOperand(expr.Name)
	case *BinaryOpAst:
		left := generator.generateExpressionCode(expr.Left)
		right := generator.generateExpressionCode(expr.Right)
		temp := generator.newTemp()
		generator.writeOutput(Compute(temp, left, expr.Op, right))
		return NameOperand(temp)
	}
	panic(fmt.Sprintf("code generator: unknown expression %T", expression))
}

func (generator *CodeGenerator) writeOutput(inst Instruction) {
	generator.code = append(generator.code, inst)
}
