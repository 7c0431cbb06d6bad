package internal

import (
	"simplelang/logger"
)

// Pass is one local optimization over straight-line three-address code. It returns the new
// code and how many instructions it rewrote. Passes never add or remove instructions.
type Pass interface {
	Name() string
	Optimize(code []Instruction) ([]Instruction, int)
}

// Optimizer runs its passes in order, once each.
type Optimizer struct {
	passes []Pass
}

// NewOptimizer returns the standard chain: constant folding, then common subexpression
// elimination.
func NewOptimizer() *Optimizer {
	return &Optimizer{passes: []Pass{ConstantFolding{}, CommonSubexpressionElimination{}}}
}

func (optimizer *Optimizer) Optimize(code []Instruction) []Instruction {
	for _, pass := range optimizer.passes {
		var changes int
		code, changes = pass.Optimize(code)
		logger.LogOptimization(pass.Name(), changes)
	}
	return code
}

// ConstantFolding replaces each assignment whose right-hand side can be computed from
// literals and already folded names by the computed number. Folded names feed later
// instructions, so x = t1 becomes x = 8 once t1 = 8 is known.
//
// A label is a join point: values known before it may not hold after it, so the table is
// emptied there.
type ConstantFolding struct{}

func (ConstantFolding) Name() string {
	return "constant-folding"
}

func (ConstantFolding) Optimize(code []Instruction) ([]Instruction, int) {
	constants := map[string]Number{}
	optimized := make([]Instruction, 0, len(code))
	changes := 0
	for _, inst := range code {
		switch inst.Kind {
		case LabelInstruction:
			constants = map[string]Number{}
		case AssignInstruction:
			value, ok := evaluate(inst, constants)
			if !ok {
				// The old value of the target is gone even though the new one is unknown.
				delete(constants, inst.Target)
				break
			}
			constants[inst.Target] = value
			folded := Copy(inst.Target, ConstOperand(value))
			if folded != inst {
				changes++
			}
			inst = folded
		}
		optimized = append(optimized, inst)
	}
	return optimized, changes
}

// evaluate computes the right-hand side of an assignment. It reports false when an operand is
// not a known constant or the arithmetic has no representable result.
func evaluate(inst Instruction, constants map[string]Number) (Number, bool) {
	left, ok := operandValue(inst.Left, constants)
	if !ok {
		return Number{}, false
	}
	if inst.Op == NoOpTP {
		return left, true
	}
	right, ok := operandValue(inst.Right, constants)
	if !ok || !inst.Op.isArithmetic() {
		return Number{}, false
	}
	return applyOp(inst.Op, left, right)
}

func operandValue(operand Operand, constants map[string]Number) (Number, bool) {
	if operand.IsConst {
		return operand.Value, true
	}
	value, ok := constants[operand.Name]
	return value, ok
}

// CommonSubexpressionElimination rewrites an assignment whose right-hand side was already
// computed into a copy of the name that first computed it. Matching is on the rendered text
// only, so a + b and b + a are different expressions. Binary computations and copies of a
// name take part; constants are left to constant folding.
//
// Assigning a name retires every remembered expression that reads it or is held in it.
type CommonSubexpressionElimination struct{}

func (CommonSubexpressionElimination) Name() string {
	return "common-subexpression-elimination"
}

func (CommonSubexpressionElimination) Optimize(code []Instruction) ([]Instruction, int) {
	available := newAvailableExpressions()
	optimized := make([]Instruction, 0, len(code))
	changes := 0
	for _, inst := range code {
		switch inst.Kind {
		case LabelInstruction:
			available = newAvailableExpressions()
		case AssignInstruction:
			if !isSubexpression(inst) {
				available.retire(inst.Target)
				break
			}
			rhs := inst.rhs()
			if expr := available.lookUp(rhs); expr != nil {
				inst = Copy(inst.Target, NameOperand(expr.source))
				changes++
				available.retire(inst.Target)
				break
			}
			available.retire(inst.Target)
			reads := inst.operands()
			if !contains(reads, inst.Target) {
				available.insert(rhs, inst.Target, reads)
			}
		}
		optimized = append(optimized, inst)
	}
	return optimized, changes
}

func isSubexpression(inst Instruction) bool {
	return inst.IsBinary() || (inst.Kind == AssignInstruction && !inst.Left.IsConst)
}

type availableExpression struct {
	rhs    string
	source string
}

// availableExpressions maps a rendered right-hand side to the name holding its value. users
// indexes the same entries by every name involved, so retiring a name only visits its own
// entries. Entries replaced or retired through another name stay behind in users and are
// recognized by identity.
type availableExpressions struct {
	byRhs map[string]*availableExpression
	users map[string][]*availableExpression
}

func newAvailableExpressions() *availableExpressions {
	return &availableExpressions{
		byRhs: map[string]*availableExpression{},
		users: map[string][]*availableExpression{},
	}
}

func (available *availableExpressions) lookUp(rhs string) *availableExpression {
	return available.byRhs[rhs]
}

func (available *availableExpressions) insert(rhs string, source string, reads []string) {
	expr := &availableExpression{rhs: rhs, source: source}
	available.byRhs[rhs] = expr
	available.users[source] = append(available.users[source], expr)
	for _, name := range reads {
		available.users[name] = append(available.users[name], expr)
	}
}

func (available *availableExpressions) retire(name string) {
	for _, expr := range available.users[name] {
		if available.byRhs[expr.rhs] == expr {
			delete(available.byRhs, expr.rhs)
		}
	}
	delete(available.users, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
