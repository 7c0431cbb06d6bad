package internal

import (
	"fmt"
)

// Three-address instructions. Every instruction has at most one operator, and its text form
// is one of:
//
//   name = operand op operand
//   name = operand
//   print name
//   if operand relop operand goto Ln
//   Ln:

type InstructionKind int

const (
	AssignInstruction InstructionKind = iota
	PrintInstruction
	LabelInstruction
	BranchInstruction
)

// Operand is either a variable/temporary name or a numeric literal.
type Operand struct {
	IsConst bool
	Name    string
	Value   Number
}

func NameOperand(name string) Operand {
	return Operand{Name: name}
}

func ConstOperand(value Number) Operand {
	return Operand{IsConst: true, Value: value}
}

func (operand Operand) String() string {
	if operand.IsConst {
		return operand.Value.String()
	}
	return operand.Name
}

// Instruction fields by kind:
//   assign: Target = Left [Op Right]   (Op is NoOpTP for a copy)
//   print:  Target is the printed name
//   label:  Target is the label name
//   branch: if Left Op Right goto Target
type Instruction struct {
	Kind   InstructionKind
	Target string
	Left   Operand
	Op     OpCode
	Right  Operand
}

func Copy(target string, value Operand) Instruction {
	return Instruction{Kind: AssignInstruction, Target: target, Left: value}
}

func Compute(target string, left Operand, op OpCode, right Operand) Instruction {
	return Instruction{Kind: AssignInstruction, Target: target, Left: left, Op: op, Right: right}
}

func Print(name string) Instruction {
	return Instruction{Kind: PrintInstruction, Target: name}
}

func Label(name string) Instruction {
	return Instruction{Kind: LabelInstruction, Target: name}
}

func Branch(left Operand, op OpCode, right Operand, label string) Instruction {
	return Instruction{Kind: BranchInstruction, Target: label, Left: left, Op: op, Right: right}
}

// IsBinary reports whether inst computes Left Op Right into Target.
func (inst Instruction) IsBinary() bool {
	return inst.Kind == AssignInstruction && inst.Op != NoOpTP
}

// rhs renders the right-hand side of an assignment.
func (inst Instruction) rhs() string {
	if inst.Op == NoOpTP {
		return inst.Left.String()
	}
	return fmt.Sprintf("%s %s %s", inst.Left, inst.Op, inst.Right)
}

// operands returns the names read by an assignment or branch.
func (inst Instruction) operands() []string {
	var names []string
	if inst.Kind != AssignInstruction && inst.Kind != BranchInstruction {
		return nil
	}
	if !inst.Left.IsConst {
		names = append(names, inst.Left.Name)
	}
	if inst.Op != NoOpTP && !inst.Right.IsConst {
		names = append(names, inst.Right.Name)
	}
	return names
}

func (inst Instruction) String() string {
	switch inst.Kind {
	case AssignInstruction:
		return inst.Target + " = " + inst.rhs()
	case PrintInstruction:
		return "print " + inst.Target
	case LabelInstruction:
		return inst.Target + ":"
	case BranchInstruction:
		return fmt.Sprintf("if %s %s %s goto %s", inst.Left, inst.Op, inst.Right, inst.Target)
	}
	return ""
}

// Render returns the text form of code, one string per instruction.
func Render(code []Instruction) []string {
	lines := make([]string, 0, len(code))
	for _, inst := range code {
		lines = append(lines, inst.String())
	}
	return lines
}
