package internal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// IRReader parses a three-address code listing, as produced by Render, back into
// instructions, so that listings written by other tools can be optimized on their own.
// Blank lines and // comments are ignored.
type IRReader struct {
	line     int
	commands []Instruction
}

func NewIRReader() *IRReader {
	return &IRReader{}
}

// ReadInstructions is a shortcut for NewIRReader().Parse(rd).
func ReadInstructions(rd io.Reader) ([]Instruction, error) {
	return NewIRReader().Parse(rd)
}

func (reader *IRReader) Parse(rd io.Reader) ([]Instruction, error) {
	bfReader := bufio.NewReader(rd)
	for {
		line, err := bfReader.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		reader.line++
		if trimmed, hasRemainCharacter := reader.trimLine(line); hasRemainCharacter {
			if err := reader.transformLine(string(trimmed)); err != nil {
				return nil, err
			}
		}
		if err == io.EOF {
			return reader.commands, nil
		}
	}
}

// trimLine removes spaces and comments, then reports whether anything is left.
func (reader *IRReader) trimLine(line []byte) ([]byte, bool) {
	if index := bytes.Index(line, []byte("//")); index != -1 {
		line = line[:index]
	}
	line = bytes.TrimSpace(line)
	return line, len(line) > 0
}

var nameFormat = regexp.MustCompile("^[A-Za-z_][A-Za-z0-9_]*$")

func (reader *IRReader) transformLine(line string) error {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 1 && strings.HasSuffix(line, ":"):
		return reader.transformLabel(strings.TrimSuffix(line, ":"))
	case fields[0] == "print":
		return reader.transformPrint(fields)
	case fields[0] == "if":
		return reader.transformBranch(fields)
	case len(fields) >= 3 && fields[1] == "=":
		return reader.transformAssign(fields)
	}
	return reader.makeSyntaxErr("unrecognized instruction %q", line)
}

func (reader *IRReader) transformLabel(label string) error {
	if !nameFormat.MatchString(label) {
		return reader.makeSyntaxErr("bad label %q", label)
	}
	reader.commands = append(reader.commands, Label(label))
	return nil
}

// print name
func (reader *IRReader) transformPrint(fields []string) error {
	if len(fields) != 2 || !nameFormat.MatchString(fields[1]) {
		return reader.makeSyntaxErr("print takes exactly one name")
	}
	reader.commands = append(reader.commands, Print(fields[1]))
	return nil
}

// if left relop right goto label
func (reader *IRReader) transformBranch(fields []string) error {
	if len(fields) != 6 || fields[4] != "goto" {
		return reader.makeSyntaxErr("branch must read 'if a op b goto L'")
	}
	left, err := reader.parseOperand(fields[1])
	if err != nil {
		return err
	}
	op, ok := opCodes[fields[2]]
	if !ok || op.isArithmetic() {
		return reader.makeSyntaxErr("bad relational operator %q", fields[2])
	}
	right, err := reader.parseOperand(fields[3])
	if err != nil {
		return err
	}
	if !nameFormat.MatchString(fields[5]) {
		return reader.makeSyntaxErr("bad label %q", fields[5])
	}
	reader.commands = append(reader.commands, Branch(left, op, right, fields[5]))
	return nil
}

// name = operand [op operand]
func (reader *IRReader) transformAssign(fields []string) error {
	if !nameFormat.MatchString(fields[0]) {
		return reader.makeSyntaxErr("bad assignment target %q", fields[0])
	}
	left, err := reader.parseOperand(fields[2])
	if err != nil {
		return err
	}
	switch len(fields) {
	case 3:
		reader.commands = append(reader.commands, Copy(fields[0], left))
		return nil
	case 5:
		op, ok := opCodes[fields[3]]
		if !ok || !op.isArithmetic() {
			return reader.makeSyntaxErr("bad arithmetic operator %q", fields[3])
		}
		right, err := reader.parseOperand(fields[4])
		if err != nil {
			return err
		}
		reader.commands = append(reader.commands, Compute(fields[0], left, op, right))
		return nil
	}
	return reader.makeSyntaxErr("assignment has %d fields", len(fields))
}

func (reader *IRReader) parseOperand(field string) (Operand, error) {
	if nameFormat.MatchString(field) {
		return NameOperand(field), nil
	}
	if value, ok := parseNumber(field); ok {
		return ConstOperand(value), nil
	}
	return Operand{}, reader.makeSyntaxErr("bad operand %q", field)
}

func (reader *IRReader) makeSyntaxErr(format string, args ...interface{}) error {
	return fmt.Errorf("ir: syntax error at line %d: %s", reader.line, fmt.Sprintf(format, args...))
}
