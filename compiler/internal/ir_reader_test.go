package internal

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestIRReader_Parse(t *testing.T) {
	source := `// folded by hand
t1 = a + 2.5
x = t1

if x <= -1 goto L1   // skip the print
print x
L1:
`
	code, err := NewIRReader().Parse(strings.NewReader(source))
	require.NoError(t, err)
	assert.Equal(t, []Instruction{
		Compute("t1", NameOperand("a"), AddOpTP, ConstOperand(FloatNumber(2.5))),
		Copy("x", NameOperand("t1")),
		Branch(NameOperand("x"), LessEqualOpTP, ConstOperand(IntNumber(-1)), "L1"),
		Print("x"),
		Label("L1"),
	}, code)
}

func TestIRReader_RoundTrip(t *testing.T) {
	program, errors := parse(t, "int a; int b; a = (b + 1) * 2.5 / b; if (a != b) { print(a); b = a - 3; }")
	require.Empty(t, errors)
	lines := Render(NewCodeGenerator().Generate(program))

	code, err := ReadInstructions(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, lines, Render(code))
}

func TestIRReader_Empty(t *testing.T) {
	code, err := ReadInstructions(strings.NewReader("\n  \n// nothing\n"))
	assert.NoError(t, err)
	assert.Empty(t, code)
}

func TestIRReader_SyntaxErrors(t *testing.T) {
	testData := []struct {
		Content string
		Expect  string
	}{
		{Content: "x", Expect: "ir: syntax error at line 1: unrecognized instruction \"x\""},
		{Content: "print\n", Expect: "ir: syntax error at line 1: print takes exactly one name"},
		{Content: "print 1", Expect: "ir: syntax error at line 1: print takes exactly one name"},
		{Content: "x = 1\n1x:", Expect: "ir: syntax error at line 2: bad label \"1x\""},
		{Content: "if a > b L1", Expect: "ir: syntax error at line 1: branch must read 'if a op b goto L'"},
		{Content: "if a + b goto L1", Expect: "ir: syntax error at line 1: bad relational operator \"+\""},
		{Content: "if a > b goto 1", Expect: "ir: syntax error at line 1: bad label \"1\""},
		{Content: "if a > 1.2.3 goto L1", Expect: "ir: syntax error at line 1: bad operand \"1.2.3\""},
		{Content: "\n\nx = a < b", Expect: "ir: syntax error at line 3: bad arithmetic operator \"<\""},
		{Content: "x = a +", Expect: "ir: syntax error at line 1: assignment has 4 fields"},
		{Content: "1 = a", Expect: "ir: syntax error at line 1: bad assignment target \"1\""},
		{Content: "x = $", Expect: "ir: syntax error at line 1: bad operand \"$\""},
	}
	for _, data := range testData {
		_, err := ReadInstructions(strings.NewReader(data.Content))
		if assert.Error(t, err, data.Content) {
			assert.Equal(t, data.Expect, err.Error(), data.Content)
		}
	}
}
