package internal

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func analyze(t *testing.T, source string) ([]string, *SymbolTable) {
	program, errors := parse(t, source)
	require.Empty(t, errors, source)
	analyzer := NewSemanticAnalyzer()
	return analyzer.Analyze(program), analyzer.SymbolTable()
}

func TestSemanticAnalyzer_Analyze(t *testing.T) {
	testData := []struct {
		Content string
		Expect  []string
	}{
		{Content: "int y;\ny = z;", Expect: []string{"Undeclared variable 'z'"}},
		{Content: "int a; int a;", Expect: []string{"Multiple declaration of variable 'a'"}},
		{Content: "int a; float a;", Expect: []string{"Multiple declaration of variable 'a'"}},
		{Content: "x = z;", Expect: []string{"Undeclared variable 'x'"}},
		{Content: "print(q);", Expect: []string{"Undeclared variable 'q' in print statement"}},
		{Content: "int a; int b; b = a;", Expect: nil},
		{Content: "int a; a = a + 1;", Expect: nil},
		{Content: "int a; print(a);", Expect: nil},
		{Content: "int a; if (a > b) { c = 1; }", Expect: []string{
			"Undeclared variable 'b'",
			"Undeclared variable 'c'",
		}},
		{Content: "int a; if (a == 1) { if (a < d) { print(e); } }", Expect: []string{
			"Undeclared variable 'd'",
			"Undeclared variable 'e' in print statement",
		}},
		{Content: "int a; int a; print(b); a = c * (d - c);", Expect: []string{
			"Multiple declaration of variable 'a'",
			"Undeclared variable 'b' in print statement",
			"Undeclared variable 'c'",
			"Undeclared variable 'd'",
			"Undeclared variable 'c'",
		}},
		{Content: "a = 1; int a; a = 2;", Expect: []string{"Undeclared variable 'a'"}},
	}
	for _, data := range testData {
		errors, _ := analyze(t, data.Content)
		assert.Equal(t, data.Expect, errors, data.Content)
	}
}

func TestSemanticAnalyzer_SymbolTable(t *testing.T) {
	errors, table := analyze(t, "int a; float b; int c; b = a; if (a > 0) { c = 1; }")
	assert.Empty(t, errors)
	assert.Equal(t, []string{"a", "b", "c"}, table.Names())
	assert.Equal(t, "{a: {type: int, initialized: false}, b: {type: float, initialized: true}, c: {type: int, initialized: true}}", table.String())

	// The first declaration wins.
	_, table = analyze(t, "int a; float a;")
	assert.Equal(t, IntVariableType, table.LookUp("a").Type())
}

func TestSemanticAnalyzer_FreshTablePerAnalyzer(t *testing.T) {
	_, table := analyze(t, "int a;")
	assert.Equal(t, 1, table.Len())
	errors, table := analyze(t, "int a;")
	assert.Empty(t, errors)
	assert.Equal(t, 1, table.Len())
}
