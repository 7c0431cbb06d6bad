package internal

import (
	"errors"
	"fmt"
	"simplelang/logger"
	"strings"
	"time"
)

// Limits bound the work a single compile may do. Zero fields take the default value.
// MaxExpressionNodes counts the binary operators in the expressions of one statement,
// parenthesized ones included.
type Limits struct {
	MaxSourceBytes     int
	MaxNestingDepth    int
	MaxErrors          int
	MaxExpressionNodes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxSourceBytes:     1 << 20,
		MaxNestingDepth:    256,
		MaxErrors:          100,
		MaxExpressionNodes: 1000,
	}
}

func (limits Limits) withDefaults() Limits {
	defaults := DefaultLimits()
	if limits.MaxSourceBytes <= 0 {
		limits.MaxSourceBytes = defaults.MaxSourceBytes
	}
	if limits.MaxNestingDepth <= 0 {
		limits.MaxNestingDepth = defaults.MaxNestingDepth
	}
	if limits.MaxErrors <= 0 {
		limits.MaxErrors = defaults.MaxErrors
	}
	if limits.MaxExpressionNodes <= 0 {
		limits.MaxExpressionNodes = defaults.MaxExpressionNodes
	}
	return limits
}

var ErrSourceTooLarge = errors.New("compiler: source too large")

// Result holds the output of every phase that ran. Lists of phases that did not run are
// empty, never nil.
type Result struct {
	Tokens           []*Token     `json:"tokens"`
	SymbolTable      *SymbolTable `json:"symbol_table"`
	Ast              *ProgramAst  `json:"ast"`
	ParseErrors      []string     `json:"parse_errors"`
	SemanticErrors   []string     `json:"semantic_errors"`
	ThreeAddressCode []string     `json:"three_address_code"`
	OptimizedCode    []string     `json:"optimized_code"`

	// The skeleton table filled by the tokenizer. SymbolTable replaces it once semantic
	// analysis has run.
	LexerSymbols *SymbolTable  `json:"-"`
	Code         []Instruction `json:"-"`
	Optimized    []Instruction `json:"-"`
}

func newResult() *Result {
	return &Result{
		Tokens:           []*Token{},
		ParseErrors:      []string{},
		SemanticErrors:   []string{},
		ThreeAddressCode: []string{},
		OptimizedCode:    []string{},
	}
}

// Success reports whether all five phases completed without error.
func (result *Result) Success() bool {
	return result.Ast != nil && len(result.ParseErrors) == 0 && len(result.SemanticErrors) == 0
}

// Compiler runs the whole pipeline. It keeps no state between calls: every Compile builds its
// own tokenizer, parser, analyzer, generator and optimizer, so one Compiler may be shared by
// concurrent callers.
type Compiler struct {
	limits Limits
}

func NewCompiler(limits Limits) *Compiler {
	return &Compiler{limits: limits.withDefaults()}
}

func (compiler *Compiler) Limits() Limits {
	return compiler.limits
}

// Compile runs lexical, syntax and semantic analysis, IR generation and optimization over
// source. Diagnostics are reported in the result; the returned error is only for input the
// compiler refuses to look at.
func (compiler *Compiler) Compile(source string) (*Result, error) {
	if len(source) > compiler.limits.MaxSourceBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrSourceTooLarge, len(source), compiler.limits.MaxSourceBytes)
	}
	start := time.Now()
	result := newResult()

	logger.LogPhase("lexical")
	tokens, symbols, err := NewTokenizer().Tokenize(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	result.Tokens = append(result.Tokens, tokens...)
	result.SymbolTable, result.LexerSymbols = symbols, symbols
	logger.LogLexing(len(tokens), symbols.Len())

	logger.LogPhase("syntax")
	program, parseErrors := NewParser(compiler.limits).Parse(tokens)
	result.Ast = program
	result.ParseErrors = append(result.ParseErrors, parseErrors...)
	logger.LogPhaseComplete("syntax", len(parseErrors))
	if len(parseErrors) > 0 {
		logger.LogCompilerComplete(false, time.Since(start))
		return result, nil
	}

	logger.LogPhase("semantic")
	analyzer := NewSemanticAnalyzer()
	semanticErrors := analyzer.Analyze(program)
	result.SymbolTable = analyzer.SymbolTable()
	result.SemanticErrors = append(result.SemanticErrors, semanticErrors...)
	logger.LogPhaseComplete("semantic", len(semanticErrors))
	if len(semanticErrors) > 0 {
		logger.LogCompilerComplete(false, time.Since(start))
		return result, nil
	}

	logger.LogPhase("intermediate code generation")
	result.Code = NewCodeGenerator().Generate(program)
	result.ThreeAddressCode = Render(result.Code)
	logger.LogCodeGen(len(result.Code))

	logger.LogPhase("optimization")
	result.Optimized = NewOptimizer().Optimize(result.Code)
	result.OptimizedCode = Render(result.Optimized)

	logger.LogCompilerComplete(true, time.Since(start))
	return result, nil
}
