package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"simplelang/compiler/internal"
	"simplelang/logger"
	"strings"
	"syscall"
)

// A compiler for SimpleLang. It reads a program from the file given as the first argument, or
// from stdin, and prints what every phase produced. With -serve it runs as an http service
// instead, and with -ir it only optimizes an existing three-address code listing.

var (
	serveAddr          = flag.String("serve", "", "run the compile service on this address, e.g. :8080")
	irOnly             = flag.Bool("ir", false, "treat the input as a three-address code listing and only optimize it")
	outputPath         = flag.String("o", "", "write the optimized code to this path")
	verbose            = flag.Bool("v", false, "whether print the syntax tree and the final symbol table")
	logLevel           = flag.String("log-level", "warn", "log level: debug, info, warn or error")
	logFormat          = flag.String("log-format", "text", "log format: text or json")
	logFile            = flag.String("log-file", "", "append logs to this file instead of stderr")
	maxSourceBytes     = flag.Int("max-source-bytes", internal.DefaultLimits().MaxSourceBytes, "the largest source accepted")
	maxDepth           = flag.Int("max-depth", internal.DefaultLimits().MaxNestingDepth, "the deepest nesting of blocks and parentheses")
	maxErrors          = flag.Int("max-errors", internal.DefaultLimits().MaxErrors, "stop parsing after this many syntax errors")
	maxExpressionNodes = flag.Int("max-expression-nodes", internal.DefaultLimits().MaxExpressionNodes, "the most operators one statement's expressions may hold")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if err := setupLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: %v\n", err)
		return 2
	}
	defer logger.Close()
	compiler := internal.NewCompiler(internal.Limits{
		MaxSourceBytes:     *maxSourceBytes,
		MaxNestingDepth:    *maxDepth,
		MaxErrors:          *maxErrors,
		MaxExpressionNodes: *maxExpressionNodes,
	})

	if *serveAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := internal.NewService(compiler).Serve(ctx, *serveAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[Compiler]: service stopped, err: %v\n", err)
			return 1
		}
		return 0
	}

	input, name, err := openInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to open input: %s, err: %v\n", name, err)
		return 2
	}
	defer input.Close()

	if *irOnly {
		return optimizeListing(input, name)
	}
	return compileSource(compiler, input, name)
}

func setupLogger() error {
	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	cfg := logger.DefaultConfig()
	cfg.Level = level
	cfg.Format = *logFormat
	cfg.LogFile = *logFile
	return logger.Init(cfg)
}

func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(args[0])
	return f, args[0], err
}

func compileSource(compiler *internal.Compiler, input io.Reader, name string) int {
	// One byte over the limit is enough for Compile to refuse it.
	source, err := io.ReadAll(io.LimitReader(input, int64(compiler.Limits().MaxSourceBytes)+1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to read: %s, err: %v\n", name, err)
		return 2
	}
	result, err := compiler.Compile(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to compile: %s, err: %v\n", name, err)
		return 2
	}
	internal.WriteReport(os.Stdout, result, *verbose)
	if !result.Success() {
		return 1
	}
	if err := saveCode(result.OptimizedCode); err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to save to path: %s, err: %v\n", *outputPath, err)
		return 2
	}
	return 0
}

func optimizeListing(input io.Reader, name string) int {
	code, err := internal.ReadInstructions(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to read listing: %s, err: %v\n", name, err)
		return 1
	}
	optimized := internal.Render(internal.NewOptimizer().Optimize(code))
	if *outputPath == "" || *verbose {
		internal.WriteCode(os.Stdout, optimized, "")
	}
	if err := saveCode(optimized); err != nil {
		fmt.Fprintf(os.Stderr, "[Compiler]: failed to save to path: %s, err: %v\n", *outputPath, err)
		return 2
	}
	return 0
}

func saveCode(lines []string) error {
	if *outputPath == "" {
		return nil
	}
	var content strings.Builder
	internal.WriteCode(&content, lines, "")
	return os.WriteFile(*outputPath, []byte(content.String()), 0644)
}
