package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	pflag "github.com/spf13/pflag"

	"github.com/quill-lang/quill-scope/pkg/ast"
	"github.com/quill-lang/quill-scope/pkg/config"
	"github.com/quill-lang/quill-scope/pkg/scopeprint"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `quill-scope - scope analysis for an ECMAScript-family compiler

This tool reads a program AST (a Node tree) in JSON format, builds and
resolves its scope tree, allocates variable storage, and prints the
result:
  - Every declared local's mode and final storage location (json and
    ascii; json also gives its kind)
  - Each scope's stack and heap slot counts (0 heap slots: no runtime
    context)
With --store, the serialized scope info of every scope is also cached
for lazy compilation of inner functions.

Usage:
  quill-scope [options]

Options:
`

func main() {
	var showHelp, showVersion bool
	var inputFile, outputFile, configFile, format, unitName, storePath string

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", usage)
		pflag.PrintDefaults()
	}

	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.BoolVar(&showVersion, "version", false, "Show version")
	pflag.StringVarP(&inputFile, "input", "i", "", "Input AST file (defaults to stdin)")
	pflag.StringVarP(&outputFile, "output", "o", "", "Output file (defaults to stdout)")
	pflag.StringVarP(&configFile, "config", "c", "", "YAML options file")
	pflag.StringVarP(&format, "format", "f", "", "Print format: json, dot, or ascii (overrides config)")
	pflag.StringVar(&unitName, "unit", "stdin", "Source unit name, used as the cache key")
	pflag.StringVar(&storePath, "store", "", "SQLite cache path (overrides config, empty disables caching)")

	pflag.Parse()

	if showHelp {
		pflag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("quill-scope version %s\n", Version)
		os.Exit(0)
	}
	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected positional arguments. Use --input and --output flags instead.\n\n")
		pflag.Usage()
		os.Exit(1)
	}

	opts := config.Default()
	if configFile != "" {
		loaded, err := config.LoadAnalyzerOptions(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		opts = loaded
	}
	if format != "" {
		opts.PrintFormat = format
	}
	if storePath != "" {
		opts.StorePath = storePath
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var input io.Reader = os.Stdin
	if inputFile != "" {
		file, err := os.Open(inputFile) // #nosec G304 - CLI tool reads user-specified input files
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	inputBytes, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	var program ast.Node
	if err := json.Unmarshal(inputBytes, &program); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
		os.Exit(1)
	}
	if opts.DefaultLanguageMode == "strict" && program.Options[ast.OptionStrict] == "" {
		if program.Options == nil {
			program.Options = map[string]string{}
		}
		program.Options[ast.OptionStrict] = "true"
	}

	builder := ast.NewBuilder(ast.NewInterner())
	root, _, err := builder.Build(&program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing scopes: %v\n", err)
		os.Exit(1)
	}

	if opts.StorePath != "" {
		if err := cacheTree(opts.StorePath, unitName, root); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache scope tree: %v\n", err)
		}
	}

	var output io.Writer = os.Stdout
	if outputFile != "" {
		file, err := os.Create(outputFile) // #nosec G304 - CLI tool writes to user-specified output files
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		output = file
	}

	switch opts.PrintFormat {
	case "dot":
		scopeprint.PrintDOT(root, output)
	case "json":
		if err := scopeprint.PrintJSON(root, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing scope tree: %v\n", err)
			os.Exit(1)
		}
	default:
		scopeprint.PrintAsciiTree(root, output)
	}
}
