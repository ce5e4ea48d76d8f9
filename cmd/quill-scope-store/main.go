package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/quill-lang/quill-scope/pkg/ast"
	"github.com/quill-lang/quill-scope/pkg/scope"
	"github.com/quill-lang/quill-scope/pkg/scopestore"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const usage = `quill-scope-store - maintains the SQLite scope-info cache used by lazy compilation`

func main() {
	var showHelp, showVersion, migrate, dump bool
	var storeFile, inputFile, unitName string

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nUsage:\n", usage)
		flag.PrintDefaults()
	}

	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")
	flag.BoolVar(&showVersion, "version", false, "Show version")
	flag.BoolVar(&migrate, "migrate", false, "Perform database migration")
	flag.BoolVar(&dump, "dump", false, "Print the cached ScopeInfo tree for --unit and exit")
	flag.StringVar(&storeFile, "store", "", "Store file path (required)")
	flag.StringVar(&inputFile, "input", "", "Input AST file to analyze and cache (defaults to stdin)")
	flag.StringVar(&unitName, "unit", "", "Source unit name, used as the cache key (required)")

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("quill-scope-store version %s\n", Version)
		os.Exit(0)
	}
	if storeFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --store flag is required\n")
		flag.Usage()
		os.Exit(1)
	}
	if unitName == "" {
		fmt.Fprintf(os.Stderr, "Error: --unit flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	_, err := os.Stat(storeFile)
	fileExists := err == nil

	store, err := scopestore.Open(storeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	upToDate, err := store.CheckMigration()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to check migration status: %v\n", err)
		os.Exit(1)
	}
	if !upToDate {
		if !fileExists {
			if err := store.Migrate(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to migrate store: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Store initialized successfully.\n")
		} else {
			if !migrate {
				fmt.Fprintf(os.Stderr, "Error: store schema is not up to date. Use --migrate to update.\n")
				os.Exit(1)
			}
			if err := store.Migrate(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to migrate store: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Store migration completed successfully.\n")
		}
	}

	if dump {
		infos, err := store.LoadTree(unitName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load tree for %s: %v\n", unitName, err)
			os.Exit(1)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(infos); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to encode tree: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var input io.Reader = os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile) // #nosec G304 - CLI tool reads user-specified input files
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	inputBytes, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read input: %v\n", err)
		os.Exit(1)
	}

	var program ast.Node
	if err := json.Unmarshal(inputBytes, &program); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to decode JSON: %v\n", err)
		os.Exit(1)
	}

	builder := ast.NewBuilder(ast.NewInterner())
	root, info, err := builder.Build(&program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to analyze scopes: %v\n", err)
		os.Exit(1)
	}
	_ = info

	if err := store.SaveTree(unitName, scope.EmitTree(root)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save tree: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Cached scope tree for %s successfully.\n", unitName)
}
