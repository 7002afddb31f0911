// Command oricore is the middle-end's dev driver: it exercises each
// subsystem (CanIR, ARC analysis, the match compiler, the query engine)
// against small hand-built fixtures and prints what each stage produced.
// It is not a language front end — there is no lexer, parser, or
// evaluator here, only the pipeline stages this module actually owns.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Version info, set by ldflags during build.
	Version = "dev"
	Commit  = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose stage logging")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "canon":
		runCanonDemo()
	case "arc":
		runArcDemo()
	case "match":
		runMatchDemo()
	case "query":
		runQueryDemo(*verboseFlag)
	case "repl":
		runREPL()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("oricore %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("oricore - middle-end dev driver"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  oricore <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s     Build and hash a sample CanIR tree\n", cyan("canon"))
	fmt.Printf("  %s       Classify, drop-synthesize, borrow-infer and RC-insert a sample function\n", cyan("arc"))
	fmt.Printf("  %s     Compile and evaluate a sample decision tree\n", cyan("match"))
	fmt.Printf("  %s     Run the incremental query engine and artifact cache over a sample source\n", cyan("query"))
	fmt.Printf("  %s      Interactive driver over all four subsystems\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
	fmt.Println("  --verbose   Enable verbose stage logging (query command)")
}
