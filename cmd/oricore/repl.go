package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// runREPL starts an interactive loop over the four demo commands, reusing
// the same readline/history setup the teacher's language REPL uses.
func runREPL() {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".oricore_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(input string) (c []string) {
		for _, cmd := range []string{"canon", "arc", "match", "query", "help", "quit"} {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Printf("%s %s - middle-end dev driver\n", bold("oricore"), bold(Version))
	fmt.Println("Type :help for commands, :quit to exit")
	fmt.Println()

	for {
		input, err := line.Prompt("oricore> ")
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch input {
		case "quit", ":quit", ":q":
			fmt.Println(green("Goodbye!"))
			if f, err := os.Create(historyFile); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
			return
		case "help", ":help":
			printHelp()
		case "canon":
			runCanonDemo()
		case "arc":
			runArcDemo()
		case "match":
			runMatchDemo()
		case "query":
			runQueryDemo(false)
		default:
			fmt.Fprintf(os.Stderr, "%s: unknown command %q (try :help)\n", yellow("Warning"), input)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}
