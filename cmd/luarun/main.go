package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/lua-runtime/engine"
	"github.com/wippyai/lua-runtime/runtime"
	"github.com/wippyai/lua-runtime/stack"
	"github.com/wippyai/lua-runtime/uuid"
)

func main() {
	var (
		code        = flag.String("e", "", "Execute code and exit")
		interactive = flag.Bool("i", false, "Enter the prompt after running the script")
		libraries   = flag.String("libs", "", "Standard libraries to open, comma-separated (default: all)")
		debug       = flag.Bool("debug", false, "Verbose bridge logging to stderr")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		engine.SetLogger(logger)
		engine.SetDebug(true)
	}

	if err := run(*code, *libraries, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run picks the execution mode: -e code, a script file, the interactive
// prompt on a terminal, or a chunk piped through stdin.
func run(code, libraries string, interactive bool, args []string) error {
	rt := runtime.New()
	defer rt.Close()

	if err := openLibraries(rt, libraries); err != nil {
		return err
	}
	if err := uuid.Install(rt); err != nil {
		return err
	}

	if code != "" {
		return rt.Do(code)
	}

	if len(args) > 0 {
		if err := runScript(rt, args); err != nil {
			return err
		}
		if interactive {
			return runInteractive(rt)
		}
		return nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runInteractive(rt)
	}
	return rt.DoReader(os.Stdin)
}

func openLibraries(rt *runtime.Runtime, libraries string) error {
	if libraries == "" {
		return rt.OpenLibraries()
	}
	var names []string
	for _, name := range strings.Split(libraries, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return rt.OpenLibraries(names...)
}

// runScript executes args[0] as a Lua file with the rest bound to the
// conventional arg table: the script name at index 0, arguments from 1.
func runScript(rt *runtime.Runtime, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	code := string(src)
	if strings.HasPrefix(code, "#") {
		// A shebang line is executable convention, not Lua. Keep the
		// newline so reported line numbers stay right.
		if i := strings.IndexByte(code, '\n'); i >= 0 {
			code = code[i:]
		} else {
			code = ""
		}
	}

	argTable := stack.NewTable(rt)
	for i, a := range args {
		if err := argTable.RawSet(i, a); err != nil {
			return err
		}
	}
	rt.Set("arg", argTable)

	return rt.Do(code)
}
