// Command srngexplore is a development aid for the compiler: it loads a
// schema, compiles it once, and lets a developer interactively walk the
// resulting automaton state by state — following attribute and child
// transitions exactly as the (unimplemented) validator would, to sanity
// check the tables srng2tab would emit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/client9/srng2tab/automaton"
	"github.com/client9/srng2tab/pattern"
	"github.com/client9/srng2tab/schema"
)

func main() {
	srngPath := flag.String("srng", "", "path to the RELAX NG simple-syntax schema (required)")
	flag.Parse()

	if *srngPath == "" {
		fmt.Fprintln(os.Stderr, "usage: srngexplore --srng=<path>")
		os.Exit(1)
	}

	start := time.Now()
	pc := pattern.NewContext()
	sch, err := schema.LoadFile(*srngPath, pc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "srngexplore: %v\n", err)
		os.Exit(1)
	}
	tbl, err := automaton.BuildTables(pc, sch.Defines)
	if err != nil {
		fmt.Fprintf(os.Stderr, "srngexplore: %v\n", err)
		os.Exit(1)
	}
	log.Printf("loaded %s in %g ms (%d states)", *srngPath, 1000.0*float64(time.Since(start))/1.0e9, len(tbl.States)-1)

	e := &explorer{
		tbl:     tbl,
		input:   os.Stdin,
		output:  os.Stdout,
		prompt:  "srngexplore> ",
		current: 0,
	}
	if err := e.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "srngexplore: %v\n", err)
		os.Exit(1)
	}
}

// explorer is the REPL state: the compiled tables plus whichever state
// id the developer last navigated to.
type explorer struct {
	tbl     *automaton.Tables
	input   io.Reader
	output  io.Writer
	prompt  string
	current int
}

func (e *explorer) isInteractive() bool {
	if e.input == os.Stdin {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return false
}

func (e *explorer) Run() error {
	if e.isInteractive() {
		return e.runInteractive()
	}
	scanner := bufio.NewScanner(e.input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !e.processLine(line) {
			return nil
		}
	}
	return scanner.Err()
}

func (e *explorer) runInteractive() error {
	rl := readline.NewInstance()
	for {
		rl.SetPrompt(e.prompt)
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !e.processLine(line) {
			return nil
		}
	}
}

// processLine dispatches one command; returns false to stop the loop.
func (e *explorer) processLine(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":quit", ":q":
		return false

	case ":help":
		e.printHelp()

	case ":names":
		e.printNames()

	case ":go":
		if len(args) != 2 {
			fmt.Fprintln(e.output, "usage: :go <namespace> <localname>   (use \"\" for no namespace)")
			return true
		}
		ns := args[0]
		if ns == `""` {
			ns = ""
		}
		byLocal, ok := e.tbl.NameMap[ns]
		if !ok {
			fmt.Fprintf(e.output, "no elements in namespace %q\n", ns)
			return true
		}
		id, ok := byLocal[args[1]]
		if !ok {
			fmt.Fprintf(e.output, "no element %q in namespace %q\n", args[1], ns)
			return true
		}
		e.current = id
		e.printCurrent()

	case ":attr":
		if len(args) != 1 {
			fmt.Fprintln(e.output, "usage: :attr <attribute-key>")
			return true
		}
		st := e.tbl.States[e.current]
		if st == nil {
			fmt.Fprintln(e.output, "no current state; use :go first")
			return true
		}
		next, ok := st.Attributes[args[0]]
		if !ok {
			fmt.Fprintf(e.output, "no attribute transition for %q\n", args[0])
			return true
		}
		e.current = next
		e.printCurrent()

	case ":child":
		if len(args) != 1 {
			fmt.Fprintln(e.output, "usage: :child <child-start-state-id>")
			return true
		}
		childID, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(e.output, "not a state id: %q\n", args[0])
			return true
		}
		st := e.tbl.States[e.current]
		if st == nil {
			fmt.Fprintln(e.output, "no current state; use :go first")
			return true
		}
		next, ok := st.ChildElems[strconv.Itoa(childID)]
		if !ok {
			fmt.Fprintf(e.output, "no child transition for state id %d\n", childID)
			return true
		}
		e.current = next
		e.printCurrent()

	case ":show":
		e.printCurrent()

	default:
		fmt.Fprintf(e.output, "unknown command %q; type :help\n", cmd)
	}
	return true
}

func (e *explorer) printHelp() {
	fmt.Fprint(e.output, `Commands:
  :go <ns> <local>    jump to the start state for an element name
  :attr <key>         follow an attribute transition from the current state
  :child <state-id>   follow a child transition keyed by the child's start-state id
  :show               print the current state
  :names              list every (namespace, localname) in NameMap
  :quit               exit
`)
}

func (e *explorer) printNames() {
	for ns, byLocal := range e.tbl.NameMap {
		for local, id := range byLocal {
			fmt.Fprintf(e.output, "  {%s}%s -> state %d\n", ns, local, id)
		}
	}
}

func (e *explorer) printCurrent() {
	st := e.tbl.States[e.current]
	if st == nil {
		fmt.Fprintf(e.output, "state %d: <none>\n", e.current)
		return
	}
	fmt.Fprintf(e.output, "state %d: IsNullable=%v Attributes=%v ChildElems=%v\n",
		e.current, st.IsNullable, st.Attributes, st.ChildElems)
}
