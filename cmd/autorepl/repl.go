package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	lua "github.com/yuin/gopher-lua"

	"github.com/lexlapax/autoobj/pkg/auto"
	"github.com/lexlapax/autoobj/pkg/scripting"
)

// Constants for the command-line interface
const (
	cmdHelp     = "!help"
	cmdQuit     = "!quit"
	cmdReserved = "!reserved"
	cmdClasses  = "!classes"
	cmdLoad     = "!load"
)

// Command-line help text
const helpText = `
autoobj REPL - Command Reference:
-----------------------------------------
!help                 - Show this help message
!reserved             - List names the interceptor never resolves
!classes              - List classes created in this session
!load <file>          - Run a Lua script file
!quit                 - Exit the application

Notes:
- Any other input is evaluated as Lua; expressions print their value
- Tab completion is available for commands
- Use up/down arrows for command history`

// historyFile is the file where command history is stored
const historyFile = ".autoobj_history"

const prompt = "auto> "

// session is one REPL run over a single engine.
type session struct {
	env    *auto.Environment
	engine *scripting.LuaEngine
	out    io.Writer
}

func (s *session) Close() {
	s.engine.Close()
}

// runStdin evaluates each line of r and returns at EOF or !quit.
func (s *session) runStdin(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") || strings.HasPrefix(input, "--") {
			continue
		}

		fmt.Fprint(s.out, prompt, input, "\n")
		if !s.processLine(input) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(s.out, "Error reading stdin: %v\n", err)
	}
}

func (s *session) runInteractive() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(false)
	line.SetCompleter(completer)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(s.out, "\n=== autoobj REPL ===")
	fmt.Fprintln(s.out, "Type !help for available commands.")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if !s.processLine(input) {
			return
		}
	}
}

func completer(line string) (c []string) {
	for _, cmd := range []string{cmdHelp, cmdQuit, cmdReserved, cmdClasses, cmdLoad} {
		if strings.HasPrefix(cmd, line) {
			c = append(c, cmd)
		}
	}
	return
}

// processLine handles one line of input and returns false when the REPL
// should exit.
func (s *session) processLine(input string) bool {
	if !strings.HasPrefix(input, "!") {
		s.eval(input)
		return true
	}

	parts := strings.SplitN(input, " ", 2)
	switch parts[0] {
	case cmdHelp:
		fmt.Fprintln(s.out, helpText)

	case cmdQuit:
		fmt.Fprintln(s.out, "Goodbye!")
		return false

	case cmdReserved:
		fmt.Fprintln(s.out, strings.Join(auto.ReservedNames(), " "))

	case cmdClasses:
		classes := s.env.Classes()
		if len(classes) == 0 {
			fmt.Fprintln(s.out, "No classes created yet.")
		}
		for _, c := range classes {
			fmt.Fprintf(s.out, "%s  %s\n", c.ID, c.Name)
		}

	case cmdLoad:
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			fmt.Fprintln(s.out, "Usage: !load <file>")
			break
		}
		if err := s.engine.LoadScriptFile(strings.TrimSpace(parts[1])); err != nil {
			s.printError(err)
			break
		}
		fmt.Fprintln(s.out, "Loaded.")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (try !help)\n", parts[0])
	}
	return true
}

func (s *session) eval(code string) {
	v, err := s.engine.Eval(context.Background(), code)
	if err != nil {
		s.printError(err)
		return
	}
	if v == lua.LNil {
		return
	}

	text, err := s.engine.Render(v)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintln(s.out, text)
}

func (s *session) printError(err error) {
	fmt.Fprintf(s.out, "error: %v\n", auto.ErrorFrom(err))
}
