package terminal

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a parsed terminal command.
type Op int

const (
	OpSubmit Op = iota
	OpResubmit
	OpLanguage
	OpLanguages
	OpHistory
	OpSelectHistory
	OpChip
	OpPlay
	OpMic
	OpClear
	OpCopy
	OpHelp
	OpQuit
)

// Command is one line of user input.
type Command struct {
	Op  Op
	Arg string
	N   int
}

const helpText = `Type a word and press Enter to look it up. Commands:
  :lang <code>   select the target language
  :langs         list languages
  :history       reload search history
  :h <n>         search history entry n
  :s <n>         search related word n
  :p [n]         play audio n (default 1)
  :mic           start or stop speech input
  :clear         clear search history
  :copy          copy word and translation
  :help          show this help
  :quit          exit
An empty line searches the current word again.`

// Parse interprets one input line.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Op: OpResubmit}, nil
	}
	if !strings.HasPrefix(line, ":") {
		return Command{Op: OpSubmit, Arg: line}, nil
	}

	name, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "lang":
		if arg == "" {
			return Command{}, fmt.Errorf("usage: :lang <code>")
		}
		return Command{Op: OpLanguage, Arg: arg}, nil
	case "langs":
		return Command{Op: OpLanguages}, nil
	case "history":
		return Command{Op: OpHistory}, nil
	case "h":
		n, err := index(arg, false)
		return Command{Op: OpSelectHistory, N: n}, err
	case "s":
		n, err := index(arg, false)
		return Command{Op: OpChip, N: n}, err
	case "p":
		n, err := index(arg, true)
		return Command{Op: OpPlay, N: n}, err
	case "mic":
		return Command{Op: OpMic}, nil
	case "clear":
		return Command{Op: OpClear}, nil
	case "copy":
		return Command{Op: OpCopy}, nil
	case "help", "?":
		return Command{Op: OpHelp}, nil
	case "quit", "q", "exit":
		return Command{Op: OpQuit}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %q, type :help", ":"+name)
	}
}

func index(arg string, optional bool) (int, error) {
	if arg == "" && optional {
		return 1, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive number, got %q", arg)
	}
	return n, nil
}
