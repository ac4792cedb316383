// Package terminal is the line-oriented front end of the lookup client.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/gookit/color"

	"github.com/heartmarshall/wordlookup/internal/domain"
	"github.com/heartmarshall/wordlookup/internal/ui/history"
	"github.com/heartmarshall/wordlookup/internal/ui/orchestrator"
	"github.com/heartmarshall/wordlookup/internal/ui/render"
	"github.com/heartmarshall/wordlookup/internal/ui/search"
)

// WriteClipboard copies text to the system clipboard.
func WriteClipboard(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility found")
	}
	return clipboard.WriteAll(text)
}

type sprinter interface {
	Sprint(a ...any) string
}

func paint(p sprinter) func(string) string {
	return func(s string) string { return p.Sprint(s) }
}

// ColorStyle renders cards with terminal colours.
func ColorStyle() render.Style {
	return render.Style{
		Title:   paint(color.New(color.Bold, color.FgCyan)),
		Heading: paint(color.New(color.Bold, color.FgYellow)),
		Muted:   paint(color.Gray),
		Accent:  paint(color.Green),
		Error:   paint(color.Red),
	}
}

// Terminal writes client output as text. It implements orchestrator.View.
type Terminal struct {
	out   io.Writer
	style render.Style
	log   *slog.Logger

	mu        sync.Mutex
	quiet     bool
	languages []domain.Language
	form      orchestrator.Form
}

var _ orchestrator.View = (*Terminal)(nil)

// New creates a Terminal writing to out. Colour is used when colored is set.
func New(out io.Writer, colored bool, logger *slog.Logger) *Terminal {
	style := render.Style{}
	if colored {
		style = ColorStyle()
	}
	return &Terminal{
		out:   out,
		style: style,
		log:   logger.With("component", "terminal"),
	}
}

// SetQuiet suppresses progress and history output, leaving results, errors
// and notices. One-shot lookups use it.
func (t *Terminal) SetQuiet(quiet bool) {
	t.mu.Lock()
	t.quiet = quiet
	t.mu.Unlock()
}

func (t *Terminal) isQuiet() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quiet
}

func (t *Terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) muted(s string) string {
	if t.style.Muted == nil {
		return s
	}
	return t.style.Muted(s)
}

// ShowLoading prints a progress line when a search starts.
func (t *Terminal) ShowLoading(on bool) {
	if on && !t.isQuiet() {
		t.printf("%s\n", t.muted("Searching..."))
	}
}

// ClearResult is a no-op; a new result is printed below the old one.
func (t *Terminal) ClearResult() {}

// ShowResult prints a result card.
func (t *Terminal) ShowResult(card *render.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out)
	if err := render.Text(t.out, card, t.style); err != nil {
		t.log.Warn("write result failed", slog.String("error", err.Error()))
	}
	fmt.Fprintln(t.out)
}

// ShowError prints a single-line error in place of a result.
func (t *Terminal) ShowError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	render.Text(t.out, render.ErrorNode(msg), t.style)
}

// ShowHistory prints the numbered history list.
func (t *Terminal) ShowHistory(rows []history.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quiet {
		return
	}

	fmt.Fprintln(t.out, "History:")
	for i, r := range rows {
		if r.Placeholder {
			fmt.Fprintf(t.out, "  %s\n", t.muted(r.Label))
			continue
		}
		fmt.Fprintf(t.out, "  %2d. %s → %s  %s\n", i+1, r.Label, strings.ToUpper(r.Entry.TargetLanguage), t.muted(r.Time))
	}
}

// Notice prints a message the user must see.
func (t *Terminal) Notice(msg string) {
	t.printf("! %s\n", msg)
}

// ShowRecording prints the microphone state.
func (t *Terminal) ShowRecording(on bool) {
	if on {
		t.printf("● Listening... (:mic to stop)\n")
		return
	}
	t.printf("%s\n", t.muted("Microphone off"))
}

// ShowLanguages remembers the options for :langs.
func (t *Terminal) ShowLanguages(options []domain.Language) {
	t.mu.Lock()
	t.languages = options
	t.mu.Unlock()
}

// ShowForm remembers the input state for the prompt.
func (t *Terminal) ShowForm(word, lang string) {
	t.mu.Lock()
	t.form = orchestrator.Form{Word: word, Language: lang}
	t.mu.Unlock()
}

func (t *Terminal) prompt() {
	t.mu.Lock()
	lang := t.form.Language
	t.mu.Unlock()
	t.printf("[%s] > ", lang)
}

func (t *Terminal) printLanguages(current string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, l := range t.languages {
		mark := " "
		if l.Code == current {
			mark = "*"
		}
		fmt.Fprintf(t.out, " %s %-6s %s\n", mark, l.Code, l.Name)
	}
}

// commander is the set of user commands the terminal dispatches.
type commander interface {
	Init(ctx context.Context)
	Go(ctx context.Context, fn func(ctx context.Context))
	Wait()
	Form() orchestrator.Form
	Submit(ctx context.Context, word string) search.Outcome
	SetLanguage(code string) error
	RefreshHistory(ctx context.Context) error
	SelectHistory(ctx context.Context, n int) (search.Outcome, error)
	ActivateChip(ctx context.Context, n int) (search.Outcome, error)
	Play(ctx context.Context, n int) error
	ToggleMic(ctx context.Context)
	ClearHistory(ctx context.Context) error
	Copy() (string, error)
}

// Run reads commands from in until :quit, EOF or ctx is done. Network
// commands run in the background so input stays responsive.
func (t *Terminal) Run(ctx context.Context, o commander, in io.Reader) error {
	o.Init(ctx)
	t.printf("Type :help for commands.\n")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	defer o.Wait()
	for {
		t.prompt()
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := t.dispatch(ctx, o, line); quit {
				return nil
			}
		}
	}
}

// dispatch runs one input line and reports whether the loop should stop.
func (t *Terminal) dispatch(ctx context.Context, o commander, line string) bool {
	cmd, err := Parse(line)
	if err != nil {
		t.Notice(err.Error())
		return false
	}

	switch cmd.Op {
	case OpSubmit:
		o.Go(ctx, func(ctx context.Context) { o.Submit(ctx, cmd.Arg) })
	case OpResubmit:
		if word := o.Form().Word; word != "" {
			o.Go(ctx, func(ctx context.Context) { o.Submit(ctx, word) })
		}
	case OpLanguage:
		if err := o.SetLanguage(cmd.Arg); err != nil {
			t.Notice(err.Error())
		}
	case OpLanguages:
		t.printLanguages(o.Form().Language)
	case OpHistory:
		o.Go(ctx, func(ctx context.Context) { _ = o.RefreshHistory(ctx) })
	case OpSelectHistory:
		o.Go(ctx, func(ctx context.Context) {
			if _, err := o.SelectHistory(ctx, cmd.N); err != nil {
				t.Notice(err.Error())
			}
		})
	case OpChip:
		o.Go(ctx, func(ctx context.Context) {
			if _, err := o.ActivateChip(ctx, cmd.N); err != nil {
				t.Notice(err.Error())
			}
		})
	case OpPlay:
		o.Go(ctx, func(ctx context.Context) { _ = o.Play(ctx, cmd.N) })
	case OpMic:
		o.ToggleMic(ctx)
	case OpClear:
		o.Go(ctx, func(ctx context.Context) { _ = o.ClearHistory(ctx) })
	case OpCopy:
		if text, err := o.Copy(); err != nil {
			t.Notice(err.Error())
		} else {
			t.printf("Copied: %s\n", text)
		}
	case OpHelp:
		t.printf("%s\n", helpText)
	case OpQuit:
		return true
	}
	return false
}
