package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

const prefix = "cmd "

// ErrUsage wraps unknown commands, flag parse failures and bad arguments.
var ErrUsage = errors.New("usage")

// RunFunc runs a parsed command, writing any report to out.
type RunFunc func(out io.Writer) error

// Command is a subcommand. Setup defines flags on a fresh FlagSet for every run and
// returns the function to call once they are parsed, so values never leak between runs.
type Command struct {
	Name    string
	Summary string
	Setup   func(fs *flag.FlagSet) RunFunc
}

// Registry holds subcommands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns a registry with only the help command.
func NewRegistry() *Registry {
	r := &Registry{cmds: make(map[string]*Command)}
	r.Register("help", "list commands", func(fs *flag.FlagSet) RunFunc {
		return func(out io.Writer) error {
			for _, line := range r.Help() {
				fmt.Fprintln(out, line)
			}
			return nil
		}
	})
	return r
}

// Register adds a subcommand. name is the first token after "cmd" (e.g. "room").
func (r *Registry) Register(name, summary string, setup func(fs *flag.FlagSet) RunFunc) {
	r.cmds[name] = &Command{Name: name, Summary: summary, Setup: setup}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Help returns one line per command.
func (r *Registry) Help() []string {
	var lines []string
	for _, n := range r.Names() {
		lines = append(lines, fmt.Sprintf("cmd %s - %s", n, r.cmds[n].Summary))
	}
	return lines
}

// Parse interprets line as a terminal line. If line starts with "cmd " (case-sensitive),
// the rest is tokenized and returned with ok true. Otherwise nil, false. Single or double
// quotes group a token that contains spaces.
func Parse(line string) (args []string, ok bool) {
	if !strings.HasPrefix(line, prefix) {
		return nil, false
	}
	rest := strings.TrimSpace(line[len(prefix):])
	if rest == "" {
		return nil, true
	}
	return tokenize(rest), true
}

func tokenize(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
		open  bool
	)
	for _, c := range s {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			cur.WriteRune(c)
		case c == '"' || c == '\'':
			quote = c
			open = true
		case c == ' ' || c == '\t':
			if open {
				out = append(out, cur.String())
				cur.Reset()
				open = false
			}
		default:
			cur.WriteRune(c)
			open = true
		}
	}
	if open {
		out = append(out, cur.String())
	}
	return out
}

// Execute runs the subcommand in args[0] with args[1:] as flag/positional arguments.
// Returns an error for unknown command, parse error, or from the command itself.
// "--help" writes the command's flags to out.
func (r *Registry) Execute(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing subcommand", ErrUsage)
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: unknown command: %s", ErrUsage, name)
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	run := cmd.Setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			writeUsage(out, cmd, fs)
			return nil
		}
		return fmt.Errorf("%w: %s: %v", ErrUsage, name, err)
	}
	return run(out)
}

func writeUsage(out io.Writer, cmd *Command, fs *flag.FlagSet) {
	fmt.Fprintf(out, "cmd %s - %s\n", cmd.Name, cmd.Summary)
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(out, "  --%s  %s (default %q)\n", f.Name, f.Usage, f.DefValue)
	})
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
