// Package interactive provides the readline shell of procctl.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/GriffinCanCode/procintf/internal/domain/access"
	"github.com/GriffinCanCode/procintf/internal/domain/endpoint"
)

// Client is the subset of the procintf client the shell drives
type Client interface {
	Read(ctx context.Context, name string) (string, error)
	Write(ctx context.Context, name, value string) (int, error)
	List(ctx context.Context) ([]access.NodeInfo, error)
}

// Shell is an interactive session against one container
type Shell struct {
	client Client
	rl     *readline.Instance
	out    io.Writer
}

var endpointNames = []string{
	endpoint.PrimaryConfig,
	endpoint.ShowPageOffset,
	endpoint.ShowContext,
	endpoint.DebugLevel,
}

// New creates a shell with line editing and completion of endpoint names.
func New(client Client, container string) (*Shell, error) {
	names := make([]readline.PrefixCompleterInterface, 0, len(endpointNames))
	for _, n := range endpointNames {
		names = append(names, readline.PcItem(n))
	}
	completer := readline.NewPrefixCompleter(
		readline.PcItem("ls"),
		readline.PcItem("cat", names...),
		readline.PcItem("write", names...),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          container + "> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{client: client, rl: rl, out: rl.Stdout()}, nil
}

// Run reads commands until EOF, "exit" or ctx ends.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}
		if quit := s.Exec(ctx, line); quit {
			return
		}
	}
}

// Exec runs one command line and reports whether the session should end.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "ls", "l":
		s.cmdList(ctx)

	case "cat", "c":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "usage: cat <endpoint>")
			return false
		}
		out, err := s.client.Read(ctx, args[0])
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		fmt.Fprint(s.out, out)

	case "write", "w":
		if len(args) < 2 {
			fmt.Fprintln(s.out, "usage: write <endpoint> <value>")
			return false
		}
		n, err := s.client.Write(ctx, args[0], strings.Join(args[1:], " ")+"\n")
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			return false
		}
		fmt.Fprintf(s.out, "%d bytes written\n", n)

	case "exit", "quit", "q":
		return true

	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

func (s *Shell) cmdList(ctx context.Context) {
	nodes, err := s.client.List(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	for _, n := range nodes {
		fmt.Fprintf(s.out, "%-6s %-10s %s\n", n.Mode, n.Capability, n.Path)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  ls                        list access points
  cat <endpoint>            show an endpoint
  write <endpoint> <value>  apply a value (newline appended)
  help                      this text
  exit                      leave the shell
`)
}
