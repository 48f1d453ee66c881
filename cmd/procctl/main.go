package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/GriffinCanCode/procintf/cmd/procctl/interactive"
	"github.com/GriffinCanCode/procintf/internal/client"
	"github.com/GriffinCanCode/procintf/internal/domain/access"
)

func main() {
	def := client.DefaultConfig()

	server := flag.String("server", def.BaseURL, "Server base URL")
	container := flag.String("container", def.Container, "Access point container")
	uid := flag.Int64("uid", -1, "Caller uid (default: server default)")
	gid := flag.Int64("gid", -1, "Caller gid (default: same as uid)")
	timeout := flag.Duration("timeout", def.Timeout, "Request timeout")
	noNewline := flag.Bool("n", false, "Do not append a newline to written values")
	flag.Usage = usage
	flag.Parse()

	cfg := def
	cfg.BaseURL = *server
	cfg.Container = *container
	cfg.Timeout = *timeout
	if *uid >= 0 {
		g := *gid
		if g < 0 {
			g = *uid
		}
		cfg.Caller = &access.Caller{UID: uint32(*uid), GID: uint32(g)}
	}
	c := client.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(ctx, c, cfg, args, !*noNewline); err != nil {
		fmt.Fprintf(os.Stderr, "procctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cfg client.Config, args []string, newline bool) error {
	switch cmd, rest := args[0], args[1:]; cmd {
	case "ls":
		nodes, err := c.List(ctx)
		if err != nil {
			return err
		}
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
		for _, n := range nodes {
			fmt.Printf("%-6s %-10s %s\n", n.Mode, n.Capability, n.Path)
		}

	case "cat":
		if len(rest) == 0 {
			return errors.New("usage: cat <endpoint>...")
		}
		for _, name := range rest {
			out, err := c.Read(ctx, name)
			if err != nil {
				return err
			}
			fmt.Print(out)
		}

	case "write":
		if len(rest) < 2 {
			return errors.New("usage: write <endpoint> <value>")
		}
		value := strings.Join(rest[1:], " ")
		if newline {
			value += "\n"
		}
		if _, err := c.Write(ctx, rest[0], value); err != nil {
			return err
		}

	case "health":
		hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		status, err := c.Health(hctx)
		if err != nil {
			return err
		}
		fmt.Println(status)

	case "shell":
		sh, err := interactive.New(c, cfg.Container)
		if err != nil {
			return err
		}
		sh.Run(ctx)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: procctl [flags] <command> [args]

Commands:
  ls                        list access points
  cat <endpoint>...         show endpoints
  write <endpoint> <value>  apply a value
  health                    server health
  shell                     interactive session

Flags:
`)
	flag.PrintDefaults()
}
