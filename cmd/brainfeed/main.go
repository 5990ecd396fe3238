package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/brainfeed/brainfeed/pkg/bf"
	"github.com/brainfeed/brainfeed/pkg/compiler"
	"github.com/brainfeed/brainfeed/pkg/interpreter"
	"github.com/brainfeed/brainfeed/pkg/parser"
	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := &cli.Command{
		Name:  "brainfeed",
		Usage: "The brainfeed IR interpreter and Brainfuck compiler",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Evaluate a brainfeed program and print its final bindings",
				ArgsUsage: "FILE ('-' for stdin)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-steps",
						Usage: "abort after this many statement executions (0 = unlimited)",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: "text",
						Usage: "binding output format: text or yaml",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					source, err := readSource(c)
					if err != nil {
						return err
					}

					prog, err := parser.Parse(source)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}

					interp := interpreter.New(interpreter.Config{
						MaxSteps: int(c.Int("max-steps")),
					})

					env, err := interp.Evaluate(ctx, prog)
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}

					return printBindings(os.Stdout, env, c.String("format"))
				},
			},
			{
				Name:      "build",
				Usage:     "Compile a brainfeed program to Brainfuck",
				ArgsUsage: "FILE ('-' for stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write code to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "no-fold",
						Usage: "disable constant folding",
					},
					&cli.BoolFlag{
						Name:    "debug",
						Aliases: []string{"d"},
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					source, err := readSource(c)
					if err != nil {
						return err
					}

					prog, err := parser.Parse(source)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}

					logger := slog.Default()
					if c.Bool("debug") {
						logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
							Level: slog.LevelDebug,
						}))
					}

					comp, err := compiler.New(logger, compiler.Config{
						NoFold: c.Bool("no-fold"),
					})
					if err != nil {
						return fmt.Errorf("failed to initialize compiler: %w", err)
					}

					compiled, err := comp.Compile(ctx, prog)
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}

					if path := c.String("output"); path != "" {
						return os.WriteFile(path, []byte(compiled.Code+"\n"), 0o644)
					}

					fmt.Println(compiled.Code)
					return nil
				},
			},
			{
				Name:      "exec",
				Usage:     "Execute a Brainfuck file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-steps",
						Value: bf.DefaultMaxSteps,
						Usage: "abort after this many instructions (0 = unlimited)",
					},
					&cli.IntFlag{
						Name:  "dump",
						Usage: "print the first N tape cells after the run",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("must provide a brainfuck file as argument")
					}

					code, err := os.ReadFile(c.Args().First())
					if err != nil {
						return fmt.Errorf("failed to read file: %w", err)
					}

					vm := bf.NewVM()
					vm.SetMaxSteps(int(c.Int("max-steps")))
					vm.SetIO(os.Stdin, os.Stdout)

					if err := vm.Run(string(code)); err != nil {
						return cli.Exit(err.Error(), 2)
					}

					if n := int(c.Int("dump")); n > 0 {
						cells := make([]string, 0, n)
						for _, v := range vm.Mem()[:n] {
							cells = append(cells, strconv.Itoa(int(v)))
						}
						fmt.Println(strings.Join(cells, " "))
					}

					return nil
				},
			},
			{
				Name:  "repl",
				Usage: "Evaluate brainfeed statements interactively",
				Action: func(ctx context.Context, c *cli.Command) error {
					return runREPL(ctx)
				},
			},
		},
	}

	err := cmd.Run(ctx, os.Args)
	if err != nil {
		log.Fatalln(err)
	}
}

func readSource(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("must provide a brainfeed file (or '-') as argument")
	}

	path := c.Args().First()
	if path == "-" {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(source), nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(source), nil
}

func printBindings(w io.Writer, env *interpreter.Environment, format string) error {
	switch format {
	case "text":
		for _, b := range env.Bindings() {
			fmt.Fprintf(w, "%s=%d\n", b.Name, b.Value)
		}
		return nil
	case "yaml":
		// A mapping node rather than a map keeps first-declaration order.
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, b := range env.Bindings() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: string(b.Name)},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(b.Value, 10)},
			)
		}
		out, err := yaml.Marshal(node)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// runREPL reads statements line by line, holding input while braces are
// unbalanced so while/if blocks can span lines. Bindings persist across
// inputs.
func runREPL(ctx context.Context) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	interp := interpreter.New(interpreter.Config{})
	env := interpreter.NewEnvironment()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		if braceDepth(buf.String()) > 0 {
			rl.SetPrompt("... ")
			continue
		}
		rl.SetPrompt("> ")

		source := buf.String()
		buf.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		prog, err := parser.Parse(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if err := interp.Run(ctx, prog, env); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		for _, b := range env.Bindings() {
			fmt.Printf("%s=%d\n", b.Name, b.Value)
		}
	}
}

func braceDepth(source string) int {
	depth := 0
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}
