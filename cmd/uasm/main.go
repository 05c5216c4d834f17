package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/uasm/assembler"
	"github.com/slowlang/uasm/assembler/format"
	"github.com/slowlang/uasm/assembler/parse"
)

func main() {
	asmCmd := &cli.Command{
		Name:        "asm",
		Description: "assemble <input> into binary <output>",
		Action:      asmAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("test", false, "print every instruction after assembling"),
			cli.NewFlag("dump", "fields", "--test output format: fields, hex, listing"),
			cli.NewFlag("workers", 1, "parse and encode lines concurrently"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print syntax nodes of the input files",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "uasm",
		Description: "uasm is an assembler for a four instruction virtual machine",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			asmCmd,
			parseCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	var w io.Writer = os.Stderr

	if name := c.String("log"); name != "" && name != "stderr" {
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}

		w = f
	}

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func asmAct(c *cli.Command) (err error) {
	if len(c.Args) != 2 {
		return errors.New("usage: uasm asm <input.asm> <output.bin> [--test]")
	}

	input, output := c.Args[0], c.Args[1]

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	dump := c.String("dump")
	switch dump {
	case "fields", "hex", "listing":
	default:
		return errors.New("unsupported dump format: %v", dump)
	}

	text, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	opts := assembler.Options{
		Workers: c.Int("workers"),
	}

	obj, err := assembler.Run(ctx, input, text, opts, assembler.FileSink{Name: output})
	if err != nil {
		var lerr assembler.LineError
		if errors.As(err, &lerr) {
			fmt.Fprintf(os.Stderr, "%s\n", diagnostic(lerr))

			os.Exit(1)
		}

		return errors.Wrap(err, "assemble %v", input)
	}

	if c.Bool("test") {
		fmt.Print(dumpObject(obj, dump))
	}

	tlog.Printw("assembled", "input", input, "output", output, "instrs", len(obj.Units), "bytes", len(obj.Code))

	return nil
}

func diagnostic(e assembler.LineError) string {
	if e.Col != 0 {
		return fmt.Sprintf("Error on line %d, column %d: %v", e.Line, e.Col, e.Err)
	}

	return fmt.Sprintf("Error on line %d: %v", e.Line, e.Err)
}

func dumpObject(obj *assembler.Object, dump string) string {
	if dump == "listing" {
		rows := make([]format.Row, len(obj.Units))

		for i, u := range obj.Units {
			rows[i] = format.Row{Line: u.Line, Off: u.Off, Code: u.Code, Text: u.Text}
		}

		return format.Listing(rows) + "\n"
	}

	var b []byte

	for _, u := range obj.Units {
		if dump == "hex" {
			b = format.Hex(b, u.Code)
		} else {
			b = format.Fields(b, u.Instr)
		}

		b = append(b, '\n')
	}

	return string(b)
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		lines, err := assembler.Lines(text)
		if err != nil {
			return errors.Wrap(err, "split %v", a)
		}

		for i, l := range lines {
			x, err := parse.ParseLine(ctx, l)
			if err != nil {
				return errors.Wrap(err, "%v:%d", a, i+1)
			}

			if x == nil {
				continue
			}

			fmt.Printf("%v:%d: %+v\n", a, i+1, x)
		}
	}

	return nil
}
