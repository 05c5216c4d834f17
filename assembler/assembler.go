package assembler

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/uasm/assembler/analyze"
	"github.com/slowlang/uasm/assembler/asm"
	"github.com/slowlang/uasm/assembler/encode"
)

type (
	Options struct {
		// Workers > 1 parses and encodes lines concurrently.
		// The result is the same as with a single worker.
		Workers int
	}

	Object struct {
		Units []Unit
		Code  []byte
	}

	// Unit is an assembled source line.
	Unit struct {
		Line  int // 1-based
		Text  string
		Instr asm.Instr

		Off  int // in Object.Code
		Code []byte
	}

	LineError struct {
		Line int
		Col  int // 1-based, 0 if unknown
		Text string
		Err  error
	}

	srcLine struct {
		num  int
		text []byte
	}
)

func AssembleFile(ctx context.Context, name string, opts Options) (*Object, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Assemble(ctx, name, text, opts)
}

// Run assembles text and hands the object to sink.
// sink is not called if assembly fails.
func Run(ctx context.Context, name string, text []byte, opts Options, sink Sink) (*Object, error) {
	obj, err := Assemble(ctx, name, text, opts)
	if err != nil {
		return nil, err
	}

	err = sink.WriteObject(ctx, obj.Code)
	if err != nil {
		return nil, errors.Wrap(err, "write object")
	}

	return obj, nil
}

// Assemble translates the whole text.
// The first failing line is reported as LineError.
func Assemble(ctx context.Context, name string, text []byte, opts Options) (obj *Object, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "assemble", "name", name, "size", len(text), "workers", opts.Workers)
	defer tr.Finish("err", &err)

	lines, err := splitLines(text)
	if err != nil {
		return nil, errors.Wrap(err, "split lines")
	}

	if opts.Workers > 1 {
		obj, err = assembleParallel(ctx, lines, opts.Workers)
	} else {
		obj, err = assembleSeq(ctx, lines)
	}
	if err != nil {
		return nil, err
	}

	tr.Printw("assembled", "lines", len(lines), "instrs", len(obj.Units), "bytes", len(obj.Code))

	return obj, nil
}

func assembleSeq(ctx context.Context, lines []srcLine) (*Object, error) {
	obj := &Object{}

	for _, l := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, ok, err := assembleLine(ctx, l)
		if err != nil {
			return nil, err
		}

		if ok {
			obj.add(u)
		}
	}

	return obj, nil
}

// assembleLine returns ok == false for lines without an instruction.
func assembleLine(ctx context.Context, l srcLine) (u Unit, ok bool, err error) {
	text := string(bytes.TrimSpace(l.text))

	x, err := analyze.ParseLine(ctx, l.text)
	if err == nil && x != nil {
		u.Code, err = encode.Encode(nil, x)
	}
	if err != nil {
		e := LineError{Line: l.num, Text: text, Err: err}

		var serr asm.InvalidSyntaxError
		if errors.As(err, &serr) {
			e.Col = serr.Pos + 1
		}

		return u, false, e
	}

	if x == nil {
		return u, false, nil
	}

	u.Line = l.num
	u.Text = text
	u.Instr = x

	return u, true, nil
}

func (o *Object) add(u Unit) {
	u.Off = len(o.Code)

	o.Code = append(o.Code, u.Code...)
	o.Units = append(o.Units, u)
}

// Lines splits text into source lines without line terminators.
func Lines(text []byte) (lines [][]byte, err error) {
	s := bufio.NewScanner(bytes.NewReader(text))
	s.Buffer(make([]byte, 0, 4096), len(text)+1)

	for s.Scan() {
		lines = append(lines, bytes.Clone(s.Bytes()))
	}

	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "scanner")
	}

	return lines, nil
}

func splitLines(text []byte) ([]srcLine, error) {
	ls, err := Lines(text)
	if err != nil {
		return nil, err
	}

	lines := make([]srcLine, len(ls))

	for i, l := range ls {
		lines[i] = srcLine{num: i + 1, text: l}
	}

	return lines, nil
}

func (e LineError) Error() string {
	if e.Col != 0 {
		return fmt.Sprintf("line %d:%d: %v", e.Line, e.Col, e.Err)
	}

	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }
