package assembler_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/slowlang/uasm/assembler"
	"github.com/slowlang/uasm/assembler/asm"
	"github.com/slowlang/uasm/assembler/encode"
)

const sample = `# sample program
load r125 = 818

read r124 = [r2 + 28]
write [r58 + 44] = r79
  sgn [r161] -> [r346]   # addresses only
`

// bigProgram mixes every instruction with blank and comment lines.
// If bad > 0, that line (1-based) is replaced with an unknown command.
func bigProgram(n, bad int) []byte {
	var b strings.Builder

	for i := 1; i <= n; i++ {
		switch {
		case i == bad:
			fmt.Fprintf(&b, "jump r%d\n", i)
		case i%6 == 0:
			fmt.Fprintf(&b, "load r%d = %d\n", i%128, i*7)
		case i%6 == 1:
			fmt.Fprintf(&b, "read r%d = [r%d + %d]\n", i%100, i%50, i%64)
		case i%6 == 2:
			fmt.Fprintf(&b, "write [r%d + %d] = r%d\n", i%90, i%60, i%127)
		case i%6 == 3:
			fmt.Fprintf(&b, "sgn [r%d] -> [r%d + 1]\n", i, i*3)
		case i%6 == 4:
			fmt.Fprintf(&b, "# comment %d\n", i)
		default:
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

var _ = Describe("Assemble", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should encode instructions in source order", func() {
		obj, err := assembler.Assemble(ctx, "sample.asm", []byte(sample), assembler.Options{})
		Expect(err).NotTo(HaveOccurred())

		Expect(obj.Units).To(HaveLen(4))
		Expect(obj.Units[0].Instr).To(Equal(asm.Load{Dst: 125, Const: 818}))
		Expect(obj.Units[1].Instr).To(Equal(asm.Read{Dst: 124, Base: 2, Off: 28}))
		Expect(obj.Units[2].Instr).To(Equal(asm.Write{Src: 79, Base: 58, Off: 44}))
		Expect(obj.Units[3].Instr).To(Equal(asm.Sgn{Src: 161, Dst: 346}))

		Expect([]int{obj.Units[0].Line, obj.Units[1].Line, obj.Units[2].Line, obj.Units[3].Line}).
			To(Equal([]int{2, 4, 5, 6}))
		Expect(obj.Units[3].Text).To(Equal("sgn [r161] -> [r346]   # addresses only"))
	})

	It("should concatenate independent encodings", func() {
		obj, err := assembler.Assemble(ctx, "sample.asm", []byte(sample), assembler.Options{})
		Expect(err).NotTo(HaveOccurred())

		total := 0

		for _, u := range obj.Units {
			one, err := encode.Encode(nil, u.Instr)
			Expect(err).NotTo(HaveOccurred())

			Expect(u.Off).To(Equal(total))
			Expect(u.Code).To(Equal(one))
			Expect(obj.Code[u.Off : u.Off+len(one)]).To(Equal(one))

			total += encode.Size(u.Instr.Op())
		}

		Expect(obj.Code).To(HaveLen(total))
		Expect(total).To(Equal(6 + 4 + 4 + 8))
	})

	It("should give an empty object for a program without instructions", func() {
		obj, err := assembler.Assemble(ctx, "empty.asm", []byte("\n# nothing\n   \n"), assembler.Options{})
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.Units).To(BeEmpty())
		Expect(obj.Code).To(BeEmpty())
	})

	It("should stop at the first error", func() {
		text := "load r1 = 1\nload r2 = 2\njump r3\nload r200 = 1\n"

		obj, err := assembler.Assemble(ctx, "bad.asm", []byte(text), assembler.Options{})
		Expect(obj).To(BeNil())

		var lerr assembler.LineError
		Expect(errors.As(err, &lerr)).To(BeTrue())
		Expect(lerr.Line).To(Equal(3))
		Expect(lerr.Text).To(Equal("jump r3"))
		Expect(lerr.Err).To(Equal(asm.UnknownCommandError{Line: "jump r3"}))
		Expect(err.Error()).To(Equal("line 3: unknown command: jump r3"))
	})

	It("should point at the offending column", func() {
		text := "load r1 = 1\n  read r2 = r3\n"

		_, err := assembler.Assemble(ctx, "col.asm", []byte(text), assembler.Options{})

		var lerr assembler.LineError
		Expect(errors.As(err, &lerr)).To(BeTrue())
		Expect(lerr.Line).To(Equal(2))
		Expect(lerr.Col).To(Equal(13))
		Expect(err.Error()).To(HavePrefix("line 2:13: invalid read syntax: read r2 = r3"))
	})

	It("should reject values wider than their field", func() {
		for _, text := range []string{
			"load r1 = 1\nload r128 = 1\n",
			"load r1 = 1\nload r1 = 268435456\n",
			"load r1 = 1\nread r1 = [r2 + 64]\n",
			"load r1 = 1\nwrite [r2 + -1] = r3\n",
		} {
			obj, err := assembler.Assemble(ctx, "range.asm", []byte(text), assembler.Options{})
			Expect(obj).To(BeNil(), text)

			var lerr assembler.LineError
			Expect(errors.As(err, &lerr)).To(BeTrue(), text)
			Expect(lerr.Line).To(Equal(2), text)

			var oerr asm.OutOfRangeError
			Expect(errors.As(err, &oerr)).To(BeTrue(), text)
		}
	})

	It("should stop on canceled context", func() {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := assembler.Assemble(ctx, "sample.asm", []byte(sample), assembler.Options{})
		Expect(err).To(MatchError(context.Canceled))

		_, err = assembler.Assemble(ctx, "sample.asm", []byte(sample), assembler.Options{Workers: 4})
		Expect(err).To(MatchError(context.Canceled))
	})

	Context("with workers", func() {
		It("should produce the same object as a single worker", func() {
			text := bigProgram(1000, 0)

			seq, err := assembler.Assemble(ctx, "big.asm", text, assembler.Options{})
			Expect(err).NotTo(HaveOccurred())

			for _, w := range []int{2, 3, 8, 32} {
				par, err := assembler.Assemble(ctx, "big.asm", text, assembler.Options{Workers: w})
				Expect(err).NotTo(HaveOccurred())

				Expect(par.Code).To(Equal(seq.Code), "workers %d", w)
				Expect(par.Units).To(Equal(seq.Units), "workers %d", w)
			}
		})

		It("should report the same error as a single worker", func() {
			text := bigProgram(1000, 601)

			_, serr := assembler.Assemble(ctx, "big.asm", text, assembler.Options{})
			Expect(serr).To(HaveOccurred())

			for _, w := range []int{2, 8} {
				_, perr := assembler.Assemble(ctx, "big.asm", text, assembler.Options{Workers: w})
				Expect(perr).To(Equal(serr), "workers %d", w)
			}

			var lerr assembler.LineError
			Expect(errors.As(serr, &lerr)).To(BeTrue())
			Expect(lerr.Line).To(Equal(601))
		})
	})
})

var _ = Describe("Run", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockSink
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockSink(mockCtrl)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hand the whole object to the sink once", func() {
		obj, err := assembler.Assemble(ctx, "sample.asm", []byte(sample), assembler.Options{})
		Expect(err).NotTo(HaveOccurred())

		sink.EXPECT().WriteObject(gomock.Any(), obj.Code).Return(nil).Times(1)

		res, err := assembler.Run(ctx, "sample.asm", []byte(sample), assembler.Options{}, sink)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Code).To(Equal(obj.Code))
	})

	It("should not call the sink when assembly fails", func() {
		sink.EXPECT().WriteObject(gomock.Any(), gomock.Any()).Times(0)

		_, err := assembler.Run(ctx, "bad.asm", []byte("load r1 = 1\nload r999 = 1\n"), assembler.Options{}, sink)
		Expect(err).To(HaveOccurred())
	})

	It("should return sink errors", func() {
		sink.EXPECT().WriteObject(gomock.Any(), gomock.Any()).Return(os.ErrPermission)

		_, err := assembler.Run(ctx, "sample.asm", []byte(sample), assembler.Options{}, sink)
		Expect(err).To(MatchError(os.ErrPermission))
	})
})

var _ = Describe("FileSink", func() {
	It("should write the object", func() {
		name := filepath.Join(GinkgoT().TempDir(), "out.bin")

		err := assembler.FileSink{Name: name}.WriteObject(context.Background(), []byte{1, 2, 3})
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(name)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{1, 2, 3}))

		ents, err := os.ReadDir(filepath.Dir(name))
		Expect(err).NotTo(HaveOccurred())
		Expect(ents).To(HaveLen(1))
	})

	It("should leave nothing behind on failure", func() {
		dir := GinkgoT().TempDir()
		name := filepath.Join(dir, "missing", "out.bin")

		err := assembler.FileSink{Name: name}.WriteObject(context.Background(), []byte{1})
		Expect(err).To(HaveOccurred())

		ents, err := os.ReadDir(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(ents).To(BeEmpty())
	})
})

var _ = Describe("AssembleFile", func() {
	It("should read and assemble a file", func() {
		name := filepath.Join(GinkgoT().TempDir(), "sample.asm")
		Expect(os.WriteFile(name, []byte(sample), 0o644)).To(Succeed())

		obj, err := assembler.AssembleFile(context.Background(), name, assembler.Options{Workers: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(obj.Code).To(HaveLen(22))
	})

	It("should fail on a missing file", func() {
		_, err := assembler.AssembleFile(context.Background(), "/nonexistent/x.asm", assembler.Options{})
		Expect(err).To(MatchError(os.ErrNotExist))
	})
})

var _ = Describe("Lines", func() {
	It("should split on any line terminator", func() {
		lines, err := assembler.Lines([]byte("load r1 = 1\r\n\nsgn [r1] -> [r2]"))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(Equal([][]byte{[]byte("load r1 = 1"), {}, []byte("sgn [r1] -> [r2]")}))
	})
})
