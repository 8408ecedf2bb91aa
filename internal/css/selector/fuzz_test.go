// File: internal/css/selector/fuzz_test.go
package selector

import (
	"strings"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"

	"github.com/xkilldash9x/termstyle/internal/dom"
)

// fuzzSelector is populated by the structured consumer and assembled into
// selector text, so the fuzzer spends its time on plausible shapes.
type fuzzSelector struct {
	Type        string
	ID          string
	Classes     []string
	Attr        string
	AttrOp      uint8
	AttrValue   string
	Pseudo      string
	Combinators []uint8
	Raw         string
}

func (f fuzzSelector) String() string {
	ops := []string{"", "=", "~=", "|=", "^=", "$=", "*="}
	var b strings.Builder
	b.WriteString(f.Type)
	if f.ID != "" {
		b.WriteString("#" + f.ID)
	}
	for _, c := range f.Classes {
		b.WriteString("." + c)
	}
	if f.Attr != "" {
		op := ops[int(f.AttrOp)%len(ops)]
		b.WriteString("[" + f.Attr + op)
		if op != "" {
			b.WriteString(`"` + f.AttrValue + `"`)
		}
		b.WriteString("]")
	}
	if f.Pseudo != "" {
		b.WriteString(":" + f.Pseudo)
	}
	combs := []string{" ", ">", " + ", "~", ","}
	for _, c := range f.Combinators {
		b.WriteString(combs[int(c)%len(combs)])
		b.WriteString(f.Type)
	}
	b.WriteString(f.Raw)
	return b.String()
}

func FuzzParse_Structured(f *testing.F) {
	f.Add([]byte("box#hdr.warn > button:focus"))
	f.Add([]byte{0x01, 0x02, 0x03, 0x04})

	tree := dom.NewTree(4)
	root := tree.Add(dom.NoID, dom.NewElement("box", "warn").WithIdentifier("hdr"))
	tree.Add(root, dom.NewElement("button").WithAttr("title", "x"))

	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		var fs fuzzSelector
		if err := consumer.GenerateStruct(&fs); err != nil {
			return
		}

		for _, src := range []string{fs.String(), string(data)} {
			l, _ := Parse(src)
			if len(l) == 0 {
				t.Fatalf("Parse(%q) returned an empty list", src)
			}
			for _, c := range l {
				if len(c.Combinators) != len(c.Parts)-1 {
					t.Fatalf("Parse(%q): %d parts with %d combinators", src, len(c.Parts), len(c.Combinators))
				}
			}
			// Matching must never panic, whatever the parser produced.
			QueryAll(tree, l, NewContext())
			_ = l.String()
		}
	})
}
