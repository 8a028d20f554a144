package compiler

import (
	"strconv"
	"strings"
	"testing"
)

// jumpMnemonics maps every jump mnemonic this machine has to whether it
// is the discontinuous (inter-page) form.
var jumpMnemonics = map[string]bool{
	"JMP": false, "JEQ": false, "JNE": false, "JLT": false, "JGT": false, "JLE": false, "JGE": false,
	"JMPD": true, "JEQD": true, "JNED": true, "JLTD": true, "JGTD": true, "JLED": true, "JGED": true,
}

// TestPageCrossingLoopGetsDiscontinuousJump builds a while loop long
// enough that its back-edge must cross a 64-instruction page boundary,
// and checks every property spec §8 names for the page pass: a plain
// jump never targets another page (property 4), every LCL is
// immediately followed by a discontinuous jump whose resolved target
// lands in the page it just selected (property 5), and every jump's
// final argument is a valid in-bounds instruction index (property 3).
func TestPageCrossingLoopGetsDiscontinuousJump(t *testing.T) {
	var body strings.Builder
	for i := 0; i < 20; i++ {
		body.WriteString("a = 1\na = 2\n")
	}
	src := "var a\na = 0\nwhile a == 0\n" + body.String() + "end\n"

	out := compileOK(t, src)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if !strings.Contains(out, "LCL") {
		t.Fatalf("expected at least one LCL in a program long enough to cross a page, got:\n%s", out)
	}

	type parsed struct {
		mnemonic string
		arg      int
		hasArg   bool
	}
	parsedLines := make([]parsed, len(lines))
	for i, l := range lines {
		fields := strings.Fields(l)
		p := parsed{mnemonic: fields[0]}
		if len(fields) == 2 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				t.Fatalf("line %d: bad argument %q", i, fields[1])
			}
			p.arg, p.hasArg = v, true
		}
		parsedLines[i] = p
	}

	for i, p := range parsedLines {
		if p.mnemonic == "LCL" {
			if i+1 >= len(parsedLines) {
				t.Fatalf("LCL at %d has no following instruction", i)
			}
			next := parsedLines[i+1]
			isDisc, isJump := jumpMnemonics[next.mnemonic]
			if !isJump || !isDisc {
				t.Fatalf("LCL at %d must be followed by a discontinuous jump, got %s", i, next.mnemonic)
			}
			if !next.hasArg {
				t.Fatalf("discontinuous jump at %d has no argument", i+1)
			}
			if next.arg/pageSize != p.arg {
				t.Errorf("LCL %d at %d selects page %d, but the following %s %d targets page %d",
					p.arg, i, p.arg, next.mnemonic, next.arg, next.arg/pageSize)
			}
			continue
		}
		isDisc, isJump := jumpMnemonics[p.mnemonic]
		if !isJump {
			continue
		}
		if !p.hasArg {
			t.Fatalf("jump at %d has no argument", i)
		}
		if p.arg < 0 || p.arg >= len(parsedLines) {
			t.Errorf("jump at %d targets out-of-range index %d (program has %d instructions)", i, p.arg, len(parsedLines))
		}
		if !isDisc && i/pageSize != p.arg/pageSize {
			t.Errorf("plain jump at %d (page %d) targets %d (page %d) without being made discontinuous",
				i, i/pageSize, p.arg, p.arg/pageSize)
		}
	}
}

// TestInsertDiscJumpsFixedPoint compiles a while loop spanning three
// pages, so both of its jumps cross a page and the page pass must run
// again after each insertion; it checks that at least one discontinuous
// jump results and that each one gets exactly one LCL.
func TestInsertDiscJumpsFixedPoint(t *testing.T) {
	src := "var a\na = 0\nwhile a == 0\n" + strings.Repeat("a = 1\na = 2\n", 40) + "end\n"
	out := compileOK(t, src)

	discCount := strings.Count(out, "JNED") + strings.Count(out, "JEQD") +
		strings.Count(out, "JGED") + strings.Count(out, "JLED") +
		strings.Count(out, "JGTD") + strings.Count(out, "JLTD") + strings.Count(out, "JMPD")
	if discCount == 0 {
		t.Fatalf("expected at least one discontinuous jump in a multi-page program, got:\n%s", out)
	}
	lcls := strings.Count(out, "LCL")
	if lcls != discCount {
		t.Errorf("expected one LCL per discontinuous jump, got %d LCLs and %d discontinuous jumps", lcls, discCount)
	}
}
