package grammar

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
)

func mustGenerate(t *testing.T, src string, seed int64) string {
	t.Helper()

	g, err := Parse(src, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	g.AnalyzeLeafPaths()

	out, err := g.Emit(rand.New(rand.NewSource(seed)), "", "")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	return out
}

func TestEmitSimpleValue(t *testing.T) {
	src := "%section% := value\n" +
		"x :=\n" +
		"\thi\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+x+\n"

	out := mustGenerate(t, src, 1)
	if out != "hi\n" {
		t.Fatalf("got %q, want %q", out, "hi\n")
	}
}

func TestEmitRangeMeta(t *testing.T) {
	src := "%section% := value\n" +
		"d :=\n" +
		"\t%range%(0-9)\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+d++d++d+\n"

	digits := regexp.MustCompile(`^[0-9]{3}\n$`)
	for seed := int64(0); seed < 20; seed++ {
		out := mustGenerate(t, src, seed)
		if !digits.MatchString(out) {
			t.Fatalf("seed %d: got %q, want three digits", seed, out)
		}
	}
}

func TestEmitVariableDefault(t *testing.T) {
	src := "%section% := variable\n" +
		"n :=\n" +
		"\tvar @n@;\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\tuse !n!;\n"

	out := mustGenerate(t, src, 2)
	if !strings.Contains(out, "var n1;") {
		t.Fatalf("missing preamble declaration in %q", out)
	}
	if !strings.Contains(out, "use n1;") {
		t.Fatalf("missing body use in %q", out)
	}
	if strings.Index(out, "var n1;") > strings.Index(out, "use n1;") {
		t.Fatalf("preamble must precede body in %q", out)
	}
}

func TestEmitLeafForcedFatal(t *testing.T) {
	src := "%const% LEAF_TRIGGER := 1\n" +
		"%section% := value\n" +
		"a :=\n" +
		"\t+a+\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+a+\n"

	g, err := Parse(src, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	g.AnalyzeLeafPaths()

	_, err = g.Emit(rand.New(rand.NewSource(1)), "", "")
	if err == nil {
		t.Fatalf("expected a fatal leaf-forcing error, got none")
	}
	if !strings.Contains(err.Error(), "no path to leaf in force-leaf mode in value a") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRedefinition(t *testing.T) {
	src := "%section% := value\n" +
		"foo :=\n" +
		"\tone\n" +
		"\n" +
		"foo :=\n" +
		"\ttwo\n"

	_, err := Parse(src, 0)
	if err == nil {
		t.Fatalf("expected a redefinition error")
	}
	if !strings.Contains(err.Error(), "redefining value") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "line 6") {
		t.Fatalf("error should cite the second block's line: %v", err)
	}
}

func TestMaxRepeatPowerConst(t *testing.T) {
	src := "%const% MAX_REPEAT_POWER := 1\n" +
		"%section% := value\n" +
		"r :=\n" +
		"\t%repeat%(\"x\")\n" +
		"\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+r+\n"

	count := regexp.MustCompile(`^x{1,2}\n$`)
	for seed := int64(0); seed < 20; seed++ {
		out := mustGenerate(t, src, seed)
		if !count.MatchString(out) {
			t.Fatalf("seed %d: got %q, want 1 or 2 copies of x", seed, out)
		}
	}
}

func TestDeterminism(t *testing.T) {
	src := "%section% := value\n" +
		"word :=\n" +
		"\thello\n" +
		"\tworld\n" +
		"\n" +
		"%section% := variable\n" +
		"n :=\n" +
		"\tid@n@\n" +
		"\n" +
		"%const% VARIANCE_MAX := 5\n" +
		"%section% := variance\n" +
		"v :=\n" +
		"\t+word+ !n! %repeat%(+word+, \" \")\n"

	run := func() string {
		g, err := Parse(src, 0)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := g.Resolve(); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		g.AnalyzeLeafPaths()

		out, err := g.Emit(rand.New(rand.NewSource(42)), "PRE:", ":POST")
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		return out
	}

	first := run()
	for i := 0; i < 5; i++ {
		if got := run(); got != first {
			t.Fatalf("run %d diverged: got %q, want %q", i, got, first)
		}
	}
}

func TestEmitNoVariancesFatal(t *testing.T) {
	src := "%section% := value\n" +
		"x :=\n" +
		"\thi\n"

	g, err := Parse(src, 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := g.Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	g.AnalyzeLeafPaths()

	_, err = g.Emit(rand.New(rand.NewSource(1)), "", "")
	if err == nil || !strings.Contains(err.Error(), "no variances found") {
		t.Fatalf("expected no-variances error, got %v", err)
	}
}
