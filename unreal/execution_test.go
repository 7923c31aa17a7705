package unreal

import (
	"strings"
	"testing"
)

func TestArithmeticScenario(t *testing.T) {
	_, out := runScript(t, `var a = 10, var b = 3, print(a // b, end="")`)
	if out != "3" {
		t.Fatalf("quotient: got %q", out)
	}
	_, out = runScript(t, `var a = 10, var b = 3, print(a % b, end="")`)
	if out != "1" {
		t.Fatalf("remainder: got %q", out)
	}

	_, out = runScript(t, `var a = 10, var b = 3, print(a / b, end="")`)
	want := "3." + strings.Repeat("3", defaultDecimalPlaces)
	if out != want {
		t.Fatalf("division should truncate at %d places, got %d characters", defaultDecimalPlaces, len(out))
	}
}

func TestExpressionResults(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"2 ^ 3 ^ 2", "512"},
		{"-2 ^ 2", "-4"},
		{"7 // 2 + 7 % 2", "4"},
		{"7.5 % 2", "15"},
		{"0.1 + 0.2", "0.3"},
		{"1 == 1.0", "true"},
		{"not 0", "true"},
		{"!! 1", "false"},
		{"1 < 2 and 2 < 3", "true"},
		{"1 xor 0", "true"},
		{`"a" in "cat"`, "true"},
		{"3 in (1, 2)", "false"},
		{"[1, 2] are num_", "true"},
		{"none is none_", "true"},
		{`"abc"[-1]`, `"c"`},
		{"[1, 2, 3][0, 2]", "[1, 3]"},
		{`{"a": 1, "b": 2}["b"]`, "2"},
		{"{1, 2, 2, 3}", "{1, 2, 3}"},
		{"[1, 2].length()", "2"},
		{`"hello".contains("ell")`, "true"},
		{`{"k": 1}.keys()`, `["k"]`},
		{`f"sum={1 + 2} list={[1, 2]}"`, `"sum=3 list=1, 2"`},
		{"object", "object"},
		{"num_", "<class num_>"},
		{", 1", "(1)"},
		{"if false: 1", "none"},
		{"if 0: 1 elif 2: 2 else: 3", "2"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}
}

func TestVariables(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"declare without value", "var x\nx", "none"},
		{"compound assignment", "var x = 5\nx -= 2\nx *= 4\nx", "12"},
		{"increment", "var x = 1\nx++\nx++\nx", "3"},
		{"decrement", "var x = 1\nx--\nx", "0"},
		{"string compound", "var s = \"a\"\ns += \"b\"\ns", `"ab"`},
		{"bare assignment defines", "y = 4\ny", "4"},
		{"assignment yields value", "var x = 3", "3"},
		{"typed declaration", "var num_ n = 1\nn = 2\nn", "2"},
		{"none fits any type", "var str_ s = none\ns", "none"},
		{"global from function", "func set() { var global g = 9 }\nset()\ng", "9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}
}

func TestVariableErrors(t *testing.T) {
	requireRuntimeError(t, "missing + 1", NotDefError, "'missing' isn't defined")
	requireRuntimeError(t, "nope++", NotDefError, "'nope' isn't defined")
	requireRuntimeError(t, "var const x = 1\nx = 2", ConstVarError, "'x' is const variable")
	requireRuntimeError(t, "print = 1", ConstVarError, "'print' is const variable")
	requireRuntimeError(t, "var num_ n = 1\nn = \"s\"", AssignTypeError, "Can't assign <str_> into 'n' because its <num_>")
	requireRuntimeError(t, "var const items = [1]\nitems[0] = 2", ConstVarError, "'items' is const variable")
}

func TestAliasAssignmentFollowsTarget(t *testing.T) {
	result, _ := runScript(t, "var a = 1\nvar b <- a\na = 5\nb")
	requireRender(t, result, "5")

	result, _ = runScript(t, "var a = 1\nvar b <- a\nb = 7\na")
	requireRender(t, result, "7")
}

func TestCopyIsolation(t *testing.T) {
	result, _ := runScript(t, "var x = [1, 2]\nvar y = x\nx[0] -= 1\ny")
	requireRender(t, result, "[1, 2]")

	result, _ = runScript(t, "var x = [1, 2]\nvar y = x\nx[0] -= 1\nx")
	requireRender(t, result, "[0, 2]")
}

func TestIndexAssignment(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"list element", "var l = [1, 2, 3]\nl[-1] = 9\nl", "[1, 2, 9]"},
		{"dict insert", "var d = {\"a\": 0}\nd[\"k\"] = 1\nd", `{"a": 0, "k": 1}`},
		{"dict update", "var d = {\"k\": 1}\nd[\"k\"] += 4\nd", `{"k": 5}`},
		{"nested", "var m = [[1, 2], [3, 4]]\nm[1][0] = 0\nm", "[[1, 2], [0, 4]]"},
		{"increment element", "var l = [1]\nl[0]++\nl", "[2]"},
		{"yields element", "var l = [1]\nl[0] = 5", "5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}

	requireRuntimeError(t, "var l = [1]\nl[3] = 0", RangeError, "Index out of range")
	requireRuntimeError(t, "var s = \"ab\"\ns[0] = \"c\"", IllegalOpError, "<str_> doesn't support item assignment")
}

func TestLoops(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"for collects values", "for i = 0 to 3: i", "[0, 1, 2]"},
		{"for implicit start", "for i = to 2: i * 10", "[0, 10]"},
		{"for descending", "for i = 3 to 0 step -1: i", "[3, 2, 1]"},
		{"for fractional step", "for i = 0 to 1 step 0.5: i", "[0, 0.5]"},
		{"for block body", "for i = 0 to 2 { i }", "none"},
		{"foreach block body", "for x in [1, 2] { x }", "none"},
		{"while block body", "var x = 0\nwhile x < 3 { x += 1 }", "none"},
		{"loop block body", "loop i = 0, i < 2, i++ { i }", "none"},
		{"for empty range", "for i = 5 to 0: i", "[]"},
		{"foreach list", "for x in [1, 2, 3]: x * x", "[1, 4, 9]"},
		{"foreach string", "for c in \"ab\": c + c", `["aa", "bb"]`},
		{"foreach tuple", "for x in (1, 2): x", "[1, 2]"},
		{"while", "var n = 0\nwhile n < 3: n += 1", "[1, 2, 3]"},
		{"loop", "loop i = 0, i < 6, i += 2: i", "[0, 2, 4]"},
		{"continue skips collection", "for i = 0 to 6: if i % 2: i else: continue", "[1, 3, 5]"},
		{"guarded continue", "var total = 0\nfor i = 0 to 5 {\ncontinue if i == 2\ntotal += i\n}\ntotal", "8"},
		{"guarded break", "var last = 0\nfor i = 0 to 10 {\nbreak if i == 3\nlast = i\n}\nlast", "2"},
		{"loop step runs after continue", "var seen = []\nloop i = 0, i < 3, i++ {\nseen += i\ncontinue\n}\nseen", "[0, 1, 2]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}
}

func TestBreakAffectsOnlyInnermostLoop(t *testing.T) {
	source := `
var out = []
for i = 0 to 3 {
  for j = 0 to 3 {
    if j == 1: break
    out += i * 10 + j
  }
}
out`
	result, _ := runScript(t, source)
	requireRender(t, result, "[0, 10, 20]")
}

func TestLoopErrors(t *testing.T) {
	requireRuntimeError(t, "for i = \"a\" to 3: i", TypeError, "Start value must be <num_>")
	requireRuntimeError(t, "for i = 0 to \"b\": i", TypeError, "End value must be <num_>")
	requireRuntimeError(t, "for i = 0 to 3 step none: i", TypeError, "Step value must be <num_>")
	requireRuntimeError(t, "for i = 0 to 2: i\ni", NotDefError, "'i' isn't defined")
	requireRuntimeError(t, "for x in 5: x", IterationError, "Can't iterate inside <num_>")
	requireRuntimeError(t, "var const i = 0\nfor i = 0 to 2: i", ConstVarError, "'i' is const variable")
	requireRuntimeError(t, "break", BreakError, "'break' can't be outside of the iteration statements (for, loop, foreach and while)")
	requireRuntimeError(t, "continue", ContinueError, "'continue' can't be outside of the iteration statements (for, loop, foreach and while)")
	requireRuntimeError(t, "return 1", ReturnError, "'return' can't be outside of the function")
	requireRuntimeError(t, "func f() { break }\nfor i = 0 to 3: f()", BreakError, "")
}

func TestSwitch(t *testing.T) {
	_, out := runScript(t, `switch 2 { case 1: print(1,end="") case 2: case 3: print(3,end="") }`)
	if out != "3" {
		t.Fatalf("fallthrough: got %q", out)
	}

	cases := []struct {
		source string
		want   string
	}{
		{"switch 1 { case 1: \"one\"\ncase 2: \"two\" }", `"one"`},
		{"switch 5 { case 1: \"one\"\ndefault: \"other\" }", `"other"`},
		{"switch 5 { case 1: \"one\" }", "none"},
		{"switch [1] { case [1]: \"list\" }", `"list"`},
		{"switch 3 { case 3:\ndefault: \"fell\" }", `"fell"`},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}
}

func TestTryExcept(t *testing.T) {
	_, out := runScript(t, `try: 1/0 except "DivByZeroError": print("caught", end="")`)
	if out != "caught" {
		t.Fatalf("try/except: got %q", out)
	}

	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"no error", "try: 1 except: 2", "1"},
		{"catch all", "try: missing except: \"handled\"", `"handled"`},
		{"match by details", "try: missing\nexcept \"'missing' isn't defined\": 1", "1"},
		{"second clause", "try: [][0]\nexcept \"KeyError\": 1\nexcept \"RangeError\": 2", "2"},
		{"names list", "try: 1 / 0\nexcept \"RangeError\", \"DivByZeroError\": 3", "3"},
		{"no clauses", "try: 1 / 0", "none"},
		{"block body", "try { 1 / 0 } except { 2 }", "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}

	requireRuntimeError(t, "try: 1 / 0\nexcept \"RangeError\": 1", DivByZeroError, "Division by zero")
	requireRuntimeError(t, "try: 1 / 0\nexcept 5: 1", TypeError, "Exception must be <str_>")
}

func TestTryRestoresLoopState(t *testing.T) {
	source := `
func risky(n) {
  if n == 1: return 1 / 0
  return n
}
var got = []
for i = 0 to 3 {
  try: got += risky(i) except: continue
}
got`
	result, _ := runScript(t, source)
	requireRender(t, result, "[0, 2]")
}

func TestFunctions(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"default argument", "func add(a, b = 2) { return a + b }\nadd(1)", "3"},
		{"labelled arguments", "func add(a, b = 2) { return a + b }\nadd(b: 5, a: 1)", "6"},
		{"equals label", "func add(a, b = 2) { return a + b }\nadd(1, b = 10)", "11"},
		{"colon body returns value", "func double(x): x * 2\ndouble(4)", "8"},
		{"block body returns none", "func noop() { 1 }\nnoop()", "none"},
		{"bare return", "func f() { return }\nf()", "none"},
		{"anonymous", "var sq = func (x): x * x\nsq(5)", "25"},
		{"recursion", "func fact(n): if n <= 1: 1 else: n * fact(n - 1)\nfact(20)", "2432902008176640000"},
		{"typed params", "func num_ inc(num_ n) { return n + 1 }\ninc(1)", "2"},
		{"return from loop", "func first() {\nfor i = 0 to 10 {\nif i == 4: return i\n}\n}\nfirst()", "4"},
		{"definition yields function", "func named() {}", "<function named>"},
		{"function value", "func id(x): x\nvar g = id\ng(7)", "7"},
		{"is function", "isFunction(print) and isFunction(func (): 1)", "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, _ := runScript(t, tc.source)
			requireRender(t, result, tc.want)
		})
	}
}

func TestClosuresCaptureDefiningScope(t *testing.T) {
	source := `
func outer() {
  var base = 10
  func inner(x): x + base
  return inner
}
var g = outer()
g(5)`
	result, _ := runScript(t, source)
	requireRender(t, result, "15")
}

func TestFunctionScopeIsLocal(t *testing.T) {
	requireRuntimeError(t, `func f(){ var x = 1, return x }, f(), print(x, end="")`, NotDefError, "'x' isn't defined")
}

func TestCallErrors(t *testing.T) {
	const add = "func add(a, b = 2) { return a + b }\n"
	requireRuntimeError(t, add+"add(1, 2, 3)", ArgCountError, "1 too many argument(s) passed into 'add'")
	requireRuntimeError(t, add+"add()", ArgCountError, "1 too few argument(s) passed into 'add'")
	requireRuntimeError(t, add+"add(c: 1)", ArgNotDefError, "Function 'add' doesn't have the 'c' argument")
	requireRuntimeError(t, add+"add(b: 1, 2)", ArgCountError, "'b' got more than one value in 'add'")
	requireRuntimeError(t, add+"add(a: 1, a: 2)", ArgCountError, "'a' got more than one value in 'add'")
	requireRuntimeError(t, "func sq(num_ n) { return n * n }\nsq(\"a\")", AssignTypeError, "Can't assign <str_> to 'n' because 'n' is <num_>")
	requireRuntimeError(t, "func str_ name() { return 1 }\nname()", ReturnTypeError, "Can't return <num_> because 'name' returns <str_>")
	requireRuntimeError(t, "func f(num_ n = \"x\") {}", AssignTypeError, "Can't assign <str_> into 'n' because 'n' is <num_>")
	requireRuntimeError(t, "5()", IllegalOpError, "<num_> isn't callable")
	requireRuntimeError(t, "[1].missing", NotDefError, "'missing' isn't defined")
	requireRuntimeError(t, "func const f() {}\nfunc f() {}", ConstVarError, "'f' is const variable")
}

func TestDeepCallsKeepTraceback(t *testing.T) {
	source := "func inner() { return 1 / 0 }\nfunc outer() { return inner() }\nouter()"
	err := requireRuntimeError(t, source, DivByZeroError, "Division by zero")
	frames := err.Frames()
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d: %+v", len(frames), frames)
	}
	names := []string{frames[0].Context, frames[1].Context, frames[2].Context}
	if names[0] != "<program>" || names[1] != "outer" || names[2] != "inner" {
		t.Fatalf("frames: %v", names)
	}
	if frames[0].Pos.Line != 3 || frames[1].Pos.Line != 2 || frames[2].Pos.Line != 1 {
		t.Fatalf("frame lines: %d %d %d", frames[0].Pos.Line, frames[1].Pos.Line, frames[2].Pos.Line)
	}
}
