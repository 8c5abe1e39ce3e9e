package analyzer

import (
	"reflect"
	"testing"

	"standalone/internal/corpus"
	"standalone/internal/engine/parser"
)

func analyze(t *testing.T, source, target string) *Analysis {
	t.Helper()
	loader, err := parser.NewGrammarLoader()
	if err != nil {
		t.Fatalf("NewGrammarLoader failed: %v", err)
	}
	unit := corpus.NewUnit("snippet.py", []byte(source))
	pu, err := parser.NewParser(loader).Parse(unit.ID, unit.Content)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	t.Cleanup(pu.Close)
	return New().Analyze(pu, unit, target)
}

func TestAnalyzeCategories(t *testing.T) {
	code := `import os
from collections import OrderedDict

LIMIT = 10

class Cache:
    pass

def helper():
    pass

def tgt():
    global LIMIT
    data = helper()
    data.sort()
    return data, LIMIT

init()
`
	a := analyze(t, code, "tgt")

	want := map[Category][]string{
		CategoryFunctions: {"helper"},
		CategoryMethods:   {"sort"},
		CategoryClasses:   {"Cache"},
		CategoryVariables: {"data", "helper", "LIMIT"},
		CategoryGlobals:   {"LIMIT"},
		CategoryImports:   {"os", "collections.OrderedDict"},
		CategoryObjects:   {"init"},
	}
	for cat, names := range want {
		if !reflect.DeepEqual(a.Names[cat], names) {
			t.Errorf("%s: expected %v, got %v", cat, names, a.Names[cat])
		}
	}
}

func TestTargetRows(t *testing.T) {
	code := `x = 1

def tgt(a):
    b = a + x
    return b

def other():
    pass
`
	a := analyze(t, code, "tgt")

	if want := []int{2, 3, 4}; !reflect.DeepEqual(a.TargetRows, want) {
		t.Errorf("expected rows %v, got %v", want, a.TargetRows)
	}
}

func TestDecoratedTarget(t *testing.T) {
	code := `@trace
def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	// The decorator row is not part of the definition span, but the
	// decorator name is a load inside the target.
	if want := []int{1, 2}; !reflect.DeepEqual(a.TargetRows, want) {
		t.Errorf("expected rows %v, got %v", want, a.TargetRows)
	}
	if want := []string{"trace"}; !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
	recs := a.Records[CategoryVariables]
	if len(recs) != 1 || recs[0].Line != 1 || recs[0].Text != "@trace" {
		t.Errorf("unexpected decorator record %+v", recs)
	}
}

func TestDecoratorOutsideTargetNotRecorded(t *testing.T) {
	code := `@wrap
def other():
    pass

def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	if len(a.Names[CategoryVariables]) != 0 {
		t.Errorf("expected no variables, got %v", a.Names[CategoryVariables])
	}
	if want := []string{"other"}; !reflect.DeepEqual(a.Names[CategoryFunctions], want) {
		t.Errorf("expected functions %v, got %v", want, a.Names[CategoryFunctions])
	}
}

func TestUsedGlobalsRequireEarlierDefinition(t *testing.T) {
	code := `early = 1

def tgt():
    return early + late

late = 2
`
	a := analyze(t, code, "tgt")

	if want := []string{"early"}; !reflect.DeepEqual(a.UsedGlobals, want) {
		t.Errorf("expected used globals %v, got %v", want, a.UsedGlobals)
	}
	if row, ok := a.GlobalDefs["late"]; !ok || row != 5 {
		t.Errorf("expected late defined at row 5, got %d (ok=%v)", row, ok)
	}
	if want := []string{"early", "late"}; !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
}

func TestUsedGlobalsOnlyInsideTarget(t *testing.T) {
	code := `flag = True

def other():
    return flag

def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	if len(a.UsedGlobals) != 0 {
		t.Errorf("expected no used globals, got %v", a.UsedGlobals)
	}
}

func TestGlobalDefsLastAssignmentWins(t *testing.T) {
	code := `limit = 1
limit = 2

def tgt():
    return limit
`
	a := analyze(t, code, "tgt")

	if row := a.GlobalDefs["limit"]; row != 1 {
		t.Errorf("expected row 1, got %d", row)
	}
	if want := []string{"limit"}; !reflect.DeepEqual(a.UsedGlobals, want) {
		t.Errorf("expected used globals %v, got %v", want, a.UsedGlobals)
	}
}

func TestAssignmentFormsOutsideTarget(t *testing.T) {
	code := `a = b = 1
x, y = 2, 3
n: int = 4
m += 5

def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	// Only the first simple-name target of a plain assignment feeds
	// the definition table.
	if want := map[string]int{"a": 0}; !reflect.DeepEqual(a.GlobalDefs, want) {
		t.Errorf("expected defs %v, got %v", want, a.GlobalDefs)
	}
}

func TestAssignmentFormsInsideTarget(t *testing.T) {
	code := `def tgt():
    a = b = 1
    c: int = 2
    d += 3
`
	a := analyze(t, code, "tgt")

	// Chained targets are recorded; the annotated target is not, but
	// its annotation is an ordinary load. Augmented targets are
	// invisible.
	if want := []string{"a", "b", "int"}; !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
	if len(a.GlobalDefs) != 0 {
		t.Errorf("expected no global defs, got %v", a.GlobalDefs)
	}
}

func TestAsyncDefInvisible(t *testing.T) {
	code := `async def tgt():
    x = 1

def other():
    pass
`
	a := analyze(t, code, "tgt")

	if len(a.TargetRows) != 0 {
		t.Errorf("expected no target rows, got %v", a.TargetRows)
	}
	if want := []string{"other"}; !reflect.DeepEqual(a.Names[CategoryFunctions], want) {
		t.Errorf("expected functions %v, got %v", want, a.Names[CategoryFunctions])
	}
	// The async body is still walked in the enclosing scope, so its
	// assignment lands in the definition table.
	if _, ok := a.GlobalDefs["x"]; !ok {
		t.Errorf("expected x in defs, got %v", a.GlobalDefs)
	}
}

func TestTargetNestedInAsyncDef(t *testing.T) {
	code := `async def wrapper():
    def tgt():
        return 1
`
	a := analyze(t, code, "tgt")

	if want := []int{1, 2}; !reflect.DeepEqual(a.TargetRows, want) {
		t.Errorf("expected rows %v, got %v", want, a.TargetRows)
	}
}

func TestNestedSameNameClearsScope(t *testing.T) {
	code := `def tgt():
    def tgt():
        inner_load
    outer_load
`
	a := analyze(t, code, "tgt")

	// Leaving the nested definition clears the scope slot outright,
	// so loads after it in the outer body are no longer in scope.
	if want := []string{"inner_load"}; !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
}

func TestMethodCallsRecordedInAnyScope(t *testing.T) {
	code := `def setup():
    db.connect()

def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	if want := []string{"connect"}; !reflect.DeepEqual(a.Names[CategoryMethods], want) {
		t.Errorf("expected methods %v, got %v", want, a.Names[CategoryMethods])
	}
	// Bare calls outside the target stay out of the functions set, and
	// the target's own definition is never a dependency.
	if want := []string{"setup"}; !reflect.DeepEqual(a.Names[CategoryFunctions], want) {
		t.Errorf("expected functions %v, got %v", want, a.Names[CategoryFunctions])
	}
}

func TestObjectsFromBareCallsOnly(t *testing.T) {
	code := `init()
x = Make()

def tgt():
    return x
`
	a := analyze(t, code, "tgt")

	if want := []string{"init"}; !reflect.DeepEqual(a.Names[CategoryObjects], want) {
		t.Errorf("expected objects %v, got %v", want, a.Names[CategoryObjects])
	}
}

func TestObjectsSemicolonSeparated(t *testing.T) {
	a := analyze(t, "setup(); teardown()\n\ndef tgt():\n    return 1\n", "tgt")

	if want := []string{"setup", "teardown"}; !reflect.DeepEqual(a.Names[CategoryObjects], want) {
		t.Errorf("expected objects %v, got %v", want, a.Names[CategoryObjects])
	}
}

func TestImportForms(t *testing.T) {
	code := `import os
import os.path as osp
from collections import OrderedDict, defaultdict
from . import sibling
from .helpers import tool
from pkg import *

def tgt():
    return 1
`
	a := analyze(t, code, "tgt")

	want := []string{
		"os",
		"os.path",
		"collections.OrderedDict",
		"collections.defaultdict",
		"sibling",
		"helpers.tool",
		"pkg.*",
	}
	if !reflect.DeepEqual(a.Imports(), want) {
		t.Errorf("expected imports %v, got %v", want, a.Imports())
	}

	recs := a.Records[CategoryImports]
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(recs))
	}
	if recs[2].Line != 3 || recs[2].Text != "from collections import OrderedDict, defaultdict" {
		t.Errorf("unexpected record %+v", recs[2])
	}
}

func TestCallRecordsCalleeAsLoadToo(t *testing.T) {
	code := `def tgt():
    helper()

def helper():
    pass
`
	a := analyze(t, code, "tgt")

	if want := []string{"helper"}; !reflect.DeepEqual(a.Names[CategoryFunctions], want) {
		t.Errorf("expected functions %v, got %v", want, a.Names[CategoryFunctions])
	}
	if want := []string{"helper"}; !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
	recs := a.Records[CategoryFunctions]
	if len(recs) != 2 {
		t.Fatalf("expected call and definition records, got %+v", recs)
	}
	if recs[0].Line != 2 || recs[0].Text != "    helper()" {
		t.Errorf("unexpected call record %+v", recs[0])
	}
	if recs[1].Line != 4 {
		t.Errorf("expected definition record at line 4, got %+v", recs[1])
	}

	if want := []string{"helper"}; !reflect.DeepEqual(a.GlobalObjects, want) {
		t.Errorf("expected global objects %v, got %v", want, a.GlobalObjects)
	}
}

func TestStoreTargetsAreNotLoads(t *testing.T) {
	code := `def tgt():
    for item in rows:
        total[item.key] = item.value
    del scratch
    with open(path) as fh:
        pass
`
	a := analyze(t, code, "tgt")

	want := []string{"rows", "total", "item", "open", "path"}
	if !reflect.DeepEqual(a.Names[CategoryVariables], want) {
		t.Errorf("expected variables %v, got %v", want, a.Names[CategoryVariables])
	}
}
