package flatten

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"

	"github.com/dgallion1/statflat/internal/record"
	"github.com/dgallion1/statflat/internal/structurer"
)

func TestFlatten_TopLevelScalars(t *testing.T) {
	rec := record.New()
	rec.Set("a", record.Scalar("1"))
	rec.Set("b", record.Scalar("2"))
	rec.Set("x", record.Scalar("hi"))

	flat := Flatten(rec)
	if flat.Len() != 3 {
		t.Fatalf("expected 3 fields, got %d", flat.Len())
	}
	// Already-flat input keeps field names and order unchanged.
	want := []string{"a", "b", "x"}
	for i, p := range flat.Paths() {
		if p != want[i] {
			t.Errorf("path[%d]: expected %q, got %q", i, want[i], p)
		}
	}
	if v, _ := flat.Get("x"); v != "hi" {
		t.Errorf("x: got %q", v)
	}
}

func TestFlatten_NestedMappingJoinsPaths(t *testing.T) {
	sub := record.New()
	sub.Set("user", record.Scalar("12"))
	sub.Set("sys", record.Scalar("3"))
	rec := record.New()
	rec.Set("cpu", sub)

	flat := Flatten(rec)
	if v, _ := flat.Get("cpu.user"); v != "12" {
		t.Errorf("cpu.user: got %q", v)
	}
	if v, _ := flat.Get("cpu.sys"); v != "3" {
		t.Errorf("cpu.sys: got %q", v)
	}
}

func TestFlatten_UnnamedScalarSequenceLastWriteWins(t *testing.T) {
	doc, err := xmlquery.Parse(strings.NewReader(`<root><item>A</item><item>B</item></root>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	flat := Flatten(structurer.Structure(doc, true))

	v, ok := flat.Get("root.item")
	if !ok {
		t.Fatal("root.item not found")
	}
	if v != "B" {
		t.Errorf("expected last write %q, got %q", "B", v)
	}
	if flat.Len() != 1 {
		t.Errorf("colliding scalars must produce a single field, got %d", flat.Len())
	}
}

func TestFlatten_NamedSequenceElementsBranchPath(t *testing.T) {
	src := `<stats><statistic><name>cpu.user</name><unit>pct</unit></statistic>` +
		`<statistic><name>cpu.sys</name><unit>pct</unit></statistic></stats>`
	flat := Flatten(structureString(t, src))

	if v, _ := flat.Get("cpu.user.unit"); v != "pct" {
		t.Errorf("cpu.user.unit: got %q", v)
	}
	if v, _ := flat.Get("cpu.sys.unit"); v != "pct" {
		t.Errorf("cpu.sys.unit: got %q", v)
	}
	if v, _ := flat.Get("cpu.user.name"); v != "cpu.user" {
		t.Errorf("cpu.user.name: got %q", v)
	}
	// The sequence's own tag never appears in the path.
	for _, p := range flat.Paths() {
		if strings.Contains(p, "statistic") {
			t.Errorf("unexpected sequence tag in path %q", p)
		}
	}
}

func TestFlatten_UnnamedRecordElementsCollide(t *testing.T) {
	src := `<stats><entry><unit>pct</unit></entry><entry><unit>ms</unit></entry></stats>`
	flat := Flatten(structureString(t, src))

	// Both entries flatten under the unmodified parent path; the later one
	// overwrites the earlier.
	if v, _ := flat.Get("unit"); v != "ms" {
		t.Errorf("expected last write %q, got %q", "ms", v)
	}
	if flat.Len() != 1 {
		t.Errorf("expected a single field, got %d: %v", flat.Len(), flat.Paths())
	}
}

func TestFlatten_AttributePlusText(t *testing.T) {
	flat := Flatten(structureString(t, `<doc><node unit="pct">42</node></doc>`))

	if v, _ := flat.Get("node.unit"); v != "pct" {
		t.Errorf("node.unit: got %q", v)
	}
	if v, _ := flat.Get("node.#text"); v != "42" {
		t.Errorf("node.#text: got %q", v)
	}
}

func TestFlatten_CDATA(t *testing.T) {
	flat := Flatten(structureString(t, `<doc><raw><![CDATA[<ok/>]]></raw></doc>`))

	if v, _ := flat.Get("raw"); v != "<ok/>" {
		t.Errorf("raw: got %q", v)
	}
}

func TestFlatten_EmptyMappingContributesNothing(t *testing.T) {
	flat := Flatten(structureString(t, `<doc><flag/><x>1</x></doc>`))

	if flat.Len() != 1 {
		t.Fatalf("empty element must contribute zero fields, got %v", flat.Paths())
	}
	if v, _ := flat.Get("x"); v != "1" {
		t.Errorf("x: got %q", v)
	}
}

func TestFlatten_EmptyRecord(t *testing.T) {
	flat := Flatten(record.New())
	if flat.Len() != 0 {
		t.Errorf("expected no fields, got %d", flat.Len())
	}
}

func TestFlatten_WrapperSequence(t *testing.T) {
	src := `<stats><statistic><name>memory.used</name><values><value><datum>512</datum></value>` +
		`<value><datum>768</datum></value></values></statistic>` +
		`<statistic><name>memory.free</name><values><value><datum>256</datum></value></values></statistic></stats>`
	flat := Flatten(structureString(t, src))

	// The values wrapper collapses into a sequence of unnamed records,
	// which share a path and overwrite each other.
	if v, _ := flat.Get("memory.used.datum"); v != "768" {
		t.Errorf("memory.used.datum: got %q", v)
	}
	// A single-element wrapper is not collapsed, so its tags stay in the path.
	if v, _ := flat.Get("memory.free.values.value.datum"); v != "256" {
		t.Errorf("memory.free.values.value.datum: got %q", v)
	}
}

func structureString(t *testing.T, src string) *record.Record {
	t.Helper()
	doc, err := xmlquery.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return structurer.Structure(doc, false)
}
