package packets

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestClone_Snapshot(t *testing.T) {
	p := mustLoad(t, frontSchema, frontRaw())
	modifyFront(t, p)

	c, err := p.Clone()
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	if !p.Equal(c) {
		t.Fatal("clone should equal the original")
	}
	if c.IsModified() {
		t.Error("a re-parsed clone should not be modified")
	}

	if err := p.Set("c.f.0", "changed"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got, _ := c.Get("c.f.0"); got != "1" {
		t.Errorf("clone c.f.0 = %v, want 1", got)
	}
	if p.Attr("c") == c.Attr("c") {
		t.Error("nested packets should be copied")
	}
}

func TestClone_Structural(t *testing.T) {
	s := MustDefine("Snapshot",
		Tags(TagStructuralCopy),
		Declare("when", NewField(UnixTime)),
		Declare("items", NewField(Array(internalSchema))),
	)
	p := mustLoad(t, s, map[string]any{
		"when":  1700000000,
		"items": []any{map[string]any{"e": "x"}},
	})
	if err := p.SetAttr("when", p.Attr("when")); err != nil {
		t.Fatalf("SetAttr() error: %v", err)
	}

	c, err := p.Clone()
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	if !c.IsModified() {
		t.Error("structural copies keep the modification flag")
	}
	if !p.Equal(c) {
		t.Error("structural copy should equal the original")
	}

	items := c.Attr("items").([]any)
	if items[0] == p.Attr("items").([]any)[0] {
		t.Error("packets inside containers should be copied")
	}
	if err := items[0].(*Packet).SetAttr("e", "y"); err != nil {
		t.Fatalf("SetAttr() error: %v", err)
	}
	if got, _ := p.Get("items.0.e"); got != "x" {
		t.Errorf("original items.0.e = %v, want x", got)
	}
}

func TestClone_NoHook(t *testing.T) {
	calls := 0
	s := MustDefine("CloneHook",
		Declare("n", NewField(Int)),
		OnLoaded(func(*Packet) error { calls++; return nil }),
	)
	p := mustLoad(t, s, map[string]any{"n": 1})
	p.MustClone()
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1", calls)
	}
}

func TestDeepCopy(t *testing.T) {
	inner := internalSchema.MustNew(Values{"e": "x"})
	in := map[string]any{
		"list":  []any{int64(1), map[any]any{"k": []byte("ab")}},
		"set":   map[any]struct{}{"a": {}},
		"twice": []any{inner, inner},
	}

	out := deepCopy(in).(map[string]any)
	if diff := pretty.Compare(out["list"], in["list"]); diff != "" {
		t.Errorf("deepCopy() diff (-got +want):\n%s", diff)
	}

	out["list"].([]any)[1].(map[any]any)["k"].([]byte)[0] = 'z'
	if string(in["list"].([]any)[1].(map[any]any)["k"].([]byte)) != "ab" {
		t.Error("byte slices should be copied")
	}

	twice := out["twice"].([]any)
	if twice[0] == inner {
		t.Error("packets should be copied")
	}
	if twice[0] != twice[1] {
		t.Error("a packet reached twice should be copied once")
	}
}
