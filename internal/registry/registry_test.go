package registry

import (
	"strings"
	"testing"
)

type stubCodec struct{ name string }

func (s stubCodec) Name() string               { return s.name }
func (s stubCodec) ContentType() string        { return "text/x-" + s.name }
func (s stubCodec) Binary() bool               { return false }
func (s stubCodec) Encode(any) ([]byte, error) { return []byte(s.name), nil }
func (s stubCodec) Decode([]byte, any) error   { return nil }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub", func() Codec { return stubCodec{name: "zz-stub"} })
	Register("aa-stub", func() Codec { return stubCodec{name: "aa-stub"} })

	if !Exists("zz-stub") || Exists("missing") {
		t.Error("Exists reported wrong membership")
	}

	c, err := Create("aa-stub")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out, _ := c.Encode(nil); string(out) != "aa-stub" {
		t.Errorf("created codec encodes %q", out)
	}

	if _, err := Create("missing"); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Errorf("Create(missing) error = %v", err)
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name >= list[i].Name {
			t.Fatalf("List not sorted: %v", list)
		}
	}
	var found bool
	for _, info := range list {
		if info.Name == "zz-stub" {
			found = info.ContentType == "text/x-zz-stub" && !info.Binary
		}
	}
	if !found {
		t.Errorf("List missing metadata for zz-stub: %v", list)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", func() Codec { return stubCodec{name: "dup-stub"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("dup-stub", func() Codec { return stubCodec{name: "dup-stub"} })
}
