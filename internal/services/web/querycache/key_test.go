package querycache

import "testing"

func TestKeyHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{name: "empty prefix", key: NewKey("posts", "list"), prefix: Key{}, want: true},
		{name: "exact", key: NewKey("posts", "list"), prefix: NewKey("posts", "list"), want: true},
		{name: "parent", key: NewKey("posts", "list", "go"), prefix: NewKey("posts", "list"), want: true},
		{name: "sibling", key: NewKey("posts", "detail", "1"), prefix: NewKey("posts", "list"), want: false},
		{name: "longer prefix", key: NewKey("posts"), prefix: NewKey("posts", "list"), want: false},
		{name: "segment is not string prefix", key: NewKey("posts", "listing"), prefix: NewKey("posts", "list"), want: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.key.HasPrefix(tc.prefix); got != tc.want {
				t.Fatalf("%v.HasPrefix(%v) = %v, want %v", tc.key, tc.prefix, got, tc.want)
			}
		})
	}
}

func TestKeyStringIsUnambiguous(t *testing.T) {
	a := NewKey("posts", "list,detail")
	b := NewKey("posts", "list", "detail")
	if a.String() == b.String() {
		t.Fatalf("keys %v and %v encode the same: %s", a, b, a)
	}
	parsed, err := ParseKey(a.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(a) {
		t.Fatalf("parsed = %v, want %v", parsed, a)
	}
	if Key(nil).String() != "[]" {
		t.Fatalf("nil key = %s", Key(nil))
	}
}

func TestKeyAppendDoesNotAlias(t *testing.T) {
	base := make(Key, 1, 4)
	base[0] = "posts"
	list := base.Append("list")
	detail := base.Append("detail")
	if list[1] != "list" || detail[1] != "detail" {
		t.Fatalf("append aliased: %v %v", list, detail)
	}
	if base.Scope() != "posts" || (Key{}).Scope() != "" {
		t.Fatalf("scope = %q", base.Scope())
	}
}
