package cache

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"user", "42"}, "user:42"},
		{[]string{"user", "42", "profile"}, "user:42:profile"},
		{[]string{"solo"}, "solo"},
		{nil, ""},
		{[]string{"a", "", "b"}, "a::b"},
	}
	for _, tc := range cases {
		if got := Key(tc.parts...); got != tc.want {
			t.Errorf("Key(%v) = %q; want %q", tc.parts, got, tc.want)
		}
	}
}

func TestKeyDeterminism(t *testing.T) {
	if Key("user", "42") != Key("user", "42") {
		t.Fatal("equal parts produced different keys")
	}
	if Key("user", "42") == Key("user", "43") {
		t.Fatal("different parts collided")
	}
}
