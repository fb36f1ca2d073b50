package langmeta

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "pt_br", want: "pt-BR"},
		{in: " EN-us ", want: "en-US"},
		{in: "zh_hans", want: "zh-Hans"},
		{in: "ru", want: "ru"},
		{in: "", want: ""},
	}

	for _, tc := range cases {
		got := Canonicalize(tc.in)
		if got != tc.want {
			t.Fatalf("Canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("registry match", func(t *testing.T) {
		got := Resolve("zh_cn")
		if got.Name != "Simplified Chinese" || got.Native != "简体中文" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("cldr names", func(t *testing.T) {
		got := Resolve("de")
		if got.Name != "German" || got.Native != "Deutsch" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})

	t.Run("malformed passthrough", func(t *testing.T) {
		got := Resolve("not a code")
		if got.Name != "not a code" || got.Code != "not a code" {
			t.Fatalf("unexpected result: %#v", got)
		}
	})
}

func TestBase(t *testing.T) {
	if got := Base("zh_TW"); got != "zh" {
		t.Fatalf("Base(zh_TW) = %q, want zh", got)
	}
	if got := Base("ja"); got != "ja" {
		t.Fatalf("Base(ja) = %q, want ja", got)
	}
}
