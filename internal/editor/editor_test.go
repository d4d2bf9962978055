package editor

import (
	"reflect"
	"testing"
)

func TestResolve_Order(t *testing.T) {
	t.Setenv("VISUAL", "code --wait")
	t.Setenv("EDITOR", "nano")

	if got := Resolve("emacs").String(); got != "emacs" {
		t.Errorf("override: got %q", got)
	}
	if got := Resolve("").String(); got != "code --wait" {
		t.Errorf("VISUAL: got %q", got)
	}

	t.Setenv("VISUAL", "")
	if got := Resolve("").String(); got != "nano" {
		t.Errorf("EDITOR: got %q", got)
	}

	t.Setenv("EDITOR", "")
	if got := Resolve("").String(); got != "vi" {
		t.Errorf("default: got %q", got)
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		command, want string
	}{
		{"vim", "vim"},
		{"/usr/bin/nvim", "nvim"},
		{"code --wait", "code"},
		{`"some editor" --flag`, "some editor"},
	}
	for _, tt := range cases {
		e := Editor{command: tt.command}
		if got := e.Name(); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.command, got, tt.want)
		}
	}
}

func TestIsVi(t *testing.T) {
	cases := []struct {
		command string
		want    bool
	}{
		{"vi", true},
		{"vim", true},
		{"/usr/local/bin/nvim", true},
		{"nano", false},
		{"code --wait", false},
	}
	for _, tt := range cases {
		e := Editor{command: tt.command}
		if got := e.isVi(); got != tt.want {
			t.Errorf("isVi(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}

func TestSplitShellWords(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"vim", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{`emacs -nw --eval "(something here)"`, []string{"emacs", "-nw", "--eval", "(something here)"}},
		{`'my editor' --flag`, []string{"my editor", "--flag"}},
		{`a\ b`, []string{"a b"}},
		{"", nil},
	}
	for _, tt := range cases {
		got := splitShellWords(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitShellWords(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
