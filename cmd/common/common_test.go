package common

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func newTestContext() (*cli.Context, *bytes.Buffer) {
	var out bytes.Buffer
	app := cli.NewApp()
	app.Name = "cookiesync"
	app.HelpName = "cookiesync"
	app.Version = "test"
	app.Writer = &out
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx, &out
}

func stubHelp(t *testing.T) (appCalls *int, cmdCalls *int) {
	t.Helper()
	var a, c int
	origApp, origCmd := showAppHelpAndExit, showCommandHelp
	showAppHelpAndExit = func(*cli.Context, int) { a++ }
	showCommandHelp = func(*cli.Context, string) error { c++; return nil }
	t.Cleanup(func() {
		showAppHelpAndExit, showCommandHelp = origApp, origCmd
	})
	return &a, &c
}

func TestPrintRuntimeErr(t *testing.T) {
	ctx, out := newTestContext()
	PrintRuntimeErr(ctx, "list", "connect", errors.New("boom"))
	if got := out.String(); got != "cookiesync: list[connect]: boom\n" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	PrintRuntimeErr(ctx, "list", "connect", nil)
	if !strings.Contains(out.String(), "err is nil") {
		t.Errorf("nil error output = %q", out.String())
	}
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx, out := newTestContext()
	appCalls, _ := stubHelp(t)

	if err := PrintErrWithHelp(ctx, errors.New("bad flag")); err != nil {
		t.Fatal(err)
	}
	if *appCalls != 1 {
		t.Errorf("app help shown %d times", *appCalls)
	}
	if !strings.Contains(out.String(), "cookiesync: bad flag") {
		t.Errorf("output = %q", out.String())
	}
	if err := PrintErrWithHelp(ctx, nil); err != nil {
		t.Errorf("nil err: %v", err)
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx, _ := newTestContext()
	_, cmdCalls := stubHelp(t)
	if err := PrintErrWithCmdHelp(ctx, errors.New("bad")); err != nil {
		t.Fatal(err)
	}
	if *cmdCalls != 1 {
		t.Errorf("command help shown %d times", *cmdCalls)
	}
}

func TestPrintErrWithCallback_Special(t *testing.T) {
	ctx, out := newTestContext()
	appCalls, _ := stubHelp(t)
	VersionCmdStr = "cookiesync test"

	_ = PrintErrWithHelp(ctx, errors.New("flag: help requested"))
	if *appCalls != 1 {
		t.Errorf("help requested should show app help once, got %d", *appCalls)
	}
	out.Reset()
	_ = PrintErrWithHelp(ctx, errors.New("flag provided but not defined: -version"))
	if !strings.Contains(out.String(), "cookiesync test") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestUsageErrorCallback(t *testing.T) {
	ctx, _ := newTestContext()
	appCalls, cmdCalls := stubHelp(t)

	_ = UsageErrorCallback(ctx, errors.New("x"), false)
	if *cmdCalls != 1 {
		t.Error("command-level usage error should show command help")
	}
	ctx.Command = cli.Command{}
	_ = UsageErrorCallback(ctx, errors.New("x"), false)
	if *appCalls != 1 {
		t.Error("app-level usage error should show app help")
	}
}

func TestHelp(t *testing.T) {
	appCalls, cmdCalls := stubHelp(t)

	app := cli.NewApp()
	app.Writer = &bytes.Buffer{}
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"list"})
	ctx := cli.NewContext(app, set, nil)
	if err := Help(ctx); err != nil {
		t.Fatal(err)
	}
	if *cmdCalls != 1 || *appCalls != 0 {
		t.Errorf("cmd=%d app=%d", *cmdCalls, *appCalls)
	}

	ctx, _ = newTestContext()
	_ = Help(ctx)
	if *appCalls != 1 {
		t.Error("bare help should show app help")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		force bool
		want  bool
	}{
		{"yes\n", false, true},
		{"Y\n", false, true},
		{"no\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ctx, out := newTestContext()
			if got := Confirm(ctx, strings.NewReader(tt.input), "purge", tt.force); got != tt.want {
				t.Errorf("Confirm = %v, want %v", got, tt.want)
			}
			if !tt.want && !strings.Contains(out.String(), "Cancelled purge operation!") {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 5, "ab..."},
		{"abcde", 5, "abcde"},
	}
	for _, tt := range tests {
		if got := Fit(tt.in, tt.n); got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
