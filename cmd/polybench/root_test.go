package polybench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mwiater/polybench/catalog"
	"github.com/mwiater/polybench/dispatch"
	"github.com/mwiater/polybench/harness"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// resetFlags restores every flag to its default so tests do not leak state
// through the package-level command tree.
func resetFlags(t *testing.T) {
	t.Helper()
	var walk func(*cobra.Command)
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	walk = func(c *cobra.Command) {
		c.SilenceUsage = false
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sc := range c.Commands() {
			walk(sc)
		}
	}
	walk(rootCmd)
}

// run executes the root command with args and returns stdout, stderr and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

type call struct {
	dir, command string
}

// fakeDispatch swaps the dispatcher for one backed by an in-memory tree and
// a runner that records commands and fails those listed in failOn.
func fakeDispatch(t *testing.T, fsys afero.Fs, failOn ...string) *[]call {
	t.Helper()
	calls := &[]call{}
	fail := map[string]bool{}
	for _, c := range failOn {
		fail[c] = true
	}
	old := newDispatcher
	newDispatcher = func(cat *catalog.Catalog, root string, out io.Writer) *dispatch.Dispatcher {
		return dispatch.New(cat,
			dispatch.WithRoot(root),
			dispatch.WithFs(fsys),
			dispatch.WithOutput(out),
			dispatch.WithRunner(dispatch.RunnerFunc(func(_ context.Context, dir, command string) error {
				*calls = append(*calls, call{dir, command})
				if fail[command] {
					return errors.New("exit status 1")
				}
				return nil
			})),
		)
	}
	t.Cleanup(func() { newDispatcher = old })
	return calls
}

func writeFile(t *testing.T, fsys afero.Fs, path, body string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRoot_SubcommandsPresent(t *testing.T) {
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
		if c.Name() == "list" {
			sub := map[string]bool{}
			for _, sc := range c.Commands() {
				sub[sc.Name()] = true
			}
			for _, want := range []string{"toolchains", "programs", "commands"} {
				if !sub[want] {
					t.Fatalf("list subcommand %s missing: %v", want, sub)
				}
			}
		}
	}
	for _, want := range []string{"build", "clean", "parse", "list"} {
		if !have[want] {
			t.Fatalf("missing subcommand %s", want)
		}
	}
}

func TestCommands_HaveDescriptions(t *testing.T) {
	var check func(*cobra.Command)
	check = func(cmd *cobra.Command) {
		if cmd.Short == "" || cmd.Long == "" {
			t.Fatalf("command %s missing Short/Long", cmd.Name())
		}
		for _, sc := range cmd.Commands() {
			if sc.Name() == "help" || sc.Name() == "completion" {
				continue
			}
			check(sc)
		}
	}
	check(rootCmd)
}

func TestListCommands_PrintsTree(t *testing.T) {
	var buf bytes.Buffer
	listAllCommands(&buf, rootCmd)
	out := buf.String()
	for _, want := range []string{"polybench build", "polybench list toolchains", "polybench parse"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestListToolchains_MarksSelected(t *testing.T) {
	out, _, err := run(t, "list", "toolchains", "--toolchains", "java")
	if err != nil {
		t.Fatalf("list toolchains: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("want heading and 4 rows, got %d:\n%s", len(lines), out)
	}
	for _, l := range lines[1:] {
		selected := strings.HasPrefix(l, "* ")
		isJava := strings.Contains(l, "java ")
		if selected != isJava {
			t.Fatalf("row %q: selected=%v", l, selected)
		}
	}
	if !strings.Contains(out, "(none)") {
		t.Fatalf("python row should show no artifact: %s", out)
	}
}

func TestListPrograms_UsesToolchainNames(t *testing.T) {
	out, _, err := run(t, "list", "programs", "--programs", "fib", "--toolchains", "java,c")
	if err != nil {
		t.Fatalf("list programs: %v", err)
	}
	for _, want := range []string{"fib:", "Fib.java", "fib.c"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestBuild_RunsEveryPair(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bench/java/Fib.java", "class Fib {}")
	writeFile(t, fsys, "/bench/java/Primes.java", "class Primes {}")
	calls := fakeDispatch(t, fsys)

	out, _, err := run(t, "build", "--root", "/bench", "--toolchains", "java", "--programs", "fib,primes")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	want := []call{
		{filepath.Join("/bench", "java"), "javac Fib.java"},
		{filepath.Join("/bench", "java"), "javac Primes.java"},
	}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v, want %v", *calls, want)
	}
	for i := range want {
		if (*calls)[i] != want[i] {
			t.Fatalf("call %d = %v, want %v", i, (*calls)[i], want[i])
		}
	}
	if !strings.Contains(out, "build: 2 ok, 0 failed, 0 skipped") {
		t.Fatalf("missing tally:\n%s", out)
	}
}

func TestBuild_FailureExitsNonZero(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, p := range []string{"fib", "primes"} {
		writeFile(t, fsys, "/bench/c/"+p+".c", "int main(void){return 0;}")
	}
	calls := fakeDispatch(t, fsys, "gcc -std=c99 -Werror -Wall -o fib.out fib.c")

	out, _, err := run(t, "build", "--root", "/bench", "--toolchains", "c", "--programs", "fib,primes")
	if err == nil {
		t.Fatal("expected an error when a build fails")
	}
	if len(*calls) != 2 {
		t.Fatalf("build should continue past a failure, got %v", *calls)
	}
	if !strings.Contains(out, "c/fib") || !strings.Contains(out, "1 ok, 1 failed") {
		t.Fatalf("tally should name the failed pair:\n%s", out)
	}
}

func TestBuild_UnknownToolchainRunsNothing(t *testing.T) {
	calls := fakeDispatch(t, afero.NewMemMapFs())

	_, _, err := run(t, "build", "--toolchains", "rust")
	if !errors.Is(err, dispatch.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("no command should run, got %v", *calls)
	}
}

func TestClean_Idempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bench/java/Fib.class", "")
	fakeDispatch(t, fsys)

	for i := 0; i < 2; i++ {
		out, _, err := run(t, "clean", "--root", "/bench", "--toolchains", "java,python", "--programs", "fib")
		if err != nil {
			t.Fatalf("clean pass %d: %v", i, err)
		}
		if !strings.Contains(out, "clean:") {
			t.Fatalf("missing tally:\n%s", out)
		}
	}
	if ok, _ := afero.Exists(fsys, "/bench/java/Fib.class"); ok {
		t.Fatal("artifact was not removed")
	}
}

func writeLog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timings.log")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse_Text(t *testing.T) {
	path := writeLog(t, "fib\n1.0\n2.0\nprimes\n4\n")

	out, _, err := run(t, "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := "fib:\n2, 3.0, 1.5\nprimes:\n1, 4.0, 4.0\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestParse_JSON(t *testing.T) {
	path := writeLog(t, "fib\n2\n")

	out, _, err := run(t, "parse", "--format", "json", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, `"label": "fib"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestParse_StrictFailsOnWarnings(t *testing.T) {
	path := writeLog(t, "3.5\nfib\n1\n")

	out, errOut, err := run(t, "parse", path)
	if err != nil {
		t.Fatalf("non-strict parse should succeed: %v", err)
	}
	if !strings.Contains(errOut, "warning") {
		t.Fatalf("orphan sample should be warned about, stderr: %q", errOut)
	}
	if !strings.Contains(out, "1, 1.0, 1.0") {
		t.Fatalf("unexpected report:\n%s", out)
	}

	if _, _, err := run(t, "parse", "--strict", path); err == nil {
		t.Fatal("strict parse should fail on warnings")
	}
}

func TestParse_WrongArityShowsUsage(t *testing.T) {
	out, errOut, err := run(t, "parse")
	if err == nil {
		t.Fatal("expected an arity error")
	}
	if !strings.Contains(out+errOut, "Usage:") {
		t.Fatalf("usage should be printed, got: %q", out+errOut)
	}
}

func TestParse_UnknownFormat(t *testing.T) {
	path := writeLog(t, "fib\n1\n")
	if _, _, err := run(t, "parse", "--format", "xml", path); !errors.Is(err, harness.ErrUnknownFormat) {
		t.Fatalf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestParse_TUIOnlyOnTerminal(t *testing.T) {
	path := writeLog(t, "fib\n1\n")

	var got []harness.Summary
	oldViewer, oldTerm := startReportViewer, stdoutIsTerminal
	t.Cleanup(func() { startReportViewer, stdoutIsTerminal = oldViewer, oldTerm })
	startReportViewer = func(_ string, s []harness.Summary) error {
		got = s
		return nil
	}

	stdoutIsTerminal = func() bool { return false }
	out, _, err := run(t, "parse", "--tui", path)
	if err != nil || got != nil || !strings.Contains(out, "fib:") {
		t.Fatalf("without a terminal the text report is printed: err=%v out=%q", err, out)
	}

	stdoutIsTerminal = func() bool { return true }
	out, _, err = run(t, "parse", "--tui", path)
	if err != nil {
		t.Fatalf("parse --tui: %v", err)
	}
	if len(got) != 1 || got[0].Label != "fib" || out != "" {
		t.Fatalf("viewer got %v, stdout %q", got, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, _, err := run(t, "bench"); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}
