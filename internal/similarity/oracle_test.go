package similarity

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/wsd/config"
)

// TestHelperProcess is the fake oracle executable used by the Command tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("WSD_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	switch args[0] {
	case "car":
		fmt.Println("0.87 (cosine)")
	case "slow":
		time.Sleep(5 * time.Second)
		fmt.Println("0.5")
	case "garbage":
		fmt.Println("n/a")
	case "nan":
		fmt.Println("NaN")
	case "empty":
	default:
		os.Exit(2)
	}
	os.Exit(0)
}

func helperCommand(t *testing.T, timeout time.Duration) *Command {
	t.Helper()
	t.Setenv("WSD_WANT_HELPER_PROCESS", "1")
	c, err := NewCommand(fmt.Sprintf("'%s' -test.run=TestHelperProcess --", os.Args[0]), timeout)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	return c
}

func TestCommandParsesFirstToken(t *testing.T) {
	c := helperCommand(t, 5*time.Second)
	v, ok := c.Similarity(context.Background(), "car", "automobile")
	if !ok || v != 0.87 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestCommandFailuresAreUnavailable(t *testing.T) {
	c := helperCommand(t, 5*time.Second)
	for _, word := range []string{"garbage", "nan", "empty", "exit"} {
		if _, ok := c.Similarity(context.Background(), word, "x"); ok {
			t.Fatalf("%s: expected unavailable", word)
		}
	}
}

func TestCommandTimeout(t *testing.T) {
	c := helperCommand(t, 200*time.Millisecond)
	start := time.Now()
	if _, ok := c.Similarity(context.Background(), "slow", "x"); ok {
		t.Fatalf("expected timeout to make the oracle unavailable")
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestCommandMissingExecutable(t *testing.T) {
	c, err := NewCommand("/nonexistent/wikisim --fast", time.Second)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	if _, ok := c.Similarity(context.Background(), "car", "automobile"); ok {
		t.Fatalf("expected unavailable")
	}
}

func TestNewWithoutCommandIsUnavailable(t *testing.T) {
	o, err := New(config.OracleConfig{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	pairs := Batch(context.Background(), o, [][2]string{{"car", "automobile"}})
	if len(pairs) != 1 || pairs[0].Score != nil {
		t.Fatalf("expected null score, got %+v", pairs)
	}
	if pairs[0].A != "car" || pairs[0].B != "automobile" {
		t.Fatalf("pair words not echoed: %+v", pairs[0])
	}
}

func TestBatchKeepsOrder(t *testing.T) {
	o := Func(func(_ context.Context, a, b string) (float64, bool) {
		if a == "x" {
			return 0, false
		}
		return float64(len(a) + len(b)), true
	})
	got := Batch(context.Background(), o, [][2]string{{"ab", "c"}, {"x", "y"}, {"a", "b"}})
	if *got[0].Score != 3 || got[1].Score != nil || *got[2].Score != 2 {
		t.Fatalf("unexpected batch %+v", got)
	}
}

func TestSplitCommand(t *testing.T) {
	cases := map[string][]string{
		"wikisim":                      {"wikisim"},
		"  python3  -m wikisim.cli ":   {"python3", "-m", "wikisim.cli"},
		`run "two words" 'single q'`:   {"run", "two words", "single q"},
		`path\ with\ spaces --flag=""`: {"path with spaces", "--flag="},
	}
	for in, want := range cases {
		got, err := splitCommand(in)
		if err != nil {
			t.Fatalf("split %q: %v", in, err)
		}
		if strings.Join(got, "|") != strings.Join(want, "|") {
			t.Fatalf("split %q = %q, want %q", in, got, want)
		}
	}
	if _, err := splitCommand(`broken "quote`); err == nil {
		t.Fatalf("expected unterminated quote error")
	}
}
