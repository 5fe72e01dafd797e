// Package similarity provides word-pair similarity providers: the external
// WikiSim oracle and word-embedding models.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mohammad-safakhou/wsd/config"
	"github.com/mohammad-safakhou/wsd/internal/logging"
	"go.uber.org/zap"
)

// Oracle scores a word pair. ok is false when no score could be produced; that
// is never an error for callers.
type Oracle interface {
	Similarity(ctx context.Context, a, b string) (score float64, ok bool)
}

// Pair is one scored word pair. Score is nil when the provider was unavailable.
type Pair struct {
	A     string   `json:"a"`
	B     string   `json:"b"`
	Score *float64 `json:"score"`
}

// Batch scores pairs in order.
func Batch(ctx context.Context, o Oracle, pairs [][2]string) []Pair {
	out := make([]Pair, len(pairs))
	for i, p := range pairs {
		out[i] = Pair{A: p[0], B: p[1]}
		if v, ok := o.Similarity(ctx, p[0], p[1]); ok {
			score := v
			out[i].Score = &score
		}
	}
	return out
}

// Func adapts an in-process similarity function.
type Func func(ctx context.Context, a, b string) (float64, bool)

func (f Func) Similarity(ctx context.Context, a, b string) (float64, bool) { return f(ctx, a, b) }

// Unavailable is the oracle used when none is configured.
type Unavailable struct{}

func (Unavailable) Similarity(context.Context, string, string) (float64, bool) { return 0, false }

// DefaultTimeout bounds one oracle invocation.
const DefaultTimeout = 10 * time.Second

// Command runs an external executable as "<argv...> <a> <b>" and reads the
// first whitespace-separated token of its stdout as the score.
type Command struct {
	argv    []string
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewCommand splits command shell-style. timeout <= 0 means DefaultTimeout.
func NewCommand(command string, timeout time.Duration) (*Command, error) {
	argv, err := splitCommand(command)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errors.New("empty oracle command")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Command{argv: argv, timeout: timeout, logger: logging.New("oracle")}, nil
}

func (c *Command) Similarity(ctx context.Context, a, b string) (float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	args := append(append([]string(nil), c.argv[1:]...), a, b)
	out, err := exec.CommandContext(ctx, c.argv[0], args...).Output()
	if err != nil {
		c.logger.Debugw("oracle command failed", "a", a, "b", b, "error", err)
		return 0, false
	}
	fields := strings.Fields(string(out))
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		c.logger.Debugw("oracle output not a number", "a", a, "b", b, "output", fields[0])
		return 0, false
	}
	return v, true
}

// New picks the oracle for cfg: the command when one is configured, otherwise
// Unavailable.
func New(cfg config.OracleConfig) (Oracle, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return Unavailable{}, nil
	}
	cmd, err := NewCommand(cfg.Command, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("oracle command: %w", err)
	}
	return cmd, nil
}

// splitCommand splits s into words, honouring single quotes, double quotes and
// backslash escapes the way a POSIX shell does for plain words.
func splitCommand(s string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in %q", quote, s)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash in %q", s)
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
