package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/bnema/tracker-accounts-cli/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

const (
	defaultBinary     = "pass"
	storeDirEnv       = "PASSWORD_STORE_DIR"
	notInStoreMessage = "is not in the password store"
)

// passCommand is one invocation of pass(1).
type passCommand struct {
	op    string
	key   string
	args  []string
	stdin string
	env   []string
}

type runner func(ctx context.Context, binary string, cmd passCommand) (stdout string, stderr string, err error)

// Store keeps token secrets in a pass(1) password store. Secrets are small TOML
// documents; they are inserted in multiline mode and read back without the newline
// pass appends.
type Store struct {
	binary   string
	storeDir string
	run      runner
}

var _ ports.SecretStore = (*Store)(nil)

type Option func(*Store)

// WithStoreDir points pass at a dedicated password store instead of ~/.password-store.
func WithStoreDir(dir string) Option {
	return func(s *Store) {
		s.storeDir = strings.TrimSpace(dir)
	}
}

func WithBinary(path string) Option {
	return func(s *Store) {
		if path = strings.TrimSpace(path); path != "" {
			s.binary = path
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{binary: defaultBinary, run: execPass}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if !strings.HasSuffix(value, "\n") {
		value += "\n"
	}
	_, err := s.exec(ctx, passCommand{op: "put", key: key, args: []string{"insert", "--multiline", "--force", key}, stdin: value})
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	stdout, err := s.exec(ctx, passCommand{op: "get", key: key, args: []string{"show", key}})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(stdout, "\n"), "\r"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.exec(ctx, passCommand{op: "delete", key: key, args: []string{"rm", "--force", key}})
	return err
}

func (s *Store) exec(ctx context.Context, cmd passCommand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.storeDir != "" {
		cmd.env = append(cmd.env, storeDirEnv+"="+s.storeDir)
	}

	stdout, stderr, err := s.run(ctx, s.binary, cmd)
	if err != nil {
		return "", commandError(cmd, err, stderr)
	}
	return stdout, nil
}

func execPass(ctx context.Context, binary string, cmd passCommand) (string, string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate %s: %w", binary, err)
	}

	proc := exec.CommandContext(ctx, path, cmd.args...)
	if cmd.stdin != "" {
		proc.Stdin = strings.NewReader(cmd.stdin)
	}
	if len(cmd.env) > 0 {
		proc.Env = append(os.Environ(), cmd.env...)
	}

	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	err = proc.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func commandError(cmd passCommand, err error, stderr string) error {
	switch {
	case strings.Contains(stderr, notInStoreMessage):
		return fmt.Errorf("pass %s %q: %w", cmd.op, cmd.key, domain.ErrSecretNotFound)
	case stderr == "":
		return fmt.Errorf("pass %s %q: %w", cmd.op, cmd.key, err)
	default:
		return fmt.Errorf("pass %s %q: %w: %s", cmd.op, cmd.key, err, stderr)
	}
}
