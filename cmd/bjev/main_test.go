package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/sdk/config"
)

func runCLI(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{config.EnvRulesFile, config.EnvRuleSet, config.EnvWorkers, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	var cli CLI
	var stdout, stderr bytes.Buffer
	parser, err := kong.New(&cli,
		kong.Name("bjev"),
		kong.Writers(&stdout, &stderr),
		kong.Exit(func(int) { t.Fatalf("unexpected exit: %s", stderr.String()) }),
	)
	require.NoError(t, err)

	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...)
	ctx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}
	cli.ctx = context.Background()
	cli.stdout = &stdout
	cli.stderr = &stderr
	err = ctx.Run(&cli.Globals)
	return stdout.String(), err
}

func lineWith(out, prefix string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, prefix) {
			return line
		}
	}
	return ""
}

func TestHandCommand(t *testing.T) {
	out, err := runCLI(t, nil, "hand", "7", "T", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "HIT *")
	assert.Contains(t, lineWith(out, "HIT"), "-0.414779")
	assert.Contains(t, lineWith(out, "SPT"), "-")
	assert.Contains(t, out, "(16) vs 7")

	out, err = runCLI(t, nil, "--split-limit", "1", "--das", "--max-doubles", "1", "hand", "3s", "5h4h")
	require.NoError(t, err)
	assert.Contains(t, out, "DBL *")
	assert.Contains(t, lineWith(out, "DBL"), "+0.120816")
}

func TestHandActionFlag(t *testing.T) {
	out, err := runCLI(t, nil, "--split-limit", "1", "--das", "--max-doubles", "1", "hand", "--action", "double", "3s", "5h4h")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "DBL"), "+0.120816")
	assert.NotContains(t, out, "DBL *")
	assert.Empty(t, lineWith(out, "HIT"))

	out, err = runCLI(t, nil, "hand", "--action", "STD", "2", "T56")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "STD"), "+0.882007")

	_, err = runCLI(t, nil, "hand", "--action", "split", "7", "T", "6")
	assert.Error(t, err)
	_, err = runCLI(t, nil, "hand", "--action", "insure", "7", "T", "6")
	assert.Error(t, err)
}

func TestSolveCommand(t *testing.T) {
	out, err := runCLI(t, nil, "solve", "6")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "ev"), "+0.182694")
	assert.Contains(t, out, "inf S17")
	assert.Contains(t, lineWith(out, "shoe"), "natural 4.734%")
}

func TestTotalCommand(t *testing.T) {
	out, err := runCLI(t, nil, "--workers", "2", "total")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "total"), "-0.024208")
	assert.Contains(t, lineWith(out, "total"), "-2.421%")
	assert.Contains(t, out, "0.3077", "ten probability")
}

func TestRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
rules "plain" {}

rules "full" {
  split_limit        = 3
  double_after_split = true
  max_doubles        = 1
}
`), 0o644))

	out, err := runCLI(t, nil, "--config", path, "--ruleset", "full", "solve", "6")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "ev"), "+0.234007")

	out, err = runCLI(t, map[string]string{config.EnvRulesFile: path, config.EnvRuleSet: "full"}, "solve", "6")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "ev"), "+0.234007")

	// flags override the file
	out, err = runCLI(t, nil, "--config", path, "--ruleset", "full", "--split-limit", "0", "--max-doubles", "0", "--no-das", "solve", "6")
	require.NoError(t, err)
	assert.Contains(t, lineWith(out, "ev"), "+0.182694")

	_, err = runCLI(t, nil, "--config", path, "--ruleset", "missing", "solve", "6")
	assert.ErrorIs(t, err, config.ErrUnknownRuleSet)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"one card hand", []string{"hand", "7", "T"}},
		{"bad card", []string{"hand", "7", "X", "6"}},
		{"two up cards", []string{"solve", "66"}},
		{"too many aces", []string{"--decks", "1", "hand", "A", "A", "A", "A", "A"}},
		{"burn infinite shoe", []string{"--burn", "5", "total"}},
		{"ruleset without file", []string{"--ruleset", "full", "solve", "6"}},
		{"invalid rules", []string{"--split-limit=-1", "solve", "6"}},
		{"bad payout", []string{"--payout", "0", "solve", "6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, nil, tt.args...)
			assert.Error(t, err)
		})
	}

	_, err := runCLI(t, map[string]string{config.EnvLogLevel: "loud"}, "solve", "6")
	assert.Error(t, err)
}

func TestBurnIsSeeded(t *testing.T) {
	run := func(seed string) string {
		out, err := runCLI(t, nil, "--decks", "1", "--burn", "40", "--seed", seed, "total")
		require.NoError(t, err)
		return out
	}
	first := run("7")
	assert.Contains(t, lineWith(first, "shoe"), "12/52 left")
	assert.Equal(t, lineWith(first, "shoe"), lineWith(run("7"), "shoe"))

	dealt := 0
	for _, field := range strings.Fields(strings.TrimPrefix(lineWith(first, "out "), "out")) {
		_, count, ok := strings.Cut(field, ":")
		require.True(t, ok, field)
		n, err := strconv.Atoi(count)
		require.NoError(t, err, field)
		dealt += n
	}
	assert.Equal(t, 40, dealt)
}

func TestRenderRules(t *testing.T) {
	shoe := blackjack.NewShoe(1)
	_, err := deal(shoe, "A K K")
	require.NoError(t, err)

	var buf bytes.Buffer
	renderRules(&buf, blackjack.DefaultRules(), shoe)
	out := buf.String()
	assert.Contains(t, lineWith(out, "shoe"), "49/52 left")
	assert.Contains(t, lineWith(out, "out "), "A:1 K:2")

	buf.Reset()
	renderRules(&buf, blackjack.DefaultRules(), blackjack.NewInfiniteShoe())
	assert.NotContains(t, buf.String(), "left")
	assert.Empty(t, lineWith(buf.String(), "out "))
}

func TestDeal(t *testing.T) {
	shoe := blackjack.NewShoe(1)
	cards, err := deal(shoe, "T T Kh")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, 49, shoe.Len())
	assert.Equal(t, 2, shoe.Count(blackjack.Ten))
	assert.Equal(t, 3, shoe.Count(blackjack.King))

	_, err = deal(shoe, "zz")
	assert.Error(t, err)
}
