package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/internal/randutil"
	"github.com/lox/bjev/sdk/config"
	"github.com/lox/bjev/sdk/solver"
)

// CLI is the bjev command line.
type CLI struct {
	Globals

	Total TotalCmd `cmd:"" help:"expected value of a fresh hand over every up card"`
	Solve SolveCmd `cmd:"" help:"expected value of a fresh hand against one up card"`
	Hand  HandCmd  `cmd:"" help:"value of every action for a hand against an up card"`
}

// Globals are the flags shared by every command.
type Globals struct {
	Debug   bool   `help:"enable debug logging"`
	Config  string `help:"rules file (.hcl or .toml); defaults to $BJEV_RULES_FILE" type:"path"`
	Ruleset string `help:"rule set to use from the rules file; defaults to $BJEV_RULESET"`
	EnvFile string `help:".env file read before the BJEV_* variables" default:".env"`
	Workers int    `help:"up cards solved in parallel; defaults to $BJEV_WORKERS or 1" default:"0"`
	NoCache bool   `help:"disable memoization (very slow, for cross-checks)"`
	Burn    int    `help:"random cards burned from a finite shoe before solving" default:"0"`
	Seed    int64  `help:"random seed for --burn; 0 uses time seed" default:"0"`

	Decks           *int     `help:"decks in the shoe, 0 for an infinite shoe"`
	H17             *bool    `name:"h17" help:"dealer hits soft 17" negatable:""`
	Surrender       *bool    `help:"late surrender allowed" negatable:""`
	SplitLimit      *int     `help:"splits allowed per round"`
	DAS             *bool    `name:"das" help:"double after split" negatable:""`
	MaxDoubles      *int     `help:"doubles allowed per hand"`
	ResplitAces     *bool    `help:"split aces may be split again" negatable:""`
	DrawOnSplitAces *bool    `help:"split aces may take more cards" negatable:""`
	ENHC            *bool    `name:"enhc" help:"dealer checks for blackjack only after the hand" negatable:""`
	Payout          *float64 `help:"blackjack payout multiple"`

	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
}

// session is everything a command needs once the flags are resolved.
type session struct {
	rules  blackjack.Rules
	shoe   *blackjack.Shoe
	solver *solver.Solver
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bjev"),
		kong.Description("Exact blackjack expected values"),
		kong.UsageOnError(),
	)

	cli.ctx = context.Background()
	cli.stdout = os.Stdout
	cli.stderr = os.Stderr
	if err := ctx.Run(&cli.Globals); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", ctx.Command())
	}
}

func setupLogger(debug bool, level string, w io.Writer) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
		}
		lvl = parsed
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger().Level(lvl)
	return log.Logger, nil
}

func (g *Globals) session() (*session, error) {
	if err := config.LoadDotEnv(g.EnvFile); err != nil {
		return nil, err
	}
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	logger, err := setupLogger(g.Debug, env.LogLevel, g.stderr)
	if err != nil {
		return nil, err
	}

	rules, err := g.rules(env)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	shoe := rules.NewShoe()
	if g.Burn > 0 {
		if shoe.IsInfinite() {
			return nil, errors.New("--burn needs a finite shoe (--decks > 0)")
		}
		seed := g.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		burned := shoe.Burn(randutil.New(seed), g.Burn)
		logger.Debug().Int64("seed", seed).Int("burned", len(burned)).Str("shoe", shoe.String()).Msg("Burned cards")
	}

	opts := solver.DefaultOptions()
	opts.Logger = logger
	opts.DisableCache = g.NoCache
	opts.Workers = 1
	switch {
	case g.Workers > 0:
		opts.Workers = g.Workers
	case env.Workers > 0:
		opts.Workers = env.Workers
	}

	s, err := solver.New(rules, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("rules", rules.String()).Int("workers", opts.Workers).Msg("Solver ready")
	return &session{rules: rules, shoe: shoe, solver: s}, nil
}

// rules loads the base rule set, from a file when one is named, and applies
// the flag overrides on top.
func (g *Globals) rules(env *config.Env) (blackjack.Rules, error) {
	rules := blackjack.DefaultRules()
	path := firstNonEmpty(g.Config, env.RulesFile)
	if path != "" {
		set, err := config.LoadRules(path)
		if err != nil {
			return blackjack.Rules{}, err
		}
		rules, err = set.Get(firstNonEmpty(g.Ruleset, env.RuleSet))
		if err != nil {
			return blackjack.Rules{}, err
		}
	} else if g.Ruleset != "" {
		return blackjack.Rules{}, errors.New("--ruleset needs a rules file (--config or $BJEV_RULES_FILE)")
	}

	override(&rules.Decks, g.Decks)
	override(&rules.HitSoft17, g.H17)
	override(&rules.Surrender, g.Surrender)
	override(&rules.SplitLimit, g.SplitLimit)
	override(&rules.DoubleAfterSplit, g.DAS)
	override(&rules.MaxDoubles, g.MaxDoubles)
	override(&rules.ResplitAces, g.ResplitAces)
	override(&rules.DrawOnSplitAces, g.DrawOnSplitAces)
	override(&rules.DealerBlackjackAfterHand, g.ENHC)
	override(&rules.BlackjackPayout, g.Payout)
	return rules, nil
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// deal takes the named ranks out of the shoe and returns the cards it dealt.
// Suits are ignored, so "T T" works on a single deck.
func deal(shoe *blackjack.Shoe, codes string) ([]blackjack.Card, error) {
	parsed, err := blackjack.ParseCards(codes)
	if err != nil {
		return nil, err
	}
	cards := make([]blackjack.Card, 0, len(parsed))
	for _, p := range parsed {
		c, ok := shoe.Remove(p.Rank)
		if !ok {
			return nil, fmt.Errorf("no %s left in shoe %s", p.Rank, shoe)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// TotalCmd solves every up card.
type TotalCmd struct{}

func (cmd *TotalCmd) Run(g *Globals) error {
	sess, err := g.session()
	if err != nil {
		return err
	}
	ups, err := sess.solver.UpCardValues(g.ctx, sess.shoe)
	if err != nil {
		return err
	}
	renderTotal(g.stdout, sess.rules, sess.shoe, ups)
	renderStats(g.stdout, sess.solver.Stats())
	return nil
}

// SolveCmd solves one up card.
type SolveCmd struct {
	Up string `arg:"" help:"dealer up card, e.g. 6 or Ts"`
}

func (cmd *SolveCmd) Run(g *Globals) error {
	sess, err := g.session()
	if err != nil {
		return err
	}
	up, err := dealOne(sess.shoe, cmd.Up)
	if err != nil {
		return err
	}
	ev, err := sess.solver.Solve(sess.shoe, up)
	if err != nil {
		return err
	}
	renderSolve(g.stdout, sess.rules, sess.shoe, up, ev)
	renderStats(g.stdout, sess.solver.Stats())
	return nil
}

// HandCmd values every action for a hand.
type HandCmd struct {
	Action string   `help:"value only this action (STD, HIT, DBL, SPT, SUR or the full name)"`
	Up     string   `arg:"" help:"dealer up card, e.g. 6 or Ts"`
	Cards  []string `arg:"" help:"player cards, e.g. T 6 or Th6d"`
}

func (cmd *HandCmd) Run(g *Globals) error {
	sess, err := g.session()
	if err != nil {
		return err
	}
	up, err := dealOne(sess.shoe, cmd.Up)
	if err != nil {
		return err
	}
	cards, err := deal(sess.shoe, strings.Join(cmd.Cards, ""))
	if err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	if len(cards) < 2 {
		return fmt.Errorf("hand: need at least two cards, got %d", len(cards))
	}
	hand := blackjack.NewHand(cards...)

	if cmd.Action != "" {
		action, err := blackjack.ParseAction(cmd.Action)
		if err != nil {
			return fmt.Errorf("hand: %w", err)
		}
		ev, ok, err := sess.solver.ActionValue(sess.shoe, hand, up, action)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("hand: %s is not legal for %s", action, hand)
		}
		evs := []solver.ActionEV{{Action: action, EV: ev, Legal: true}}
		renderHand(g.stdout, sess.rules, sess.shoe, hand, up, evs, nil)
		renderStats(g.stdout, sess.solver.Stats())
		return nil
	}

	evs, err := sess.solver.ActionValues(sess.shoe, hand, up)
	if err != nil {
		return err
	}
	best, _, err := sess.solver.BestAction(sess.shoe, hand, up)
	if err != nil {
		return err
	}
	renderHand(g.stdout, sess.rules, sess.shoe, hand, up, evs, &best)
	renderStats(g.stdout, sess.solver.Stats())
	return nil
}

func dealOne(shoe *blackjack.Shoe, codes string) (blackjack.Card, error) {
	cards, err := deal(shoe, codes)
	if err != nil {
		return blackjack.Card{}, fmt.Errorf("up card: %w", err)
	}
	if len(cards) != 1 {
		return blackjack.Card{}, fmt.Errorf("up card: want one card, got %q", codes)
	}
	return cards[0], nil
}
