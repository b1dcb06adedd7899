// Package config loads named blackjack rule sets from HCL or TOML files and
// reads the environment variables the bjev tools understand.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/bjev/blackjack"
)

// Environment variable names read by FromEnv
const (
	// EnvRulesFile points at an HCL or TOML rule-set file
	EnvRulesFile = "BJEV_RULES_FILE"

	// EnvRuleSet names the rule set to use from the file
	EnvRuleSet = "BJEV_RULESET"

	// EnvWorkers sets how many up cards are solved in parallel
	EnvWorkers = "BJEV_WORKERS"

	// EnvLogLevel sets the zerolog level (debug, info, warn, error)
	EnvLogLevel = "BJEV_LOG_LEVEL"
)

// ErrUnknownRuleSet is returned by RuleSet.Get for a name the file does not
// declare.
var ErrUnknownRuleSet = errors.New("config: unknown rule set")

// RuleBlock is one named rule set as written in a file. Unset fields keep the
// value from blackjack.DefaultRules.
type RuleBlock struct {
	Name                     string   `hcl:"name,label" toml:"-"`
	Decks                    *int     `hcl:"decks,optional" toml:"decks"`
	HitSoft17                *bool    `hcl:"hit_soft_17,optional" toml:"hit_soft_17"`
	Surrender                *bool    `hcl:"surrender,optional" toml:"surrender"`
	SplitLimit               *int     `hcl:"split_limit,optional" toml:"split_limit"`
	DoubleAfterSplit         *bool    `hcl:"double_after_split,optional" toml:"double_after_split"`
	MaxDoubles               *int     `hcl:"max_doubles,optional" toml:"max_doubles"`
	ResplitAces              *bool    `hcl:"resplit_aces,optional" toml:"resplit_aces"`
	DrawOnSplitAces          *bool    `hcl:"draw_on_split_aces,optional" toml:"draw_on_split_aces"`
	DealerBlackjackAfterHand *bool    `hcl:"dealer_blackjack_after_hand,optional" toml:"dealer_blackjack_after_hand"`
	BlackjackPayout          *float64 `hcl:"blackjack_payout,optional" toml:"blackjack_payout"`
}

// Rules applies the block on top of the default rules.
func (b RuleBlock) Rules() blackjack.Rules {
	r := blackjack.DefaultRules()
	setInt(&r.Decks, b.Decks)
	setBool(&r.HitSoft17, b.HitSoft17)
	setBool(&r.Surrender, b.Surrender)
	setInt(&r.SplitLimit, b.SplitLimit)
	setBool(&r.DoubleAfterSplit, b.DoubleAfterSplit)
	setInt(&r.MaxDoubles, b.MaxDoubles)
	setBool(&r.ResplitAces, b.ResplitAces)
	setBool(&r.DrawOnSplitAces, b.DrawOnSplitAces)
	setBool(&r.DealerBlackjackAfterHand, b.DealerBlackjackAfterHand)
	if b.BlackjackPayout != nil {
		r.BlackjackPayout = *b.BlackjackPayout
	}
	return r
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

type hclFile struct {
	Rules []RuleBlock `hcl:"rules,block"`
}

type tomlFile struct {
	Rules map[string]RuleBlock `toml:"rules"`
}

// RuleSet holds validated rule sets in the order the file declared them.
type RuleSet struct {
	names []string
	rules map[string]blackjack.Rules
}

// Names returns the declared rule set names in file order.
func (s *RuleSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Get returns the named rules. An empty name selects the first rule set in
// the file.
func (s *RuleSet) Get(name string) (blackjack.Rules, error) {
	if name == "" {
		if len(s.names) == 0 {
			return blackjack.Rules{}, fmt.Errorf("%w: file declares no rule sets", ErrUnknownRuleSet)
		}
		name = s.names[0]
	}
	r, ok := s.rules[name]
	if !ok {
		return blackjack.Rules{}, fmt.Errorf("%w %q (have %s)", ErrUnknownRuleSet, name, strings.Join(s.names, ", "))
	}
	return r, nil
}

func (s *RuleSet) add(b RuleBlock) error {
	if _, dup := s.rules[b.Name]; dup {
		return fmt.Errorf("rule set %q declared twice", b.Name)
	}
	r := b.Rules()
	if err := r.Validate(); err != nil {
		return fmt.Errorf("rule set %q: %w", b.Name, err)
	}
	s.names = append(s.names, b.Name)
	s.rules[b.Name] = r
	return nil
}

// LoadRules reads rule sets from an .hcl or .toml file.
func LoadRules(path string) (*RuleSet, error) {
	var blocks []RuleBlock
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		blocks, err = decodeHCL(path)
	case ".toml":
		blocks, err = decodeTOML(path)
	default:
		return nil, fmt.Errorf("unsupported rules file extension %q (want .hcl or .toml)", ext)
	}
	if err != nil {
		return nil, err
	}

	set := &RuleSet{rules: make(map[string]blackjack.Rules, len(blocks))}
	for _, b := range blocks {
		if err := set.add(b); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return set, nil
}

func decodeHCL(path string) ([]RuleBlock, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return cfg.Rules, nil
}

func decodeTOML(path string) ([]RuleBlock, error) {
	var cfg tomlFile
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to decode TOML: unknown key %s", undecoded[0])
	}

	// Map iteration has no order; recover it from the file.
	blocks := make([]RuleBlock, 0, len(cfg.Rules))
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "rules" {
			continue
		}
		b := cfg.Rules[key[1]]
		b.Name = key[1]
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// Env holds settings taken from the environment.
type Env struct {
	// RulesFile is the rule-set file to load, if any
	RulesFile string

	// RuleSet selects a rule set from RulesFile
	RuleSet string

	// Workers is the parallel worker count (0 means not set)
	Workers int

	// LogLevel is the requested log level, empty when not set
	LogLevel string
}

// FromEnv parses settings from environment variables. Every variable is
// optional.
func FromEnv() (*Env, error) {
	env := &Env{
		RulesFile: os.Getenv(EnvRulesFile),
		RuleSet:   os.Getenv(EnvRuleSet),
		LogLevel:  strings.ToLower(os.Getenv(EnvLogLevel)),
	}

	if s := os.Getenv(EnvWorkers); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvWorkers, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("invalid %s value: %d, must be at least 1", EnvWorkers, n)
		}
		env.Workers = n
	}

	return env, nil
}

// LoadDotEnv loads variables from the given .env files without overriding
// ones already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
