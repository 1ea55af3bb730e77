package chart

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/scan"
)

var (
	accountNumberRe = regexp.MustCompile(`^\d{4,6}(\.\d+)?$`)
	lettersRe       = regexp.MustCompile(`[A-Za-z]{2}`)
)

// IsAccountNumber reports whether s is shaped like an account number.
func IsAccountNumber(s string) bool {
	return accountNumberRe.MatchString(s)
}

// IsPlausibleName reports whether s can serve as an account name.
func IsPlausibleName(s string) bool {
	return lettersRe.MatchString(s) && !IsAccountNumber(s)
}

// MatchKind tags the outcome of a name search.
type MatchKind int

const (
	Missing MatchKind = iota
	Found
	Ambiguous
)

func (k MatchKind) String() string {
	switch k {
	case Found:
		return "found"
	case Ambiguous:
		return "ambiguous"
	default:
		return "missing"
	}
}

// NameMatch is the result of pairing a number token with a name. When the
// window holds several plausible names the first one is used, but the rest
// stay visible in Candidates.
type NameMatch struct {
	Kind       MatchKind
	Candidates []scan.Token
}

// Name returns the chosen name, or "" when none was found.
func (m NameMatch) Name() string {
	if len(m.Candidates) == 0 {
		return ""
	}
	return m.Candidates[0].Text
}

// PairName searches the window tokens following tokens[i] for plausible names.
func PairName(tokens []scan.Token, i, window int) NameMatch {
	var m NameMatch
	for j := i + 1; j < len(tokens) && j <= i+window; j++ {
		if IsPlausibleName(tokens[j].Text) {
			m.Candidates = append(m.Candidates, tokens[j])
		}
	}
	switch len(m.Candidates) {
	case 0:
		m.Kind = Missing
	case 1:
		m.Kind = Found
	default:
		m.Kind = Ambiguous
	}
	return m
}

// Stats counts classifier decisions for logging.
type Stats struct {
	Numbers    int // number-shaped tokens seen
	Duplicates int // repeats of an already classified number
	NoName     int // dropped for lack of a plausible name
	Ambiguous  int // classified with more than one name candidate
}

// Classify pairs account-number tokens with names and infers their type. The
// first occurrence of a number decides its name; later repeats are ignored.
// Balances are left at zero.
func Classify(tokens []scan.Token, opts Options) ([]model.Account, Stats) {
	var (
		accounts []model.Account
		stats    Stats
	)
	seen := make(map[string]bool)
	for i, tok := range tokens {
		if !IsAccountNumber(tok.Text) {
			continue
		}
		stats.Numbers++
		if seen[tok.Text] {
			stats.Duplicates++
			continue
		}
		match := PairName(tokens, i, opts.NameWindow)
		if match.Kind == Missing {
			stats.NoName++
			continue
		}
		if match.Kind == Ambiguous {
			stats.Ambiguous++
		}
		seen[tok.Text] = true
		accounts = append(accounts, model.Account{
			Number:  tok.Text,
			Name:    match.Name(),
			Type:    InferType(tok.Text),
			Balance: decimal.Zero,
			Offset:  tok.Offset,
		})
	}
	return accounts, stats
}

// ParseChart extracts tokens from a CHART buffer and classifies them.
func ParseChart(buf []byte, opts Options) ([]model.Account, Stats) {
	return Classify(scan.ExtractStrings(buf, opts.MinTokenLen, opts.MaxTokenLen), opts)
}
