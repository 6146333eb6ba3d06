package normalizer

import (
	"strings"
	"unicode"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/dataset"
	"golang.org/x/text/unicode/norm"
)

// Bracket is an ordinal categorical field with an optional midpoint map.
type Bracket struct {
	Order     *dataset.Ordering
	Midpoints map[string]float64
}

// Midpoint looks up the representative value of a label. The label is
// matched in its normalized form.
func (b Bracket) Midpoint(label string) dataset.Number {
	v, ok := b.Midpoints[NormalizeLabel(label)]
	if !ok {
		return dataset.Missing
	}
	return dataset.Some(v)
}

// Brackets holds the three bracket fields of the dataset.
type Brackets struct {
	Attendance  Bracket
	Preparation Bracket
	Gaming      Bracket
}

// BracketsFromConfig builds brackets from configuration.
func BracketsFromConfig(cfg config.BracketsConfig) Brackets {
	return Brackets{
		Attendance:  bracketFromConfig(cfg.Attendance),
		Preparation: bracketFromConfig(cfg.Preparation),
		Gaming:      bracketFromConfig(cfg.Gaming),
	}
}

// DefaultBrackets returns the brackets of the default configuration.
func DefaultBrackets() Brackets {
	return BracketsFromConfig(config.DefaultConfig().Dashboard.Brackets)
}

func bracketFromConfig(cfg config.BracketConfig) Bracket {
	midpoints := make(map[string]float64, len(cfg.Midpoints))
	for label, v := range cfg.Midpoints {
		midpoints[NormalizeLabel(label)] = v
	}
	order := make([]string, len(cfg.Order))
	for i, label := range cfg.Order {
		order[i] = NormalizeLabel(label)
	}
	return Bracket{
		Order:     dataset.NewOrdering(order...).Keyed(NormalizeLabel),
		Midpoints: midpoints,
	}
}

// NormalizeLabel applies NFKC normalization, drops control characters and
// trims surrounding whitespace, so that visually identical labels compare
// equal.
func NormalizeLabel(label string) string {
	normed := norm.NFKC.String(label)
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}
