package rating

import "strings"

// Normalizer canonicalizes team identity across rebrands and feed aliases.
type Normalizer struct {
	aliases map[string]string
}

func NewNormalizer(cfg *Config) *Normalizer {
	return &Normalizer{aliases: cfg.Aliases}
}

// Normalize maps a raw feed name to its canonical team name. Names not in
// the alias table pass through with surrounding whitespace trimmed.
func (n *Normalizer) Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if canonical, ok := n.aliases[name]; ok {
		return canonical
	}
	return name
}
