package rating

import (
	"strings"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
)

// RegionResolver infers a competitive region from free-text tournament names.
type RegionResolver struct{}

func NewRegionResolver() *RegionResolver {
	return &RegionResolver{}
}

type regionRule struct {
	keyword string
	region  domain.Region
}

// Ordered: first match wins. Korea before Pacific so "Korea Pacific Clash"
// style names resolve to the host region.
var regionRules = []regionRule{
	{"korea", domain.RegionKorea},
	{"north america", domain.RegionNorthAmerica},
	{"emea", domain.RegionEMEA},
	{"europe", domain.RegionEMEA},
	{"china", domain.RegionChina},
	{"japan", domain.RegionJapan},
	{"pacific", domain.RegionPacific},
	{"asia", domain.RegionPacific},
}

// Infer resolves a region from the tournament name, or reports false when no
// rule matches. A name carrying both Japan and Pacific markers is a combined
// cross-region event and is deliberately left unresolved rather than guessed
// at; callers must keep the team's existing region in that case.
func (r *RegionResolver) Infer(tournament string) (domain.Region, bool) {
	t := strings.ToLower(tournament)

	japan := strings.Contains(t, "japan")
	pacific := strings.Contains(t, "pacific") || strings.Contains(t, "asia")
	if japan && pacific {
		return domain.RegionUnknown, false
	}

	for _, rule := range regionRules {
		if strings.Contains(t, rule.keyword) {
			return rule.region, true
		}
	}
	return domain.RegionUnknown, false
}
