package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// regionCodes maps canonical North Sumatra municipality names to the
// two-letter codes embedded in facility IDs. Keys are upper-cased with the
// "KABUPATEN"/"KOTA" prefix stripped. Names absent here fall back to
// deriveRegionCode.
var regionCodes = map[string]string{
	"ASAHAN":             "AS",
	"BINJAI":             "BJ",
	"DAIRI":              "DR",
	"DELI SERDANG":       "DS",
	"HUMBANG HASUNDUTAN": "HH",
	"KARO":               "KR",
	"LABUHANBATU":        "LB",
	"LANGKAT":            "LK",
	"MANDAILING NATAL":   "MN",
	"MEDAN":              "ME",
	"NIAS":               "NI",
	"PAKPAK BHARAT":      "PB",
	"PADANG LAWAS":       "PL",
	"PEMATANGSIANTAR":    "PS",
	"SAMOSIR":            "SR",
	"SIBOLGA":            "SB",
	"SIMALUNGUN":         "SM",
	"TANJUNGBALAI":       "TJ",
	"TAPANULI SELATAN":   "TS",
	"TAPANULI TENGAH":    "TG",
	"TAPANULI UTARA":     "TU",
	"TEBING TINGGI":      "TT",
	"TOBA":               "TB",
}

// RegionCode derives the two-letter code for a region name. Known
// municipalities come from the lookup table; anything else falls back to
// the first letters of the name's first two words, or the first two
// letters of a single-word name. The empty name maps to "XX".
func RegionCode(region string) string {
	canon := canonicalRegion(region)
	if canon == "" {
		return "XX"
	}
	if code, ok := regionCodes[canon]; ok {
		return code
	}
	return deriveRegionCode(canon)
}

// RegionCodeKnown reports whether region resolves through the lookup table
// rather than the derivation fallback.
func RegionCodeKnown(region string) bool {
	_, ok := regionCodes[canonicalRegion(region)]
	return ok
}

func canonicalRegion(region string) string {
	canon := strings.ToUpper(strings.TrimSpace(region))
	for _, prefix := range []string{"KABUPATEN ", "KOTA "} {
		canon = strings.TrimPrefix(canon, prefix)
	}
	return strings.TrimSpace(canon)
}

func deriveRegionCode(canon string) string {
	words := strings.Fields(canon)
	switch {
	case len(words) >= 2:
		return words[0][:1] + words[1][:1]
	case len(words[0]) >= 2:
		return words[0][:2]
	default:
		return words[0] + "X"
	}
}

// generateFacilityID builds the next ID for a facility of the given type
// in the given region: "<TypePrefix>-<RegionCode><seq>", with seq one past
// the highest sequence already issued under that prefix across all stores.
func (l *Ledger) generateFacilityID(ctx context.Context, facilityType, region string) (string, error) {
	prefix := fmt.Sprintf("%s-%s", domain.FacilityTypePrefixes[facilityType], RegionCode(region))

	maxID, err := l.store.MaxFacilityID(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("generate facility id: %w", err)
	}

	seq := 1
	if rest, ok := strings.CutPrefix(maxID, prefix); ok {
		if n, parseErr := strconv.Atoi(rest); parseErr == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}
