package normalize

import (
	"regexp"
	"strings"

	"github.com/franco-sebastiani/servir"
)

// ContractRule maps a raw contract-code prefix pattern to its canonical
// category. Institutions append call numbers and other suffixes to the code,
// so rules match on the prefix only.
type ContractRule struct {
	Pattern   *regexp.Regexp
	Canonical string
}

// ContractRules is the fixed ordered rule list for contract-code
// normalization. Rules are tried in declared order; the first match wins.
var ContractRules = []ContractRule{
	{regexp.MustCompile(`^D\.LEG 1057 - DETERMINADO \(NECESIDAD TRANSITORIA\)`), "D.LEG 1057 DETERMINADO NECESIDAD TRANSITORIA"},
	{regexp.MustCompile(`^D\.LEG 1057 - DETERMINADO \(SUPLENCIA\)`), "D.LEG 1057 DETERMINADO SUPLENCIA"},
	{regexp.MustCompile(`^D\.LEG 1057 - INDETERMINADO`), "D.LEG 1057 INDETERMINADO"},
	{regexp.MustCompile(`^728`), "D.LEG 728"},
	{regexp.MustCompile(`^276`), "D.LEG 276"},
	{regexp.MustCompile(`^DOCENTES UNIVERSITARIOS`), "DOCENTES UNIVERSITARIOS LEY 30220"},
	{regexp.MustCompile(`^LEY 30220`), "DOCENTES UNIVERSITARIOS LEY 30220"},
	{regexp.MustCompile(`^LEY 30057`), "LEY 30057"},
}

// Temporal nature classifications for contract categories.
const (
	TemporalTemporary     = "TEMPORARY"     // fixed-term for transitory needs
	TemporalReplacement   = "REPLACEMENT"   // fixed-term substitute positions
	TemporalIndeterminate = "INDETERMINATE" // indefinite-term under D.LEG 1057
	TemporalPermanent     = "PERMANENT"     // permanent career positions
)

// ContractClass is the legal regime and temporal nature of a canonical
// contract category.
type ContractClass struct {
	Regime         string
	TemporalNature string
}

// contractClasses keys on the canonical categories produced by
// ContractType; every rule's canonical form has an entry.
var contractClasses = map[string]ContractClass{
	"D.LEG 1057 DETERMINADO NECESIDAD TRANSITORIA": {Regime: "D.LEG 1057", TemporalNature: TemporalTemporary},
	"D.LEG 1057 DETERMINADO SUPLENCIA":             {Regime: "D.LEG 1057", TemporalNature: TemporalReplacement},
	"D.LEG 1057 INDETERMINADO":                     {Regime: "D.LEG 1057", TemporalNature: TemporalIndeterminate},
	"D.LEG 728":                                    {Regime: "D.LEG 728", TemporalNature: TemporalPermanent},
	"D.LEG 276":                                    {Regime: "D.LEG 276", TemporalNature: TemporalPermanent},
	"DOCENTES UNIVERSITARIOS LEY 30220":            {Regime: "LEY 30220", TemporalNature: TemporalPermanent},
	"LEY 30057":                                    {Regime: "LEY 30057", TemporalNature: TemporalPermanent},
}

// ContractClassification returns the regime and temporal nature for a
// canonical contract category.
func ContractClassification(canonical string) (ContractClass, error) {
	class, ok := contractClasses[canonical]
	if !ok {
		return ContractClass{}, servir.Errorf(servir.ENOTFOUND, "no classification for contract category %q", canonical)
	}
	return class, nil
}

// ContractType maps a raw contract code to its canonical category using the
// ordered rule list. An input matching no rule fails, naming the input so the
// rule table can be extended from the error log.
func ContractType(raw string) (string, error) {
	if raw == "" {
		return "", servir.Errorf(servir.EINVALID, "contract type is empty or invalid")
	}

	cleaned := strings.TrimSpace(raw)
	for _, rule := range ContractRules {
		if rule.Pattern.MatchString(cleaned) {
			return rule.Canonical, nil
		}
	}
	return "", servir.Errorf(servir.EINVALID, "contract type matches no known pattern: %q", raw)
}
