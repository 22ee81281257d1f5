package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// LbsPerKg is the conversion factor used for every kg/lbs pair we store.
const LbsPerKg = 2.20462

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// ParseLegacyWeight reads the numeric kilogram value out of a free-text
// weight such as "80kg", "80 KG" or "72.5". Trailing text after the number
// is ignored.
func ParseLegacyWeight(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "kg", ""))
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatKg renders kilograms with the shortest exact representation ("80", "72.5").
func FormatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

// KgToLbs converts kilograms to pounds rounded to one decimal.
func KgToLbs(kg float64) string {
	return strconv.FormatFloat(kg*LbsPerKg, 'f', 1, 64)
}

// LbsToKg converts pounds to kilograms rounded to one decimal.
func LbsToKg(lbs float64) string {
	return strconv.FormatFloat(lbs/LbsPerKg, 'f', 1, 64)
}

// MigrateLegacyWeight fills WeightKg/WeightLbs from the legacy Weight field
// when WeightKg is still empty. It reports whether the exercise changed.
func (e *PlanExercise) MigrateLegacyWeight() bool {
	if e.Weight == "" || e.WeightKg != "" {
		return false
	}
	kg, ok := ParseLegacyWeight(e.Weight)
	if !ok {
		return false
	}
	e.WeightKg = FormatKg(kg)
	e.WeightLbs = KgToLbs(kg)
	return true
}

// CompleteWeightPair fills in whichever of kg/lbs is missing from the other.
// Unparseable input is kept as typed.
func CompleteWeightPair(kg, lbs string) (string, string) {
	kg, lbs = strings.TrimSpace(kg), strings.TrimSpace(lbs)
	switch {
	case kg != "" && lbs == "":
		if v, err := strconv.ParseFloat(kg, 64); err == nil {
			lbs = KgToLbs(v)
		}
	case lbs != "" && kg == "":
		if v, err := strconv.ParseFloat(lbs, 64); err == nil {
			kg = LbsToKg(v)
		}
	}
	return kg, lbs
}
