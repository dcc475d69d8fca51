package domain

// IndustryLevel identifies the granularity of an industrial classification code.
type IndustryLevel string

const (
	LevelDivision IndustryLevel = "division" // 2-digit code
	LevelGroup    IndustryLevel = "group"    // 3-digit code
	LevelClass    IndustryLevel = "class"    // 4-digit code
	LevelHeader   IndustryLevel = "header"   // section title, no leading code
)

// LevelForCode returns the granularity implied by the digit length of code.
// Codes outside the 2-4 digit window classify as header.
func LevelForCode(code string) IndustryLevel {
	switch len(code) {
	case 2:
		return LevelDivision
	case 3:
		return LevelGroup
	case 4:
		return LevelClass
	default:
		return LevelHeader
	}
}

// Indicator identifies one of the source business-demography tables.
type Indicator string

const (
	IndicatorActive     Indicator = "active"
	IndicatorBirths     Indicator = "births"
	IndicatorDeaths     Indicator = "deaths"
	IndicatorHighGrowth Indicator = "high_growth"
	IndicatorSurvival   Indicator = "survival"
)

// SurvivalHorizons is the number of tracked survival horizons per birth cohort.
const SurvivalHorizons = 5

// DetailRecord is one (code, year) observation of a single indicator.
// A nil Value means the source cell was missing or unparseable; downstream
// aggregation decides how nulls are treated, extraction never does.
type DetailRecord struct {
	Code  string        `json:"code"`
	Level IndustryLevel `json:"level"`
	Year  int           `json:"year"`
	Value *float64      `json:"value"`
}

// DetailTable is the normalized long-format output of one extractor run.
type DetailTable struct {
	Indicator Indicator      `json:"indicator"`
	Records   []DetailRecord `json:"records"`
}

// SurvivalRecord is one (code, cohort, horizon) observation from a survival
// cohort sheet. Horizon counts whole years since the birth cohort (1..5).
type SurvivalRecord struct {
	Code       string        `json:"code"`
	Level      IndustryLevel `json:"level"`
	CohortYear int           `json:"cohort_year"`
	Horizon    int           `json:"horizon"`
	Survivors  *float64      `json:"survivors"`
	Rate       *float64      `json:"rate"`
}

// SurvivalTable is the concatenation of all cohort sheets.
type SurvivalTable struct {
	Records []SurvivalRecord `json:"records"`
}

// PanelRow is one merged (division code, year) row. The anchor indicator
// (births) defines the row set; all other fields may be nil where the
// secondary table had no matching key.
type PanelRow struct {
	Code string `json:"code"`
	Year int    `json:"year"`

	Births     *float64 `json:"births"`
	Active     *float64 `json:"active"`
	Deaths     *float64 `json:"deaths"`
	HighGrowth *float64 `json:"high_growth"`

	// Indexed by horizon-1 (element 0 is the one-year horizon).
	Survivors     [SurvivalHorizons]*float64 `json:"survivors"`
	SurvivalRates [SurvivalHorizons]*float64 `json:"survival_rates"`
}

// LookupEntry maps one division code to the coarse industry group it belongs to.
type LookupEntry struct {
	DivisionCode string `json:"division_code" validate:"required,len=2"`
	GroupID      string `json:"group_id" validate:"required"`
	GroupName    string `json:"group_name" validate:"required"`
}

// GroupYearSummary is one aggregated (group, year) row, the sole contract
// with the downstream chart renderer. SurvivalRate is nil when the summed
// births for the group-year are zero.
type GroupYearSummary struct {
	GroupName    string   `json:"group_name"`
	Year         int      `json:"year"`
	Births       float64  `json:"births"`
	Active       float64  `json:"active"`
	Deaths       float64  `json:"deaths"`
	HighGrowth   float64  `json:"high_growth"`
	Survivors1Yr float64  `json:"survivors_1yr"`
	SurvivalRate *float64 `json:"survival_rate"`
}

// Float returns a pointer to v. Convenience for building records and fixtures.
func Float(v float64) *float64 {
	return &v
}
