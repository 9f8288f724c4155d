package constants

// Period is a named analytics window.
type Period string

const (
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
	PeriodSixMonths   Period = "6months"
	PeriodYear        Period = "year"
)

// Days returns the window length in days, or 0 for an unknown period.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodThreeMonths:
		return 90
	case PeriodSixMonths:
		return 180
	case PeriodYear:
		return 365
	default:
		return 0
	}
}

// Periods lists every supported window in ascending length.
func Periods() []Period {
	return []Period{PeriodWeek, PeriodMonth, PeriodThreeMonths, PeriodSixMonths, PeriodYear}
}
