package utils

import "time"

const (
	DateLayout        = "2006-01-02"
	DisplayDateLayout = "02/01/2006"
)

// Date range presets understood by the dashboard filters.
const (
	RangeNone       = ""
	RangeToday      = "hoy"
	RangeYesterday  = "ayer"
	RangeLast7Days  = "7dias"
	RangeLast30Days = "30dias"
	RangeThisMonth  = "mes"
	RangeCustom     = "personalizado"
)

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

func EndOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, loc)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, ValidationError("invalid date " + value + ", expected YYYY-MM-DD")
	}
	return t, nil
}

// DateRange is an inclusive [From, To] window. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"desde"`
	To   *time.Time `json:"hasta"`
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// ResolveDateRange turns a preset (or a custom from/to pair) into day-aligned bounds in loc.
func ResolveDateRange(preset string, from, to *time.Time, now time.Time, loc *time.Location) (DateRange, error) {
	today := StartOfDay(now, loc)
	var start, end time.Time

	switch preset {
	case RangeNone:
		return DateRange{}, nil
	case RangeToday:
		start, end = today, EndOfDay(today, loc)
	case RangeYesterday:
		y := today.AddDate(0, 0, -1)
		start, end = y, EndOfDay(y, loc)
	case RangeLast7Days:
		start, end = today.AddDate(0, 0, -6), EndOfDay(today, loc)
	case RangeLast30Days:
		start, end = today.AddDate(0, 0, -29), EndOfDay(today, loc)
	case RangeThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		end = EndOfDay(today, loc)
	case RangeCustom:
		if from == nil || to == nil {
			return DateRange{}, ValidationError("custom range requires both desde and hasta")
		}
		start, end = StartOfDay(*from, loc), EndOfDay(*to, loc)
		if start.After(end) {
			return DateRange{}, ValidationError("desde must not be after hasta")
		}
	default:
		return DateRange{}, ValidationError("invalid range " + preset)
	}

	return DateRange{From: &start, To: &end}, nil
}
