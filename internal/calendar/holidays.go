package calendar

import "time"

// fixedHoliday is a holiday that falls on the same month/day every year.
type fixedHoliday struct {
	month      time.Month
	day        int
	name       string
	class      HolidayClass
	highDemand bool
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Año Nuevo", ClassNational, false},
	{time.January, 6, "Epifanía del Señor", ClassNational, false},
	{time.May, 1, "Fiesta del Trabajo", ClassNational, false},
	{time.August, 15, "Asunción de la Virgen", ClassNational, true},
	{time.October, 12, "Fiesta Nacional", ClassNational, false},
	{time.November, 1, "Todos los Santos", ClassNational, false},
	{time.December, 6, "Día de la Constitución", ClassNational, false},
	{time.December, 8, "Inmaculada Concepción", ClassNational, false},
	{time.December, 24, "Nochebuena", ClassLocal, true},
	{time.December, 25, "Navidad", ClassNational, true},
	{time.December, 31, "Nochevieja", ClassLocal, true},
	{time.February, 14, "San Valentín", ClassLocal, true},
}

// easterOffset is a movable holiday derived from Easter Sunday.
type easterOffset struct {
	days       int
	name       string
	class      HolidayClass
	highDemand bool
}

var easterDerived = []easterOffset{
	{-3, "Jueves Santo", ClassNational, false},
	{-2, "Viernes Santo", ClassNational, true},
	{0, "Domingo de Resurrección", ClassRegional, true},
	{1, "Lunes de Pascua", ClassRegional, false},
}

// easterSunday computes the Paschal Sunday for a Gregorian year with
// the Gauss/Meeus remainder algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// computeYear builds the full holiday set for a year, keyed by the
// 2006-01-02 date string.
func computeYear(year int) map[string]Holiday {
	out := make(map[string]Holiday, len(fixedHolidays)+len(easterDerived))

	for _, f := range fixedHolidays {
		date := time.Date(year, f.month, f.day, 0, 0, 0, 0, time.UTC)
		out[date.Format(dateLayout)] = Holiday{
			Date:       date,
			Name:       f.name,
			Class:      f.class,
			HighDemand: f.highDemand,
		}
	}

	easter := easterSunday(year)
	for _, off := range easterDerived {
		date := easter.AddDate(0, 0, off.days)
		out[date.Format(dateLayout)] = Holiday{
			Date:       date,
			Name:       off.name,
			Class:      off.class,
			HighDemand: off.highDemand,
		}
	}

	return out
}
