package model

// Weekday is a day-of-week key used for both storage and display,
// in MON..SUN order.
type Weekday string

const (
	Monday    Weekday = "MON"
	Tuesday   Weekday = "TUE"
	Wednesday Weekday = "WED"
	Thursday  Weekday = "THU"
	Friday    Weekday = "FRI"
	Saturday  Weekday = "SAT"
	Sunday    Weekday = "SUN"
)

// AllWeekdays lists every weekday in fixed display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (w Weekday) IsValid() bool {
	_, ok := weekdayLabels[w]
	return ok
}

// Label returns the long display name, e.g. "Monday" for MON.
func (w Weekday) Label() string {
	return weekdayLabels[w]
}

// Position represents a staffing role in the department catalog
type Position struct {
	ID   string
	Name string
}

// Positions is the fixed position catalog. IDs are unique and used as
// map keys in Shift.Positions.
var Positions = []Position{
	{ID: "patrol", Name: "Patrol Officer"},
	{ID: "sergeant", Name: "Sergeant"},
	{ID: "lieutenant", Name: "Lieutenant"},
	{ID: "captain", Name: "Captain"},
	{ID: "detective", Name: "Detective"},
	{ID: "specialist", Name: "Specialist"},
}

// PositionByID looks up a catalog position by its identifier.
func PositionByID(id string) (Position, bool) {
	for _, p := range Positions {
		if p.ID == id {
			return p, true
		}
	}
	return Position{}, false
}

// Shift represents a recurring duty block: the weekdays it runs on, its
// start/end times and the headcount required per position. Times are
// "HH:MM" 24-hour strings; an end at or before the start means the shift
// wraps past midnight.
type Shift struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Days      []Weekday      `json:"days"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Positions map[string]int `json:"positions"`
}

// TotalHeadcount sums the required headcount across all positions.
func (s Shift) TotalHeadcount() int {
	total := 0
	for _, n := range s.Positions {
		total += n
	}
	return total
}

// CallVolume records the incident count logged for one weekday/hour slot.
// At most one record exists per (Day, Hour) pair; updates replace it.
type CallVolume struct {
	Day       Weekday `json:"day"`
	Hour      int     `json:"hour"`
	Incidents int     `json:"incidents"`
}
