package presence

import (
	"time"

	presenceDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/presence"
)

// Presence is one attendance interval: Open (entry recorded, exit
// pending) until the exit action closes it; Closed is terminal.
type Presence struct {
	ID        int64
	Matricule string
	EntryTime time.Time
	ExitTime  *time.Time
}

func (p *Presence) IsOpen() bool {
	return p.ExitTime == nil
}

// WorkedHours returns the interval duration in hours rounded to 2
// decimals, or nil while the interval is still open.
func (p *Presence) WorkedHours() *float64 {
	return (&presenceDatamodel.Presence{
		EntryTime: p.EntryTime,
		ExitTime:  p.ExitTime,
	}).WorkedHours()
}

// DayWindow returns the half-open calendar-day range
// [local midnight, next local midnight) containing t.
func DayWindow(t time.Time) (start, end time.Time) {
	year, month, day := t.Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}

func ToDataModel(p *Presence) *presenceDatamodel.Presence {
	return &presenceDatamodel.Presence{
		ID:        p.ID,
		Matricule: p.Matricule,
		EntryTime: p.EntryTime,
		ExitTime:  p.ExitTime,
	}
}

func FromDataModel(p *presenceDatamodel.Presence) *Presence {
	return &Presence{
		ID:        p.ID,
		Matricule: p.Matricule,
		EntryTime: p.EntryTime,
		ExitTime:  p.ExitTime,
	}
}

func FromDataModelSlice(presences []*presenceDatamodel.Presence) []*Presence {
	result := make([]*Presence, len(presences))
	for i, p := range presences {
		result[i] = FromDataModel(p)
	}
	return result
}
