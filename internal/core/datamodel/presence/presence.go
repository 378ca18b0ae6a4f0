package presence

import (
	"math"
	"time"
)

// Presence is one clock-in/clock-out interval. ExitTime stays nil while
// the interval is open and is set exactly once when it closes.
type Presence struct {
	ID        int64      `gorm:"primaryKey"`
	Matricule string     `gorm:"column:matricule;not null;index"`
	EntryTime time.Time  `gorm:"column:heure_entree;not null"`
	ExitTime  *time.Time `gorm:"column:heure_sortie"`
}

func (Presence) TableName() string {
	return "presences"
}

func (p *Presence) IsOpen() bool {
	return p.ExitTime == nil
}

// WorkedHours returns the interval duration in hours rounded to 2 decimals,
// or nil while the interval is open.
func (p *Presence) WorkedHours() *float64 {
	if p.ExitTime == nil {
		return nil
	}
	hours := p.ExitTime.Sub(p.EntryTime).Hours()
	rounded := math.Round(hours*100) / 100
	return &rounded
}
