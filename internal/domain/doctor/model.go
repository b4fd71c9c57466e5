package doctor

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo holds how the clinic reaches a doctor.
type ContactInfo struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Availability is a doctor's weekly consultation window: the weekdays they
// see patients and the daily time range, both ends inclusive.
type Availability struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// WeekdayNames are the accepted spellings for Availability.Days.
var WeekdayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// Covers reports whether t falls inside the availability window. The
// instant is evaluated in UTC. Clock times compare as zero-padded
// "15:04:05" strings, which orders correctly.
func (a Availability) Covers(t time.Time) bool {
	u := t.UTC()
	day := u.Weekday().String()
	found := false
	for _, d := range a.Days {
		if d == day {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	clock := u.Format("15:04:05")
	return a.StartTime <= clock && clock <= a.EndTime
}

// Doctor maps to the doctor table.
type Doctor struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	Name           string       `db:"name" json:"name"`
	Specialization string       `db:"specialization" json:"specialization"`
	Availability   Availability `db:"availability" json:"availability"`
	Qualifications []string     `db:"qualifications" json:"qualifications"`
	ContactInfo    ContactInfo  `db:"contact_info" json:"contactInfo"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}
