// Package ics exports submitted events as an iCalendar feed.
package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "eventadmin/internal/log"
	"eventadmin/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	productID  = "-//eventadmin//Admin Events//EN"
)

// ExportConfig controls how free-text dates and times are interpreted.
type ExportConfig struct {
	// Location is the zone entered dates/times are read in. If nil, time.UTC.
	Location *time.Location
	// CalendarName is written as X-WR-CALNAME when set.
	CalendarName string
	// Now stamps DTSTAMP. If zero, time.Now() is used.
	Now time.Time
}

// SkippedEvent records a list entry that could not be placed on a calendar.
type SkippedEvent struct {
	Index int
	Title string
	Err   error
}

// ExportResult is the serialized calendar plus the entries left out of it.
type ExportResult struct {
	Body     string
	Exported int
	Skipped  []SkippedEvent
}

// Export builds a VCALENDAR with one VEVENT per submitted event whose date
// and times parse as YYYY-MM-DD and HH:MM. Entries that do not parse are
// reported in Skipped; the input slice is never modified.
//
// An end time earlier than the start time is taken to fall on the next day.
// Approved events are CONFIRMED, the rest TENTATIVE.
func Export(events []model.Event, cfg ExportConfig) ExportResult {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if cfg.CalendarName != "" {
		cal.SetXWRCalName(cfg.CalendarName)
	}

	var res ExportResult
	for i, ev := range events {
		start, end, err := EventTimes(ev, loc)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedEvent{Index: i, Title: ev.Title, Err: err})
			appLog.Debug("ics export: skipping event", "index", i, "title", ev.Title, "err", err)
			continue
		}

		ve := cal.AddEvent(eventUID(i, ev))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		ve.SetDescription(ev.Description)
		ve.SetLocation(ev.Location)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		if ev.AdminApproval {
			ve.SetStatus(ical.ObjectStatusConfirmed)
		} else {
			ve.SetStatus(ical.ObjectStatusTentative)
		}
		res.Exported++
	}

	res.Body = cal.Serialize()
	return res
}

// EventTimes parses the date and start/end times of ev in loc.
func EventTimes(ev model.Event, loc *time.Location) (start, end time.Time, err error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(ev.Date), loc)
	if err != nil {
		return start, end, fmt.Errorf("date %q: %w", ev.Date, errBadDateTime)
	}
	sh, sm, err := clock(ev.StartTime)
	if err != nil {
		return start, end, fmt.Errorf("start time %q: %w", ev.StartTime, err)
	}
	eh, em, err := clock(ev.EndTime)
	if err != nil {
		return start, end, fmt.Errorf("end time %q: %w", ev.EndTime, err)
	}

	// Built from wall-clock parts so DST transitions keep the entered time.
	start = time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	endDay := day
	if eh < sh || (eh == sh && em < sm) {
		endDay = day.AddDate(0, 0, 1)
	}
	end = time.Date(endDay.Year(), endDay.Month(), endDay.Day(), eh, em, 0, 0, loc)
	return start, end, nil
}

var errBadDateTime = errors.New("not a calendar date/time")

func clock(s string) (hour, minute int, err error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, errBadDateTime
	}
	return t.Hour(), t.Minute(), nil
}

// eventUID is stable for a given list position and content. Submitted
// events carry no identity of their own and duplicates are allowed, so
// the position keeps identical entries apart.
func eventUID(index int, ev model.Event) string {
	h := sha256.New()
	for _, cell := range ev.Row() {
		h.Write([]byte(cell))
		h.Write([]byte{0})
	}
	sum := hex.EncodeToString(h.Sum(nil)[:8])
	return fmt.Sprintf("%d-%s@eventadmin", index+1, sum)
}
