package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/labstack/echo/v4"
)

// handleCalendarStatusICS serves the calendar-status feed as an
// iCalendar document with one all-day event per covered date, so the
// plan can be subscribed to from a calendar client.
func (s *Server) handleCalendarStatusICS(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	statuses, err := s.calendar.Statuses(userID)
	if err != nil {
		return toHTTPError(err)
	}
	if len(statuses) == 0 {
		// A VCALENDAR must contain at least one component.
		return c.NoContent(http.StatusNoContent)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//MiraclePlan//Calendar//EN")

	now := time.Now().UTC()
	for _, ds := range statuses {
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%d@miracleplan", ds.Date, userID))
		vevent.Props.SetText(ical.PropSummary, string(ds.Status))
		vevent.Props.SetDate(ical.PropDateTimeStart, ds.Date.Time())
		// DTEND of an all-day event is exclusive.
		vevent.Props.SetDate(ical.PropDateTimeEnd, ds.Date.AddDays(1).Time())
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, now)
		cal.Children = append(cal.Children, vevent.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
