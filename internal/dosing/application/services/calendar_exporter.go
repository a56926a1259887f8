package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/felixgeelhaar/dosewise/internal/dosing/domain"
	"github.com/google/uuid"
)

// ErrNothingToExport is returned for a schedule without intake events.
var ErrNothingToExport = errors.New("schedule has no intake events to export")

const productID = "-//Dosewise//Intake Schedule//EN"

// IntakeDuration is the length of an exported intake event.
const IntakeDuration = 15 * time.Minute

// CalendarExporter writes the intake events of a schedule as an iCalendar feed.
type CalendarExporter struct {
	scheduleRepo domain.ScheduleRepository
	stock        domain.StockReader
	intakeLog    domain.IntakeLog
	location     *time.Location
	now          func() time.Time
}

// NewCalendarExporter creates a calendar exporter. intakeLog may be nil.
func NewCalendarExporter(
	scheduleRepo domain.ScheduleRepository,
	stock domain.StockReader,
	intakeLog domain.IntakeLog,
	loc *time.Location,
) *CalendarExporter {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarExporter{
		scheduleRepo: scheduleRepo,
		stock:        stock,
		intakeLog:    intakeLog,
		location:     loc,
		now:          time.Now,
	}
}

// Export encodes the schedule to w.
func (e *CalendarExporter) Export(ctx context.Context, scheduleID uuid.UUID, w io.Writer) error {
	schedule, err := e.scheduleRepo.FindByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	events := schedule.IntakeEvents()
	if len(events) == 0 {
		return ErrNothingToExport
	}

	title := "Medication"
	if medicine, err := e.stock.Snapshot(ctx, schedule.MedicineID()); err == nil && medicine.Name != "" {
		title = medicine.Name
	}

	var taken map[string]time.Time
	if e.intakeLog != nil {
		if taken, err = e.intakeLog.TakenFor(ctx, scheduleID); err != nil {
			return fmt.Errorf("read intake log: %w", err)
		}
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText("X-WR-CALNAME", title)

	stamp := e.now().UTC()
	for _, ev := range events {
		_, done := taken[ev.ID]
		cal.Children = append(cal.Children, e.toEvent(ev, title, stamp, done).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func (e *CalendarExporter) toEvent(ev domain.IntakeEvent, title string, stamp time.Time, taken bool) *ical.Event {
	start := ev.At(e.location)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, ev.ID+"@dosewise")
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(IntakeDuration).UTC())
	event.Props.SetText(ical.PropSummary, title)

	description := ev.DoseDescription
	if taken && description != "" {
		description += "\nTaken"
	} else if taken {
		description = "Taken"
	}
	if description != "" {
		event.Props.SetText(ical.PropDescription, description)
	}

	if !taken {
		alarm := ical.NewComponent(ical.CompAlarm)
		alarm.Props.SetText(ical.PropAction, "DISPLAY")
		alarm.Props.SetText(ical.PropDescription, title)
		trigger := ical.NewProp(ical.PropTrigger)
		trigger.Value = "PT0M"
		alarm.Props.Set(trigger)
		event.Children = append(event.Children, alarm)
	}
	return event
}
