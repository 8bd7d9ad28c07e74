package gti

import "fmt"

// RouteQuery describes one journey search between two named stations.
type RouteQuery struct {
	StartStation    string
	StartCity       string
	DestStation     string
	DestCity        string
	Time            string // GTI time spec, e.g. "currenttime" or "14:35"; empty means currenttime
	TimeIsDeparture bool
}

// Leg is a single vehicle segment of a Journey: one line, one direction.
type Leg struct {
	Line      string `json:"line"`
	Direction string `json:"direction"`
}

// Journey is one candidate trip between start and destination.
type Journey struct {
	PlannedDeparture string `json:"planned_departure"`
	PlannedArrival   string `json:"planned_arrival"`
	Duration         int    `json:"duration"` // total travel time in minutes
	Legs             []Leg  `json:"legs"`
}

// FirstLeg returns the first leg, or a zero Leg for journeys without legs.
func (j Journey) FirstLeg() Leg {
	if len(j.Legs) == 0 {
		return Leg{}
	}
	return j.Legs[0]
}

// TimeLabel is the display label for the journey's total travel time.
func (j Journey) TimeLabel() string {
	return fmt.Sprintf("%d min", j.Duration)
}

// Wire types. Field names follow the GTI schema.

type baseRequest struct {
	Version  int    `json:"version"`
	Language string `json:"language,omitempty"`
}

type sdName struct {
	Name string `json:"name"`
	City string `json:"city,omitempty"`
	Type string `json:"type"`
}

type gtiTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type routeRequest struct {
	baseRequest
	Start           sdName  `json:"start"`
	Dest            sdName  `json:"dest"`
	Time            gtiTime `json:"time"`
	TimeIsDeparture bool    `json:"timeIsDeparture"`
	Realtime        string  `json:"realtime"`
}

type baseResponse struct {
	ReturnCode   string `json:"returnCode" validate:"required"`
	ErrorText    string `json:"errorText"`
	ErrorDevInfo string `json:"errorDevInfo"`
}

func (b *baseResponse) base() *baseResponse { return b }

type lineInfo struct {
	Name      string `json:"name"`
	Direction string `json:"direction"`
}

type scheduleElement struct {
	Line lineInfo `json:"line"`
}

type realtimeSchedule struct {
	PlannedDepartureTime string            `json:"plannedDepartureTime"`
	PlannedArrivalTime   string            `json:"plannedArrivalTime"`
	Time                 int               `json:"time" validate:"gte=0"`
	ScheduleElements     []scheduleElement `json:"scheduleElements"`
}

type routeResponse struct {
	baseResponse
	RealtimeSchedules []realtimeSchedule `json:"realtimeSchedules" validate:"dive"`
}

// toJourneys converts the wire schedules to domain journeys, preserving the
// backend's ordering (soonest first).
func (r *routeResponse) toJourneys() []Journey {
	journeys := make([]Journey, 0, len(r.RealtimeSchedules))
	for _, s := range r.RealtimeSchedules {
		j := Journey{
			PlannedDeparture: s.PlannedDepartureTime,
			PlannedArrival:   s.PlannedArrivalTime,
			Duration:         s.Time,
			Legs:             make([]Leg, 0, len(s.ScheduleElements)),
		}
		for _, el := range s.ScheduleElements {
			j.Legs = append(j.Legs, Leg{Line: el.Line.Name, Direction: el.Line.Direction})
		}
		journeys = append(journeys, j)
	}
	return journeys
}
