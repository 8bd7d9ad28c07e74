package hvvroutes

// Sensor display states.
const (
	StateNoDestination = "No Destination Set"
	StateNoRoutes      = "No Routes Found"
	StateError         = "Error"
)

// RouteAttribute is the attribute record published for one journey.
type RouteAttribute struct {
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
	Line          string `json:"line"`
	Direction     string `json:"direction"`
}

// Attributes echoes the coordinator's route configuration plus, when a
// result is present, one entry per journey.
type Attributes struct {
	HomeStation        string           `json:"home_station"`
	HomeCity           string           `json:"home_city"`
	DestinationStation string           `json:"destination_station"`
	DestinationCity    string           `json:"destination_city"`
	DepartureTime      string           `json:"departure_time"`
	Routes             []RouteAttribute `json:"routes,omitempty"`
}

// RouteSensor is a read-only projection of a coordinator's latest result. It
// never mutates coordinator state and its accessors never fail; the host
// reads them on every display refresh.
type RouteSensor struct {
	name     string
	entityID string
	coord    *Coordinator
}

// NewRouteSensor creates a sensor bound to the given coordinator.
func NewRouteSensor(coord *Coordinator, name, entityID string) *RouteSensor {
	return &RouteSensor{name: name, entityID: entityID, coord: coord}
}

func (s *RouteSensor) Name() string     { return s.name }
func (s *RouteSensor) EntityID() string { return s.entityID }
func (s *RouteSensor) Icon() string     { return "mdi:bus-clock" }

// State returns the soonest journey's time label, or one of the display
// states when there is nothing to show.
func (s *RouteSensor) State() string {
	res := s.coord.Result()
	switch res.Status {
	case StatusFailed:
		return StateError
	case StatusNoDestination:
		return StateNoDestination
	}
	if len(res.Journeys) == 0 {
		return StateNoRoutes
	}
	return res.Journeys[0].TimeLabel()
}

// Attributes returns the route configuration echo plus per-journey records.
// Line and direction come from each journey's first leg only.
func (s *RouteSensor) Attributes() Attributes {
	route := s.coord.Route()
	attrs := Attributes{
		HomeStation:        route.HomeStation,
		HomeCity:           route.HomeCity,
		DestinationStation: route.DestinationStation,
		DestinationCity:    route.DestinationCity,
		DepartureTime:      route.DepartureTime,
	}

	res := s.coord.Result()
	if res.Status != StatusOK {
		return attrs
	}

	attrs.Routes = make([]RouteAttribute, 0, len(res.Journeys))
	for _, j := range res.Journeys {
		leg := j.FirstLeg()
		attrs.Routes = append(attrs.Routes, RouteAttribute{
			DepartureTime: j.PlannedDeparture,
			ArrivalTime:   j.PlannedArrival,
			Duration:      j.TimeLabel(),
			Line:          leg.Line,
			Direction:     leg.Direction,
		})
	}
	return attrs
}
