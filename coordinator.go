package hvvroutes

import (
	"context"
	"sync"
	"time"

	"github.com/Rishi8078/hvv-routes-assistant/gti"
	"github.com/rs/zerolog/log"
)

// ScanInterval is the fixed polling cadence. Not configurable.
const ScanInterval = 15 * time.Minute

// RouteClient is the slice of the GTI client the coordinator depends on.
type RouteClient interface {
	GetRoute(ctx context.Context, q gti.RouteQuery) ([]gti.Journey, error)
}

// RouteConfig holds the route state for one instance. The home fields are
// fixed at setup; destination and departure time are mutated only through the
// coordinator's setters.
type RouteConfig struct {
	HomeStation        string
	HomeCity           string
	DestinationStation string
	DestinationCity    string
	DepartureTime      string // GTI time spec; empty means currenttime
}

// Coordinator owns the polling cadence and the latest RefreshResult for one
// configured route. Refreshes are serialized through refreshMu, so a
// destination change can never interleave with a query built from stale
// route fields; the result slot is replaced atomically and read as a copy.
type Coordinator struct {
	refreshMu sync.Mutex // gates refreshes: at most one in flight

	stateMu sync.RWMutex // guards client and route
	client  RouteClient
	route   RouteConfig

	resMu  sync.RWMutex
	result RefreshResult

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewCoordinator creates a coordinator for the given home location. It
// performs no network calls.
func NewCoordinator(client RouteClient, homeStation, homeCity string) *Coordinator {
	return &Coordinator{
		client:   client,
		route:    RouteConfig{HomeStation: homeStation, HomeCity: homeCity},
		interval: ScanInterval,
		stopCh:   make(chan struct{}),
	}
}

// Route returns a copy of the current route configuration.
func (c *Coordinator) Route() RouteConfig {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.route
}

// Result returns the latest refresh outcome. The journey slice is copied so
// callers never observe a partially replaced result.
func (c *Coordinator) Result() RefreshResult {
	c.resMu.RLock()
	defer c.resMu.RUnlock()
	res := c.result
	res.Journeys = append([]gti.Journey(nil), c.result.Journeys...)
	return res
}

// SetClient swaps the transit client, e.g. after a credential update.
func (c *Coordinator) SetClient(client RouteClient) {
	c.stateMu.Lock()
	c.client = client
	c.stateMu.Unlock()
}

// Refresh runs one poll cycle and stores its outcome. With no destination
// configured it returns the quiet marker without calling the client.
func (c *Coordinator) Refresh(ctx context.Context) RefreshResult {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx)
}

// refreshLocked performs the fetch; callers must hold refreshMu.
func (c *Coordinator) refreshLocked(ctx context.Context) RefreshResult {
	c.stateMu.RLock()
	client := c.client
	route := c.route
	c.stateMu.RUnlock()

	var res RefreshResult
	if route.DestinationStation == "" || route.DestinationCity == "" {
		log.Debug().Msg("destination not set, skipping route update")
		res = RefreshResult{Status: StatusNoDestination, FetchedAt: time.Now()}
	} else {
		journeys, err := client.GetRoute(ctx, gti.RouteQuery{
			StartStation:    route.HomeStation,
			StartCity:       route.HomeCity,
			DestStation:     route.DestinationStation,
			DestCity:        route.DestinationCity,
			Time:            route.DepartureTime,
			TimeIsDeparture: true,
		})
		if err != nil {
			log.Error().Err(err).
				Str("destination", route.DestinationStation).
				Msg("route refresh failed")
			res = RefreshResult{Status: StatusFailed, Err: err, FetchedAt: time.Now()}
		} else {
			res = RefreshResult{Status: StatusOK, Journeys: journeys, FetchedAt: time.Now()}
		}
	}

	c.resMu.Lock()
	c.result = res
	c.resMu.Unlock()
	return res
}

// SetDestination updates the destination and refreshes before returning, so
// the caller observes the new result or its failure immediately. The fetch
// failure, if any, is both stored and returned.
func (c *Coordinator) SetDestination(ctx context.Context, station, city string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.stateMu.Lock()
	c.route.DestinationStation = station
	c.route.DestinationCity = city
	c.stateMu.Unlock()

	log.Debug().Str("station", station).Str("city", city).Msg("destination updated")
	res := c.refreshLocked(ctx)
	if res.Status == StatusFailed {
		return res.Err
	}
	return nil
}

// SetDepartureTime updates the departure time override and refreshes
// identically. The previously set destination is preserved.
func (c *Coordinator) SetDepartureTime(ctx context.Context, timeSpec string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.stateMu.Lock()
	c.route.DepartureTime = timeSpec
	c.stateMu.Unlock()

	log.Debug().Str("time", timeSpec).Msg("departure time updated")
	res := c.refreshLocked(ctx)
	if res.Status == StatusFailed {
		return res.Err
	}
	return nil
}

// FirstRefresh is the mandatory refresh at instance setup. A failed fetch is
// returned as an error so setup can be retried later; the no-destination
// marker is a normal outcome at this point.
func (c *Coordinator) FirstRefresh(ctx context.Context) error {
	res := c.Refresh(ctx)
	if res.Status == StatusFailed {
		return res.Err
	}
	return nil
}

// Start begins the fixed-interval polling loop.
func (c *Coordinator) Start() {
	c.wg.Add(1)
	go c.pollLoop()
}

// Stop ends the polling loop and waits for it to exit. The coordinator keeps
// its last result; the owner drops the reference afterwards.
func (c *Coordinator) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

func (c *Coordinator) pollLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Refresh(context.Background())
		case <-c.stopCh:
			return
		}
	}
}
