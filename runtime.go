package hvvroutes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rishi8078/hvv-routes-assistant/config"
	"github.com/Rishi8078/hvv-routes-assistant/gti"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// ErrSetupNotReady signals a transient setup failure; the caller should
// retry later rather than treat the instance as permanently broken.
var ErrSetupNotReady = errors.New("setup not ready")

// Instance is one configured home location: its GTI client, coordinator and
// sensor, registered under a stable id.
type Instance struct {
	ID          string
	Name        string
	Coordinator *Coordinator
	Sensor      *RouteSensor

	username string
	gtiOpts  []gti.Option
}

// EntityID derives the sensor entity id for an instance id.
func EntityID(instanceID string) string {
	return "sensor.hvv_route_" + instanceID
}

// SetupInstance builds the client, coordinator and sensor for one configured
// instance, probes the backend and runs the mandatory first refresh, then
// registers the result. Transient failures are wrapped in ErrSetupNotReady;
// rejected credentials are returned as gti.ErrInvalidAuth so callers do not
// retry them.
func SetupInstance(ctx context.Context, cfg config.Instance, reg *Registry, opts ...gti.Option) (*Instance, error) {
	client := gti.NewClient(cfg.Username, cfg.Password, opts...)

	if err := client.Init(ctx); err != nil {
		if errors.Is(err, gti.ErrInvalidAuth) {
			return nil, fmt.Errorf("instance %s: %w", cfg.ID, gti.ErrInvalidAuth)
		}
		return nil, fmt.Errorf("%w: instance %s: %v", ErrSetupNotReady, cfg.ID, err)
	}

	coord := NewCoordinator(client, cfg.HomeStation, cfg.HomeCity)
	if err := coord.FirstRefresh(ctx); err != nil {
		return nil, fmt.Errorf("%w: instance %s first refresh: %v", ErrSetupNotReady, cfg.ID, err)
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("HVV Route from %s", cfg.HomeStation)
	}

	inst := &Instance{
		ID:          cfg.ID,
		Name:        name,
		Coordinator: coord,
		Sensor:      NewRouteSensor(coord, name, EntityID(cfg.ID)),
		username:    cfg.Username,
		gtiOpts:     opts,
	}
	if err := reg.Add(inst); err != nil {
		return nil, err
	}

	log.Info().
		Str("instance", cfg.ID).
		Str("entity_id", inst.Sensor.EntityID()).
		Msg("instance ready")
	return inst, nil
}

// SetupInstanceWithRetry retries transient setup failures with exponential
// backoff until the context is cancelled, matching the host convention of
// retrying a not-ready instance later. Invalid credentials fail at once.
func SetupInstanceWithRetry(ctx context.Context, cfg config.Instance, reg *Registry, opts ...gti.Option) (*Instance, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Second
	bo.MaxInterval = 5 * time.Minute
	bo.MaxElapsedTime = 0

	var inst *Instance
	operation := func() error {
		var err error
		inst, err = SetupInstance(ctx, cfg, reg, opts...)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrSetupNotReady) {
			return backoff.Permanent(err)
		}
		log.Warn().Err(err).Str("instance", cfg.ID).Msg("setup not ready, will retry")
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return inst, nil
}

// Start begins periodic polling for this instance.
func (inst *Instance) Start() {
	inst.Coordinator.Start()
}

// Shutdown stops polling and removes the instance from the registry.
func (inst *Instance) Shutdown(reg *Registry) {
	inst.Coordinator.Stop()
	reg.Remove(inst.ID)
	log.Info().Str("instance", inst.ID).Msg("instance unloaded")
}

// UpdateCredentials re-validates the supplied credentials before swapping
// the live client. On rejection the current session stays untouched.
func (inst *Instance) UpdateCredentials(ctx context.Context, username, password string) error {
	if err := gti.ValidateCredentials(ctx, username, password, inst.gtiOpts...); err != nil {
		return err
	}

	inst.Coordinator.SetClient(gti.NewClient(username, password, inst.gtiOpts...))
	inst.username = username
	log.Info().Str("instance", inst.ID).Msg("credentials updated")
	return nil
}
