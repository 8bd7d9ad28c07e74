package hvvroutes

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// EntityIDs accepts either a single entity id string or a list of them,
// matching the service-call convention.
type EntityIDs []string

func (e *EntityIDs) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*e = EntityIDs{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = many
	return nil
}

// SetRouteCall is the payload of the set_route command.
type SetRouteCall struct {
	EntityID           EntityIDs `json:"entity_id" validate:"required,min=1"`
	DestinationStation string    `json:"destination_station" validate:"required"`
	DestinationCity    string    `json:"destination_city" validate:"required"`
	DepartureTime      string    `json:"departure_time,omitempty"`
}

// SetRoute retargets each addressed sensor's coordinator. Failures are
// isolated per target: unresolved entities and failed refreshes are logged
// and the rest of the batch continues; nothing is propagated to the caller.
func SetRoute(ctx context.Context, reg *Registry, call SetRouteCall) {
	for _, entityID := range call.EntityID {
		inst, ok := reg.InstanceForEntity(entityID)
		if !ok {
			log.Warn().Str("entity_id", entityID).Msg("no instance found for entity")
			continue
		}

		coord := inst.Coordinator
		if err := coord.SetDestination(ctx, call.DestinationStation, call.DestinationCity); err != nil {
			log.Error().Err(err).Str("entity_id", entityID).Msg("failed to set destination")
			continue
		}

		if call.DepartureTime != "" {
			if err := coord.SetDepartureTime(ctx, call.DepartureTime); err != nil {
				log.Error().Err(err).Str("entity_id", entityID).Msg("failed to set departure time")
				continue
			}
		}

		log.Info().
			Str("entity_id", entityID).
			Str("station", call.DestinationStation).
			Str("city", call.DestinationCity).
			Msg("route set")
	}
}
