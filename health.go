package hvvroutes

import "net/http"

type instanceHealth struct {
	ID               string `json:"id"`
	EntityID         string `json:"entity_id"`
	State            string `json:"state"`
	RefreshStatus    string `json:"refresh_status"`
	LastRefreshEpoch int64  `json:"last_refresh_epoch"`
}

type healthResponse struct {
	Status    string           `json:"status"`
	Instances []instanceHealth `json:"instances"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Instances: []instanceHealth{},
	}
	for _, inst := range s.registry.Instances() {
		res := inst.Coordinator.Result()
		var epoch int64
		if !res.FetchedAt.IsZero() {
			epoch = res.FetchedAt.Unix()
		}
		resp.Instances = append(resp.Instances, instanceHealth{
			ID:               inst.ID,
			EntityID:         inst.Sensor.EntityID(),
			State:            inst.Sensor.State(),
			RefreshStatus:    res.Status.String(),
			LastRefreshEpoch: epoch,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
