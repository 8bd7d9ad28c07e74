package hvvroutes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rishi8078/hvv-routes-assistant/gti"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type sensorResponse struct {
	EntityID   string     `json:"entity_id"`
	Name       string     `json:"name"`
	Icon       string     `json:"icon"`
	State      string     `json:"state"`
	Attributes Attributes `json:"attributes"`
}

func sensorPayload(s *RouteSensor) sensorResponse {
	return sensorResponse{
		EntityID:   s.EntityID(),
		Name:       s.Name(),
		Icon:       s.Icon(),
		State:      s.State(),
		Attributes: s.Attributes(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	instances := s.registry.Instances()
	out := make([]sensorResponse, 0, len(instances))
	for _, inst := range instances {
		out = append(out, sensorPayload(inst.Sensor))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSensor(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.registry.InstanceForEntity(r.PathValue("entity"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown entity")
		return
	}
	writeJSON(w, http.StatusOK, sensorPayload(inst.Sensor))
}

func (s *Server) handleSetRoute(w http.ResponseWriter, r *http.Request) {
	var call SetRouteCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := validate.Struct(call); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	SetRoute(r.Context(), s.registry, call)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.registry.Instance(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown instance")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := inst.UpdateCredentials(r.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, gti.ErrInvalidAuth):
			writeError(w, http.StatusUnauthorized, "invalid_auth")
		case errors.Is(err, gti.ErrCannotConnect):
			writeError(w, http.StatusBadGateway, "cannot_connect")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
