package hvvroutes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rishi8078/hvv-routes-assistant/gti"
)

func newAPIServer(t *testing.T, reg *Registry) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(0, reg).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleSensor(t *testing.T) {
	reg := NewRegistry()
	client := &fakeClient{journeys: testJourneys}
	inst := testInstance("commute", client)
	if err := reg.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv := newAPIServer(t, reg)

	resp, err := http.Get(srv.URL + "/api/sensors/sensor.hvv_route_commute")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body sensorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.EntityID != "sensor.hvv_route_commute" {
		t.Errorf("entity_id = %q", body.EntityID)
	}
	if body.State != StateNoDestination {
		t.Errorf("state = %q, want %q", body.State, StateNoDestination)
	}
}

func TestHandleSensorUnknown(t *testing.T) {
	srv := newAPIServer(t, NewRegistry())

	resp, err := http.Get(srv.URL + "/api/sensors/sensor.hvv_route_ghost")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleSetRoute(t *testing.T) {
	reg := NewRegistry()
	client := &fakeClient{journeys: testJourneys}
	inst := testInstance("commute", client)
	if err := reg.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv := newAPIServer(t, reg)

	payload := `{"entity_id":"sensor.hvv_route_commute","destination_station":"Altona","destination_city":"Hamburg"}`
	resp, err := http.Post(srv.URL+"/api/services/set_route", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if route := inst.Coordinator.Route(); route.DestinationStation != "Altona" {
		t.Errorf("route = %+v", route)
	}
}

func TestHandleSetRouteMissingCity(t *testing.T) {
	srv := newAPIServer(t, NewRegistry())

	payload := `{"entity_id":"sensor.hvv_route_commute","destination_station":"Altona"}`
	resp, err := http.Post(srv.URL+"/api/services/set_route", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	reg := NewRegistry()
	inst := testInstance("commute", &fakeClient{journeys: testJourneys})
	if err := reg.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv := newAPIServer(t, reg)

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
	if len(body.Instances) != 1 {
		t.Fatalf("got %d instances, want 1", len(body.Instances))
	}
	got := body.Instances[0]
	if got.ID != "commute" || got.RefreshStatus != "no-destination" {
		t.Errorf("instance = %+v", got)
	}
	if got.LastRefreshEpoch != 0 {
		t.Errorf("last refresh epoch = %d, want 0 before the first refresh", got.LastRefreshEpoch)
	}
}

func TestHandleCredentials(t *testing.T) {
	gtiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"returnCode":"OK"}`))
	}))
	defer gtiSrv.Close()

	reg := NewRegistry()
	inst := testInstance("commute", &fakeClient{journeys: testJourneys})
	inst.gtiOpts = []gti.Option{gti.WithBaseURL(gtiSrv.URL)}
	if err := reg.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv := newAPIServer(t, reg)

	payload := `{"username":"newuser","password":"newpass"}`
	resp, err := http.Post(srv.URL+"/api/instances/commute/credentials", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if inst.username != "newuser" {
		t.Errorf("username = %q, want newuser", inst.username)
	}
}

func TestHandleCredentialsRejected(t *testing.T) {
	gtiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer gtiSrv.Close()

	reg := NewRegistry()
	inst := testInstance("commute", &fakeClient{journeys: testJourneys})
	inst.username = "olduser"
	inst.gtiOpts = []gti.Option{gti.WithBaseURL(gtiSrv.URL)}
	if err := reg.Add(inst); err != nil {
		t.Fatalf("Add: %v", err)
	}
	srv := newAPIServer(t, reg)

	payload := `{"username":"newuser","password":"badpass"}`
	resp, err := http.Post(srv.URL+"/api/instances/commute/credentials", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if inst.username != "olduser" {
		t.Errorf("username = %q, want olduser untouched", inst.username)
	}
}
