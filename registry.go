package hvvroutes

import (
	"fmt"
	"sort"
	"sync"
)

// Registry tracks live instances and resolves sensor entity ids back to the
// instance that owns them. The runtime owns one Registry and passes it by
// reference to whoever dispatches commands; there is no ambient process-wide
// storage.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	entities  map[string]string // entity id -> instance id
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: map[string]*Instance{},
		entities:  map[string]string{},
	}
}

// Add registers an instance and its sensor entity.
func (r *Registry) Add(inst *Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[inst.ID]; ok {
		return fmt.Errorf("instance %s already registered", inst.ID)
	}
	r.instances[inst.ID] = inst
	r.entities[inst.Sensor.EntityID()] = inst.ID
	return nil
}

// Remove drops an instance; part of instance teardown.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return
	}
	delete(r.entities, inst.Sensor.EntityID())
	delete(r.instances, id)
}

// Instance looks up an instance by id.
func (r *Registry) Instance(id string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	return inst, ok
}

// InstanceForEntity resolves a sensor entity id to its owning instance.
func (r *Registry) InstanceForEntity(entityID string) (*Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.entities[entityID]
	if !ok {
		return nil, false
	}
	inst, ok := r.instances[id]
	return inst, ok
}

// Instances returns all registered instances sorted by id.
func (r *Registry) Instances() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
