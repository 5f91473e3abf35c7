package models

// Linked records one remembered connection: the device's identity, the name
// it had when last seen, and the transport it arrived over.
type Linked struct {
	ID       DeviceID `yaml:"id"`
	Name     string   `yaml:"name"`
	LinkKind string   `yaml:"link_kind"`
}

// Connections is the durable device record, stored as connections.yaml.
// Paired holds identities the user has approved; it may reference devices
// from earlier runs that have not been rediscovered yet, but it never gains
// an identity the backend has not reported at least once.
type Connections struct {
	Version         int        `yaml:"version"`
	Paired          []DeviceID `yaml:"paired"`
	LastConnections []Linked   `yaml:"last_connections"`
}

// NewConnections returns an empty config at the current schema version.
func NewConnections() Connections {
	return Connections{Version: 1}
}

// IsPaired reports whether id is in the paired set.
func (c *Connections) IsPaired(id DeviceID) bool {
	for _, p := range c.Paired {
		if p == id {
			return true
		}
	}
	return false
}

// AddPaired inserts id into the paired set. Returns false if it was
// already present.
func (c *Connections) AddPaired(id DeviceID) bool {
	if c.IsPaired(id) {
		return false
	}
	c.Paired = append(c.Paired, id)
	return true
}

// RemovePaired deletes id from the paired set. Returns false if it was
// not present.
func (c *Connections) RemovePaired(id DeviceID) bool {
	for i, p := range c.Paired {
		if p == id {
			c.Paired = append(c.Paired[:i], c.Paired[i+1:]...)
			return true
		}
	}
	return false
}

// Remember inserts or refreshes the last-connection entry for link's
// identity. An already-present identity has its stored name and link kind
// updated in place rather than duplicated. Returns true if anything changed.
func (c *Connections) Remember(link Linked) bool {
	for i, l := range c.LastConnections {
		if l.ID == link.ID {
			if l.Name == link.Name && l.LinkKind == link.LinkKind {
				return false
			}
			c.LastConnections[i] = link
			return true
		}
	}
	c.LastConnections = append(c.LastConnections, link)
	return true
}

// Clone returns a deep copy, safe to hand to another goroutine or to a
// pending save while the original keeps mutating.
func (c *Connections) Clone() Connections {
	out := Connections{Version: c.Version}
	if len(c.Paired) > 0 {
		out.Paired = append([]DeviceID(nil), c.Paired...)
	}
	if len(c.LastConnections) > 0 {
		out.LastConnections = append([]Linked(nil), c.LastConnections...)
	}
	return out
}
