package models

import "time"

// DefaultConnectionID is the reserved id of the immortal connection
// record present in every registry.
const DefaultConnectionID = "default"

// ConnectionParams holds the parameters needed to reach a target
// database. Kind discriminates the engine; only "postgres" is
// currently supported.
type ConnectionParams struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	Kind     string `json:"kind"`
}

// ConnectionRecord is one configured database connection owned by a
// registry, together with its most recent schema snapshot.
type ConnectionRecord struct {
	ID              string           `json:"id"`
	Params          ConnectionParams `json:"params"`
	IsActive        bool             `json:"is_active"`
	LastConnectedAt *time.Time       `json:"last_connected_at"`
	Schema          *SchemaSnapshot  `json:"schema,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *ConnectionRecord) Clone() *ConnectionRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.LastConnectedAt != nil {
		t := *r.LastConnectedAt
		out.LastConnectedAt = &t
	}
	out.Schema = r.Schema.Clone()
	return &out
}
