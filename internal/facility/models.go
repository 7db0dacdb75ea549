// Package facility is the directory collaborator that resolves
// human-readable facility entries to the opaque addresses the registry
// records. The registry itself never sees names or types; callers pick from
// this directory and submit addresses.
package facility

import (
	id "docvault/pkg/domain"
)

// Facility is one directory entry.
type Facility struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Address id.FacilityID `json:"address"`
	Type    string        `json:"type"`
}
