package session

import (
	"stafflink/internal/models"

	"github.com/vmihailenco/msgpack/v5"
)

// DBIdentity is the stored form of an identity record.
type DBIdentity struct {
	ID         int64  `msgpack:"id"`
	Kind       string `msgpack:"kind"`
	Name       string `msgpack:"name"`
	Surname    string `msgpack:"surname"`
	FullName   string `msgpack:"fullName"`
	Department string `msgpack:"department"`
	Role       string `msgpack:"role"`
}

func (d *DBIdentity) MarshalBinary() (data []byte, err error) {
	type alias DBIdentity
	return msgpack.Marshal((*alias)(d))
}

func (d *DBIdentity) UnmarshalBinary(data []byte) error {
	type alias DBIdentity
	return msgpack.Unmarshal(data, (*alias)(d))
}

func toDB(identity models.Identity) *DBIdentity {
	return &DBIdentity{
		ID:         identity.ID,
		Kind:       string(identity.Kind),
		Name:       identity.Name,
		Surname:    identity.Surname,
		FullName:   identity.FullName,
		Department: identity.Department,
		Role:       identity.Role,
	}
}

func (d *DBIdentity) toModel() models.Identity {
	return models.Identity{
		ID:         d.ID,
		Kind:       models.IdentityKind(d.Kind),
		Name:       d.Name,
		Surname:    d.Surname,
		FullName:   d.FullName,
		Department: d.Department,
		Role:       d.Role,
	}
}

// storageKey maps an identity kind to its session record key. The two keys
// are fixed; other kinds are not stored.
func storageKey(kind models.IdentityKind) []byte {
	switch kind {
	case models.KindHRStaff:
		return []byte("currentHR")
	default:
		return []byte("currentEmployee")
	}
}
