package session

import (
	"fmt"
	"time"

	"stafflink/internal/models"

	"go.etcd.io/bbolt"
)

var bucketSessions = []byte("sessions")

// BboltStore is the durable session store: identities survive portal
// restarts, like a browser's persistent storage.
type BboltStore struct {
	db *bbolt.DB
}

func NewBboltStore(path string) (*BboltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BboltStore{db: db}, nil
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}

func (s *BboltStore) Get(kind models.IdentityKind) (models.Identity, error) {
	var identity models.Identity
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSessions).Get(storageKey(kind))
		if data == nil {
			return models.ErrNotFound
		}
		var record DBIdentity
		if err := record.UnmarshalBinary(data); err != nil {
			return fmt.Errorf("failed to unmarshal session record: %w", err)
		}
		identity = record.toModel()
		return nil
	})
	return identity, err
}

func (s *BboltStore) Set(kind models.IdentityKind, identity models.Identity) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := toDB(identity).MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to marshal session record: %w", err)
		}
		return tx.Bucket(bucketSessions).Put(storageKey(kind), data)
	})
}

func (s *BboltStore) Clear(kind models.IdentityKind) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete(storageKey(kind))
	})
}
