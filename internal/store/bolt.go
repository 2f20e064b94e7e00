package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"
)

type BoltStore struct {
	db  *bolt.DB
	bkt []byte
}

var bucketCountdowns = []byte("countdowns")

func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	prefix := os.Getenv("DB_TABLE_PREFIX")
	bkt := []byte(prefix + string(bucketCountdowns))
	err = db.Update(func(tx *bolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bkt)
		return e
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db, bkt: bkt}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

func (s *BoltStore) LoadAll() (map[string]Countdown, error) {
	all := map[string]Countdown{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bkt)
		return b.ForEach(func(k, v []byte) error {
			var c Countdown
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			all[string(k)] = c
			return nil
		})
	})
	return all, err
}

func (s *BoltStore) Get(id string) (Countdown, error) {
	var c Countdown
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bkt)
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &c)
	})
	return c, err
}

func (s *BoltStore) Upsert(c Countdown) error {
	if c.ID == "" {
		return fmt.Errorf("countdown id required")
	}
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bkt)
		return bucket.Put([]byte(c.ID), b)
	})
}

func (s *BoltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bkt)
		return bucket.Delete([]byte(id))
	})
}
