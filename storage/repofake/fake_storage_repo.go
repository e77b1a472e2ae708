package storagerepofake

import (
	"sync"

	"github.com/Slayer-Regen/ecoquest-client/storage"
)

var _ storage.Repo = (*FakeStorageRepo)(nil)

type FakeStorageRepo struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStorageRepo() *FakeStorageRepo {
	return &FakeStorageRepo{values: make(map[string]string)}
}

func (r *FakeStorageRepo) Get(key string) (string, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	value, ok := r.values[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return value, nil
}

func (r *FakeStorageRepo) Set(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = value
	return nil
}

func (r *FakeStorageRepo) Delete(key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.values, key)
	return nil
}
