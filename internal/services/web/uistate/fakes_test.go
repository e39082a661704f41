package uistate

import (
	"context"
	"errors"
	"sync"
)

type fakePreferenceStore struct {
	mu     sync.Mutex
	docs   map[string][]byte
	puts   int
	getErr error
	putErr error
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{docs: map[string][]byte{}}
}

func (f *fakePreferenceStore) GetPreference(_ context.Context, clientID, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	data, ok := f.docs[clientID+"/"+key]
	return data, ok, nil
}

func (f *fakePreferenceStore) PutPreference(_ context.Context, clientID, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.docs[clientID+"/"+key] = append([]byte(nil), payload...)
	return nil
}

func (f *fakePreferenceStore) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

var errFakeStorage = errors.New("storage down")
