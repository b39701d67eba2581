/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package pools holds reconciler-shared caches.
package pools

import (
	"sync"

	"meilisearch-operator.freepik.com/meilisearch-operator/internal/engine"
)

// EngineConnection pairs a cached engine client with the endpoint/master
// key it was built from, so a pooled entry can be invalidated when either
// changes.
type EngineConnection struct {
	Endpoint  string
	MasterKey string
	Client    *engine.Client
}

// EngineConnectionsStore caches one EngineConnection per Server, keyed by
// "namespace/name".
type EngineConnectionsStore struct {
	mu    sync.RWMutex
	Store map[string]*EngineConnection
}

// NewEngineConnectionsStore returns an empty, ready-to-use store.
func NewEngineConnectionsStore() *EngineConnectionsStore {
	return &EngineConnectionsStore{
		Store: make(map[string]*EngineConnection),
	}
}

// Get returns the cached connection for key, if any.
func (s *EngineConnectionsStore) Get(key string) (*EngineConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conn, exists := s.Store[key]
	return conn, exists
}

// Set stores (or replaces) the connection for key.
func (s *EngineConnectionsStore) Set(key string, connection *EngineConnection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Store[key] = connection
}

// Delete removes the cached connection for key, if any.
func (s *EngineConnectionsStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Store, key)
}

// GetAll returns a shallow copy of every cached connection.
func (s *EngineConnectionsStore) GetAll() map[string]*EngineConnection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*EngineConnection, len(s.Store))
	for k, v := range s.Store {
		out[k] = v
	}
	return out
}

// GetOrCreate returns the cached connection for key if its endpoint and
// master key still match, otherwise builds, caches and returns a fresh one.
func (s *EngineConnectionsStore) GetOrCreate(key, endpoint, masterKey string) *EngineConnection {
	if conn, exists := s.Get(key); exists && conn.Endpoint == endpoint && conn.MasterKey == masterKey {
		return conn
	}
	conn := &EngineConnection{
		Endpoint:  endpoint,
		MasterKey: masterKey,
		Client:    engine.New(endpoint, masterKey),
	}
	s.Set(key, conn)
	return conn
}
