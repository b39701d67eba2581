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

// Package engine wraps the Meilisearch admin API: index and key mutation
// through the official SDK, plus the two endpoints (key listing and the
// health probe) the SDK doesn't cover, reached directly over HTTP.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// Client is a thin wrapper around a meilisearch-go ServiceManager bound to
// one Server's endpoint and master key.
type Client struct {
	Endpoint  string
	MasterKey string
	sdk       meilisearch.ServiceManager
}

// New dials a Meilisearch instance. It does not itself verify reachability;
// callers should use WaitHealthy for that.
func New(endpoint, masterKey string) *Client {
	sdk := meilisearch.New(endpoint, meilisearch.WithAPIKey(masterKey))
	return &Client{Endpoint: endpoint, MasterKey: masterKey, sdk: sdk}
}

// EnsureIndex creates uid with the given primary key if it does not already
// exist, and waits for the creation task to finish. An already-existing
// index is treated as success.
func (c *Client) EnsureIndex(ctx context.Context, uid, primaryKey string) error {
	cfg := &meilisearch.IndexConfig{Uid: uid}
	if primaryKey != "" {
		cfg.PrimaryKey = primaryKey
	}
	task, err := c.sdk.CreateIndex(cfg)
	if err != nil {
		if isIndexAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("creating index %s: %w", uid, err)
	}
	if err := c.waitForTask(ctx, task.TaskUID); err != nil {
		return fmt.Errorf("waiting for index %s creation: %w", uid, err)
	}
	return nil
}

// DeleteIndex removes uid and waits for the deletion task. A missing index
// is treated as success.
func (c *Client) DeleteIndex(ctx context.Context, uid string) error {
	task, err := c.sdk.DeleteIndex(uid)
	if err != nil {
		if isIndexNotFound(err) {
			return nil
		}
		return fmt.Errorf("deleting index %s: %w", uid, err)
	}
	if err := c.waitForTask(ctx, task.TaskUID); err != nil {
		return fmt.Errorf("waiting for index %s deletion: %w", uid, err)
	}
	return nil
}

func (c *Client) waitForTask(ctx context.Context, taskUID int64) error {
	finalTask, err := c.sdk.WaitForTask(taskUID, 0)
	if err != nil {
		return err
	}
	if finalTask.Status == meilisearch.TaskStatusFailed {
		if finalTask.Error.Message != "" {
			return fmt.Errorf("task %d failed: %s", taskUID, finalTask.Error.Message)
		}
		return fmt.Errorf("task %d failed", taskUID)
	}
	return nil
}

// CreateKeyParams mirrors the subset of meilisearch.Key used when minting
// a new API key.
type CreateKeyParams struct {
	Name        string
	Description string
	Actions     []string
	Indexes     []string
	ExpiresAt   *time.Time
}

// CreatedKey is the engine-assigned result of CreateKey.
type CreatedKey struct {
	UID   string
	Value string
}

// CreateKey mints a new API key on the engine.
func (c *Client) CreateKey(params CreateKeyParams) (CreatedKey, error) {
	key := &meilisearch.Key{
		Name:        params.Name,
		Description: params.Description,
		Actions:     params.Actions,
		Indexes:     params.Indexes,
	}
	if params.ExpiresAt != nil {
		key.ExpiresAt = *params.ExpiresAt
	}
	created, err := c.sdk.CreateKey(key)
	if err != nil {
		return CreatedKey{}, fmt.Errorf("creating key: %w", err)
	}
	return CreatedKey{UID: created.UID, Value: created.Key}, nil
}

// DeleteKey removes a key by its engine UID. A missing key is treated as
// success.
func (c *Client) DeleteKey(uid string) error {
	if _, err := c.sdk.DeleteKey(uid); err != nil {
		if isKeyNotFound(err) {
			return nil
		}
		return fmt.Errorf("deleting key %s: %w", uid, err)
	}
	return nil
}

func isIndexAlreadyExists(err error) bool {
	return matchesMeilisearchCode(err, "index_already_exists")
}

func isIndexNotFound(err error) bool {
	return matchesMeilisearchCode(err, "index_not_found")
}

func isKeyNotFound(err error) bool {
	return matchesMeilisearchCode(err, "api_key_not_found")
}

func matchesMeilisearchCode(err error, code string) bool {
	apiErr, ok := err.(*meilisearch.Error)
	if !ok {
		return false
	}
	return apiErr.MeilisearchApiError.Code == code
}
