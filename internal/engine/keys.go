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

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

const (
	listKeysPageLimit    = 1000
	listKeysRequestDelay = 5 * time.Second
)

// KeyItem is one entry from GET /keys, the fields this operator needs to
// match a remote key against a Key resource's spec.
type KeyItem struct {
	UID         string   `json:"uid"`
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
	Indexes     []string `json:"indexes"`
	ExpiresAt   *string  `json:"expiresAt"`
}

type keysPage struct {
	Results []KeyItem `json:"results"`
	Offset  int       `json:"offset"`
	Limit   int       `json:"limit"`
	Total   int       `json:"total"`
}

// ListAllKeys paginates through GET /keys (offset/limit=1000 per page,
// Bearer master-key auth, 5s timeout per request) until every key has been
// collected.
func (c *Client) ListAllKeys(ctx context.Context) ([]KeyItem, error) {
	var all []KeyItem
	offset := 0
	for {
		page, err := c.listKeysPage(ctx, offset, listKeysPageLimit)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Results...)
		offset += len(page.Results)
		if len(page.Results) == 0 || offset >= page.Total {
			break
		}
	}
	return all, nil
}

func (c *Client) listKeysPage(ctx context.Context, offset, limit int) (*keysPage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, listKeysRequestDelay)
	defer cancel()

	url := fmt.Sprintf("%s/keys?offset=%d&limit=%d", c.Endpoint, offset, limit)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building key list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.MasterKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("listing keys: unexpected status %d", resp.StatusCode)
	}

	var page keysPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding key list response: %w", err)
	}
	return &page, nil
}

// KeyExistsByValue reports whether any remote key has exactly the given
// raw value, used when a Key resource is told to reuse an existing Secret.
func (c *Client) KeyExistsByValue(ctx context.Context, value string) (*KeyItem, error) {
	items, err := c.ListAllKeys(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Key == value {
			return &items[i], nil
		}
	}
	return nil, nil
}

// MatchesAdmin reports whether item is the structural admin key for the
// index identified by uid: actions == {"*"}, indexes == {uid}, name ==
// "{uid}-admin", description == "Admin key for index {uid}".
func MatchesAdmin(item KeyItem, uid string) bool {
	if !shared.EqUnordered(item.Actions, []string{"*"}) {
		return false
	}
	if !shared.EqUnordered(item.Indexes, []string{uid}) {
		return false
	}
	if item.Name != fmt.Sprintf("%s-admin", uid) {
		return false
	}
	if item.Description != fmt.Sprintf("Admin key for index %s", uid) {
		return false
	}
	return true
}

// KeySpecMatch is the subset of a Key resource's spec needed for matching
// against remote keys.
type KeySpecMatch struct {
	Name        string
	Description string
	Actions     []string
	Indexes     []string
	ExpiresAt   string
}

// MatchesSpec implements exact adoption matching: name/description use
// SameStringOpt (an empty spec value accepts any remote value), actions and
// indexes must match as unordered sets, and an expiry present in the spec
// must parse-equal the remote expiry (present in spec, absent remotely
// fails; absent in spec accepts any remote value).
func MatchesSpec(item KeyItem, spec KeySpecMatch) bool {
	if !shared.SameStringOpt(spec.Name, item.Name) {
		return false
	}
	if !shared.SameStringOpt(spec.Description, item.Description) {
		return false
	}
	if !shared.EqUnordered(spec.Actions, item.Actions) {
		return false
	}
	if !shared.EqUnordered(spec.Indexes, item.Indexes) {
		return false
	}
	return expiryMatches(spec.ExpiresAt, item.ExpiresAt)
}

// MatchesSpecRelaxed is MatchesSpec without the name/description comparison.
func MatchesSpecRelaxed(item KeyItem, spec KeySpecMatch) bool {
	if !shared.EqUnordered(spec.Actions, item.Actions) {
		return false
	}
	if !shared.EqUnordered(spec.Indexes, item.Indexes) {
		return false
	}
	return expiryMatches(spec.ExpiresAt, item.ExpiresAt)
}

func expiryMatches(specExpiry string, remoteExpiry *string) bool {
	if specExpiry == "" {
		return true
	}
	if remoteExpiry == nil {
		return false
	}
	specTime, err := time.Parse(time.RFC3339, specExpiry)
	if err != nil {
		return false
	}
	remoteTime, err := time.Parse(time.RFC3339, *remoteExpiry)
	if err != nil {
		return false
	}
	return specTime.Equal(remoteTime)
}
