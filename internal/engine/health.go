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
	"fmt"
	"net/http"
	"time"
)

const (
	healthRequestTimeout = 1 * time.Second

	// DefaultHealthPollInterval is how long WaitHealthy sleeps between probes.
	DefaultHealthPollInterval = 2 * time.Second

	// DefaultHealthMaxAttempts bounds how many probes WaitHealthy will make
	// before giving up.
	DefaultHealthMaxAttempts = 120
)

// Healthy performs a single probe of GET /health, succeeding on any 2xx
// response.
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, healthRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.Endpoint+"/health", nil)
	if err != nil {
		return false, fmt.Errorf("building health request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, nil
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// WaitHealthy polls Healthy every interval (DefaultHealthPollInterval if
// zero) up to maxAttempts times (DefaultHealthMaxAttempts if zero),
// returning nil as soon as a probe succeeds, or an error once attempts are
// exhausted.
func (c *Client) WaitHealthy(ctx context.Context, interval time.Duration, maxAttempts int) error {
	if interval <= 0 {
		interval = DefaultHealthPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultHealthMaxAttempts
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		ok, err := c.Healthy(ctx)
		if err == nil && ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("%s did not become healthy after %d attempts", c.Endpoint, maxAttempts)
}
