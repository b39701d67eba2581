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

// knownActions lists the canonical action strings this operator recognizes.
// Anything outside this set is still passed through verbatim to the engine
// (which has its own, possibly newer, list of valid actions) so a Key
// resource is never blocked on this operator's knowledge being stale.
var knownActions = map[string]struct{}{
	"*":                  {},
	"search":             {},
	"documents.add":      {},
	"documents.get":      {},
	"documents.delete":   {},
	"indexes.create":     {},
	"indexes.get":        {},
	"indexes.update":     {},
	"indexes.delete":     {},
	"tasks.get":          {},
	"settings.get":       {},
	"settings.update":    {},
	"stats.get":          {},
	"dumps.create":       {},
	"snapshots.create":   {},
	"version":            {},
	"keys.get":           {},
	"keys.create":        {},
	"keys.update":        {},
	"keys.delete":        {},
}

// IsKnownAction reports whether action is one this operator recognizes.
// An unrecognized action is not an error: the engine is the source of
// truth for which actions exist, and rejecting one this operator merely
// doesn't know about yet would make a Meilisearch upgrade a breaking
// change for this operator.
func IsKnownAction(action string) bool {
	_, ok := knownActions[action]
	return ok
}
