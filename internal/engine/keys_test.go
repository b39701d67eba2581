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

import "testing"

func strPtr(s string) *string { return &s }

func TestMatchesAdmin(t *testing.T) {
	item := KeyItem{
		Name:        "movies-admin",
		Description: "Admin key for index movies",
		Actions:     []string{"*"},
		Indexes:     []string{"movies"},
	}
	if !MatchesAdmin(item, "movies") {
		t.Error("expected structural admin key to match")
	}
	if MatchesAdmin(item, "other") {
		t.Error("expected mismatched uid to fail")
	}

	notAdmin := item
	notAdmin.Actions = []string{"search"}
	if MatchesAdmin(notAdmin, "movies") {
		t.Error("expected non-wildcard actions to fail admin match")
	}
}

func TestMatchesSpec(t *testing.T) {
	item := KeyItem{
		Name:        "my-key",
		Description: "a key",
		Actions:     []string{"search", "documents.add"},
		Indexes:     []string{"movies"},
		ExpiresAt:   strPtr("2030-01-01T00:00:00Z"),
	}

	exact := KeySpecMatch{
		Name:        "my-key",
		Description: "a key",
		Actions:     []string{"documents.add", "search"},
		Indexes:     []string{"movies"},
		ExpiresAt:   "2030-01-01T00:00:00Z",
	}
	if !MatchesSpec(item, exact) {
		t.Error("expected exact spec to match")
	}

	wrongName := exact
	wrongName.Name = "other-name"
	if MatchesSpec(item, wrongName) {
		t.Error("expected mismatched name to fail exact match")
	}
	if !MatchesSpecRelaxed(item, wrongName) {
		t.Error("expected relaxed match to ignore name mismatch")
	}

	noExpirySpec := exact
	noExpirySpec.ExpiresAt = ""
	if !MatchesSpec(item, noExpirySpec) {
		t.Error("expected empty spec expiry to accept any remote expiry")
	}

	specWantsExpiryButNone := exact
	noExpiryItem := item
	noExpiryItem.ExpiresAt = nil
	if MatchesSpec(noExpiryItem, specWantsExpiryButNone) {
		t.Error("expected spec expiry with no remote expiry to fail")
	}
}

func TestMatchesSpecRelaxedRequiresActionsAndIndexes(t *testing.T) {
	item := KeyItem{Actions: []string{"search"}, Indexes: []string{"movies"}}
	spec := KeySpecMatch{Actions: []string{"search"}, Indexes: []string{"books"}}
	if MatchesSpecRelaxed(item, spec) {
		t.Error("expected mismatched indexes to fail even in relaxed match")
	}
}
