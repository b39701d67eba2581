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

package shared

import (
	"testing"
)

func TestEqUnordered(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want bool
	}{
		{"both empty", nil, nil, true},
		{"same order", []string{"a", "b"}, []string{"a", "b"}, true},
		{"different order", []string{"a", "b", "c"}, []string{"c", "a", "b"}, true},
		{"dedup", []string{"a", "a", "b"}, []string{"a", "b"}, true},
		{"different lengths", []string{"a"}, []string{"a", "b"}, false},
		{"different contents", []string{"a", "b"}, []string{"a", "c"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqUnordered(tt.a, tt.b); got != tt.want {
				t.Errorf("EqUnordered(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameStringOpt(t *testing.T) {
	if !SameStringOpt("", "anything") {
		t.Error("empty spec value should accept any remote value")
	}
	if !SameStringOpt("foo", "foo") {
		t.Error("matching values should be equal")
	}
	if SameStringOpt("foo", "bar") {
		t.Error("mismatched values should not be equal")
	}
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey() error = %v", err)
	}
	if len(key) != 64 {
		t.Errorf("GenerateMasterKey() length = %d, want 64", len(key))
	}
	for _, r := range key {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			t.Errorf("GenerateMasterKey() contains non-alphanumeric rune %q", r)
		}
	}

	second, err := GenerateMasterKey()
	if err != nil {
		t.Fatalf("GenerateMasterKey() second call error = %v", err)
	}
	if key == second {
		t.Error("GenerateMasterKey() produced the same key twice")
	}
}

func TestMasterKeySecretName(t *testing.T) {
	if got := MasterKeySecretName("demo"); got != "demo-meili-master" {
		t.Errorf("MasterKeySecretName() = %q", got)
	}
}

func TestMirrorSecretName(t *testing.T) {
	if got := MirrorSecretName("ns", "demo"); got != "ns-demo-meili-master" {
		t.Errorf("MirrorSecretName() = %q", got)
	}
}
