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
	"crypto/rand"
	"fmt"
)

const masterKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultHTTPPort is the port meilisearch listens on when a Server leaves
// spec.httpPort unset.
const DefaultHTTPPort int32 = 7700

// ResolvePort returns port, or DefaultHTTPPort when port is unset.
func ResolvePort(port int32) int32 {
	if port == 0 {
		return DefaultHTTPPort
	}
	return port
}

// GenerateMasterKey returns a 64-character alphanumeric key suitable for
// use as a Meilisearch master key.
func GenerateMasterKey() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating master key: %w", err)
	}
	out := make([]byte, 64)
	for i, b := range buf {
		out[i] = masterKeyAlphabet[int(b)%len(masterKeyAlphabet)]
	}
	return string(out), nil
}

// EqUnordered reports whether a and b contain the same elements,
// ignoring order and duplicates.
func EqUnordered[T comparable](a, b []T) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	seenA := make(map[T]struct{}, len(a))
	for _, v := range a {
		seenA[v] = struct{}{}
	}
	seenB := make(map[T]struct{}, len(b))
	for _, v := range b {
		seenB[v] = struct{}{}
	}
	if len(seenA) != len(seenB) {
		return false
	}
	for v := range seenA {
		if _, ok := seenB[v]; !ok {
			return false
		}
	}
	return true
}

// SameStringOpt compares an optional (possibly empty) spec value against
// a remote value: an empty spec value accepts any remote value.
func SameStringOpt(specValue, remoteValue string) bool {
	if specValue == "" {
		return true
	}
	return specValue == remoteValue
}

// MasterKeySecretName returns the in-namespace Secret name holding a
// Server's master key.
func MasterKeySecretName(serverName string) string {
	return fmt.Sprintf("%s-meili-master", serverName)
}

// MirrorSecretName returns the operator-namespace mirror Secret name for
// a Server's master key, qualified by the Server's own namespace so
// Servers of the same name in different namespaces don't collide.
func MirrorSecretName(serverNamespace, serverName string) string {
	return fmt.Sprintf("%s-%s-meili-master", serverNamespace, serverName)
}

// ServiceName returns the in-cluster Service name for a Server: identical
// to the Server's own name.
func ServiceName(serverName string) string {
	return serverName
}

// StatefulSetName returns the StatefulSet name for a Server: identical to
// the Server's own name.
func StatefulSetName(serverName string) string {
	return serverName
}

// Endpoint returns the in-cluster HTTP endpoint for a Server.
func Endpoint(serverNamespace, serverName string, port int32) string {
	return fmt.Sprintf("http://%s.%s.svc.cluster.local:%d", ServiceName(serverName), serverNamespace, port)
}
