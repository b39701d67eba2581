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

// Package shared holds constants and small helpers used by all three
// reconcilers (server, index, key).
package shared

import "time"

const (
	// ResourceFinalizer is attached to every Server, Index and Key object
	// so deletion can run cascade/cleanup logic before the object is removed.
	ResourceFinalizer = "meili.operator.dev/finalizer"

	// FieldManager identifies this operator's writes in server-side apply.
	FieldManager = "meilisearch-operator"

	// MasterKeySecretKey is the key inside a master-key Secret's Data map.
	MasterKeySecretKey = "masterKey"

	// DefaultOperatorNamespaceEnv is the environment variable OperatorNamespace
	// reads to learn the operator's own namespace, used for mirrored
	// master-key secrets.
	DefaultOperatorNamespaceEnv = "OPERATOR_NAMESPACE"

	// DefaultOperatorNamespace is used when OPERATOR_NAMESPACE is unset.
	DefaultOperatorNamespace = "meilisearch-operator"
)

// Status phase names. No reconciler writes them: Server, Index and Key
// statuses report a Ready flag and a Message instead.
const (
	PhasePending  = "Pending"
	PhaseReady    = "Ready"
	PhaseDeleting = "Deleting"
	PhaseError    = "Error"
)

// Requeue intervals, one success/error pair per reconciler.
const (
	ServerSuccessRequeue = 300 * time.Second
	ServerErrorRequeue   = 30 * time.Second

	IndexSuccessRequeue = 600 * time.Second
	IndexErrorRequeue   = 60 * time.Second

	KeySuccessRequeue = 1200 * time.Second
	KeyErrorRequeue   = 60 * time.Second
)
