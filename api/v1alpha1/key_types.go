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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// KeySpec defines the desired state of Key
type KeySpec struct {
	// ServerRef is the name of a Server in the same namespace.
	// +required
	ServerRef string `json:"serverRef"`

	// Name, if set, is the engine-side key name. Defaults to the CR's own name.
	// +optional
	Name string `json:"name,omitempty"`

	// Description, if set, is the engine-side key description.
	// +optional
	Description string `json:"description,omitempty"`

	// Actions is the list of canonical action strings this key is scoped to
	// (e.g. "search", "documents.add", "*").
	// +required
	Actions []string `json:"actions"`

	// Indexes is the list of index uids (or "*") this key is scoped to.
	// +required
	Indexes []string `json:"indexes"`

	// ExpiresAt is an optional RFC3339 expiry timestamp.
	// +optional
	ExpiresAt string `json:"expiresAt,omitempty"`

	// SecretNamespace is where the resulting key Secret is written.
	// +required
	SecretNamespace string `json:"secretNamespace"`

	// SecretName is the name of the resulting key Secret.
	// +required
	SecretName string `json:"secretName"`
}

// KeyStatus defines the observed state of Key.
type KeyStatus struct {
	// UID is the engine-assigned key identifier, when known.
	// +optional
	UID string `json:"uid,omitempty"`

	// +optional
	Ready bool `json:"ready,omitempty"`

	// +optional
	Message string `json:"message,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=mkey
// +kubebuilder:printcolumn:name="Server",type=string,JSONPath=`.spec.serverRef`
// +kubebuilder:printcolumn:name="Ready",type=boolean,JSONPath=`.status.ready`
// +kubebuilder:printcolumn:name="Message",type=string,JSONPath=`.status.message`,priority=1
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Key is the Schema for the keys API
type Key struct {
	metav1.TypeMeta `json:",inline"`

	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// +required
	Spec KeySpec `json:"spec"`

	// +optional
	Status KeyStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// KeyList contains a list of Key
type KeyList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []Key `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Key{}, &KeyList{})
}
