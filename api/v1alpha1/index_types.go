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

// IndexAdminKeySpec optionally provisions an admin key scoped to this index.
type IndexAdminKeySpec struct {
	// Create, when true, ensures an admin key for this index is materialized
	// as a Secret (minting one, or adopting a matching pre-existing key).
	// +optional
	Create bool `json:"create,omitempty"`

	// SecretNamespace is where the key Secret is written. Defaults to the
	// Index's own namespace.
	// +optional
	SecretNamespace string `json:"secretNamespace,omitempty"`

	// SecretName is the name of the key Secret. Defaults to "<uid>-admin-key".
	// +optional
	SecretName string `json:"secretName,omitempty"`
}

// IndexSpec defines the desired state of Index
type IndexSpec struct {
	// ServerRef is the name of a Server in the same namespace.
	// +required
	ServerRef string `json:"serverRef"`

	// UID is the index identifier on the engine.
	// +required
	UID string `json:"uid"`

	// PrimaryKey is the optional primary key field for documents in this index.
	// +optional
	PrimaryKey string `json:"primaryKey,omitempty"`

	// DeleteOnFinalize, when true, deletes the index on the engine when this
	// resource is deleted (unless the referenced Server is also being deleted).
	// +optional
	// +kubebuilder:default=false
	DeleteOnFinalize bool `json:"deleteOnFinalize,omitempty"`

	// AdminKey optionally requests an admin key scoped to this index.
	// +optional
	AdminKey *IndexAdminKeySpec `json:"adminKey,omitempty"`
}

// IndexStatus defines the observed state of Index.
type IndexStatus struct {
	// +optional
	Ready bool `json:"ready,omitempty"`

	// +optional
	Message string `json:"message,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=midx
// +kubebuilder:printcolumn:name="Server",type=string,JSONPath=`.spec.serverRef`
// +kubebuilder:printcolumn:name="Ready",type=boolean,JSONPath=`.status.ready`
// +kubebuilder:printcolumn:name="Message",type=string,JSONPath=`.status.message`,priority=1
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Index is the Schema for the indexes API
type Index struct {
	metav1.TypeMeta `json:",inline"`

	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// +required
	Spec IndexSpec `json:"spec"`

	// +optional
	Status IndexStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// IndexList contains a list of Index
type IndexList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []Index `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Index{}, &IndexList{})
}
