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

package v1beta1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ServerSpec defines the desired state of Server
type ServerSpec struct {
	// Image is the meilisearch container image to run.
	// +optional
	// +kubebuilder:default="getmeili/meilisearch:latest"
	Image string `json:"image,omitempty"`

	// Replicas is the number of instances of the workload.
	// +optional
	// +kubebuilder:default=1
	Replicas int32 `json:"replicas,omitempty"`

	// StorageSize, when set, attaches a PersistentVolumeClaim of this size
	// (e.g. "10Gi") mounted at /meili_data.
	// +optional
	StorageSize string `json:"storageSize,omitempty"`

	// ServiceType is the exposure mode for the in-cluster Service.
	// +optional
	// +kubebuilder:default=ClusterIP
	ServiceType corev1.ServiceType `json:"serviceType,omitempty"`

	// HTTPPort is the port meilisearch listens on.
	// +optional
	// +kubebuilder:default=7700
	HTTPPort int32 `json:"httpPort,omitempty"`
}

// ServerStatus defines the observed state of Server.
type ServerStatus struct {
	// Ready reports whether the server passed the health wait of the most
	// recent sync that reached it.
	// +optional
	Ready bool `json:"ready,omitempty"`

	// Endpoint is the resolved in-cluster URL of the server.
	// +optional
	Endpoint string `json:"endpoint,omitempty"`

	// Message carries additional human-readable status detail.
	// +optional
	Message string `json:"message,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=msrv
// +kubebuilder:printcolumn:name="Ready",type=boolean,JSONPath=`.status.ready`
// +kubebuilder:printcolumn:name="Endpoint",type=string,JSONPath=`.status.endpoint`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// Server is the Schema for the servers API
type Server struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired state of Server
	// +required
	Spec ServerSpec `json:"spec"`

	// status defines the observed state of Server
	// +optional
	Status ServerStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// ServerList contains a list of Server
type ServerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []Server `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Server{}, &ServerList{})
}
