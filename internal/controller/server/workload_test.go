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

package server

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
)

func TestStatefulSetForServerDefaults(t *testing.T) {
	srv := &v1beta1.Server{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "demo"},
	}

	sts := statefulSetForServer(srv)

	if got := *sts.Spec.Replicas; got != 1 {
		t.Errorf("default replicas = %d, want 1", got)
	}
	container := sts.Spec.Template.Spec.Containers[0]
	if container.Image != "getmeili/meilisearch:latest" {
		t.Errorf("default image = %q", container.Image)
	}
	if len(container.VolumeMounts) != 0 {
		t.Error("expected no volume mounts when StorageSize is unset")
	}
	if len(sts.Spec.VolumeClaimTemplates) != 0 {
		t.Error("expected no volume claim templates when StorageSize is unset")
	}
}

func TestStatefulSetForServerWithStorage(t *testing.T) {
	srv := &v1beta1.Server{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "demo"},
		Spec:       v1beta1.ServerSpec{StorageSize: "10Gi", Replicas: 3, HTTPPort: 7701},
	}

	sts := statefulSetForServer(srv)

	if got := *sts.Spec.Replicas; got != 3 {
		t.Errorf("replicas = %d, want 3", got)
	}
	container := sts.Spec.Template.Spec.Containers[0]
	if len(container.VolumeMounts) != 1 || container.VolumeMounts[0].MountPath != "/meili_data" {
		t.Errorf("expected a /meili_data volume mount, got %v", container.VolumeMounts)
	}
	if len(sts.Spec.VolumeClaimTemplates) != 1 {
		t.Fatalf("expected one volume claim template, got %d", len(sts.Spec.VolumeClaimTemplates))
	}
	quantity := sts.Spec.VolumeClaimTemplates[0].Spec.Resources.Requests[corev1.ResourceStorage]
	if quantity.String() != "10Gi" {
		t.Errorf("volume claim size = %s, want 10Gi", quantity.String())
	}
}

func TestServiceForServerDefaults(t *testing.T) {
	srv := &v1beta1.Server{ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "demo"}}
	svc := serviceForServer(srv)

	if svc.Spec.Type != corev1.ServiceTypeClusterIP {
		t.Errorf("default service type = %s, want ClusterIP", svc.Spec.Type)
	}
	if svc.Spec.Ports[0].Port != 7700 {
		t.Errorf("default port = %d, want 7700", svc.Spec.Ports[0].Port)
	}
	if svc.Name != "demo" {
		t.Errorf("service name = %q, want demo", svc.Name)
	}
	if svc.Spec.Selector["app"] != "demo" {
		t.Errorf("selector[app] = %q, want demo", svc.Spec.Selector["app"])
	}
}
