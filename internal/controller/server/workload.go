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
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

const dataVolumeName = "data"

func labelsForServer(srv *v1beta1.Server) map[string]string {
	return map[string]string{"app": srv.Name}
}

func serviceForServer(srv *v1beta1.Server) *corev1.Service {
	port := shared.ResolvePort(srv.Spec.HTTPPort)
	serviceType := srv.Spec.ServiceType
	if serviceType == "" {
		serviceType = corev1.ServiceTypeClusterIP
	}

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      shared.ServiceName(srv.Name),
			Namespace: srv.Namespace,
			Labels:    labelsForServer(srv),
		},
		Spec: corev1.ServiceSpec{
			Type:     serviceType,
			Selector: labelsForServer(srv),
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Port:       port,
					TargetPort: intstr.FromInt32(port),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

func statefulSetForServer(srv *v1beta1.Server) *appsv1.StatefulSet {
	port := shared.ResolvePort(srv.Spec.HTTPPort)
	image := srv.Spec.Image
	if image == "" {
		image = "getmeili/meilisearch:latest"
	}
	replicas := srv.Spec.Replicas
	if replicas == 0 {
		replicas = 1
	}
	labels := labelsForServer(srv)

	container := corev1.Container{
		Name:  "meilisearch",
		Image: image,
		Args:  []string{"meilisearch", "--http-addr", fmt.Sprintf("0.0.0.0:%d", port)},
		Ports: []corev1.ContainerPort{{Name: "http", ContainerPort: port}},
		Env: []corev1.EnvVar{
			{
				Name: "MEILI_MASTER_KEY",
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{Name: shared.MasterKeySecretName(srv.Name)},
						Key:                  shared.MasterKeySecretKey,
					},
				},
			},
		},
		LivenessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{Path: "/health", Port: intstr.FromInt32(port)},
			},
			InitialDelaySeconds: 5,
			PeriodSeconds:       5,
			TimeoutSeconds:      2,
		},
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				HTTPGet: &corev1.HTTPGetAction{Path: "/health", Port: intstr.FromInt32(port)},
			},
			InitialDelaySeconds: 3,
			PeriodSeconds:       5,
			TimeoutSeconds:      2,
		},
	}

	var volumeClaimTemplates []corev1.PersistentVolumeClaim
	if srv.Spec.StorageSize != "" {
		container.VolumeMounts = []corev1.VolumeMount{
			{Name: dataVolumeName, MountPath: "/meili_data"},
		}
		quantity, err := resource.ParseQuantity(srv.Spec.StorageSize)
		if err == nil {
			volumeClaimTemplates = []corev1.PersistentVolumeClaim{
				{
					ObjectMeta: metav1.ObjectMeta{Name: dataVolumeName},
					Spec: corev1.PersistentVolumeClaimSpec{
						AccessModes: []corev1.PersistentVolumeAccessMode{corev1.ReadWriteOnce},
						Resources: corev1.VolumeResourceRequirements{
							Requests: corev1.ResourceList{corev1.ResourceStorage: quantity},
						},
					},
				},
			}
		}
	}

	whenDeleted := appsv1.DeletePersistentVolumeClaimRetentionPolicyType
	whenScaled := appsv1.RetainPersistentVolumeClaimRetentionPolicyType

	return &appsv1.StatefulSet{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "StatefulSet"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      shared.StatefulSetName(srv.Name),
			Namespace: srv.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: shared.ServiceName(srv.Name),
			Replicas:    &replicas,
			Selector:    &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
				},
			},
			VolumeClaimTemplates: volumeClaimTemplates,
			PersistentVolumeClaimRetentionPolicy: &appsv1.StatefulSetPersistentVolumeClaimRetentionPolicy{
				WhenDeleted: whenDeleted,
				WhenScaled:  whenScaled,
			},
		},
	}
}
