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

package key

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1alpha1"
)

func newFakeClient(t *testing.T, objs ...runtime.Object) *fake.ClientBuilder {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		t.Fatalf("adding corev1 to scheme: %v", err)
	}
	if err := v1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("adding v1alpha1 to scheme: %v", err)
	}
	return fake.NewClientBuilder().WithScheme(scheme).WithRuntimeObjects(objs...)
}

func TestExistingSecretValuePrefersStringData(t *testing.T) {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "sec"},
		StringData: map[string]string{"key": "plain-value"},
		Data:       map[string][]byte{"key": []byte("binary-value")},
	}
	c := newFakeClient(t, secret).Build()
	r := &KeyReconciler{Client: c}

	k := &v1alpha1.Key{Spec: v1alpha1.KeySpec{SecretNamespace: "ns", SecretName: "sec"}}
	value, found, err := r.existingSecretValue(context.Background(), k)
	if err != nil {
		t.Fatalf("existingSecretValue() error = %v", err)
	}
	if !found {
		t.Fatal("expected value to be found")
	}
	if value != "plain-value" {
		t.Errorf("existingSecretValue() = %q, want %q (StringData should win)", value, "plain-value")
	}
}

func TestExistingSecretValueFallsBackToData(t *testing.T) {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "sec"},
		Data:       map[string][]byte{"key": []byte("binary-value")},
	}
	c := newFakeClient(t, secret).Build()
	r := &KeyReconciler{Client: c}

	k := &v1alpha1.Key{Spec: v1alpha1.KeySpec{SecretNamespace: "ns", SecretName: "sec"}}
	value, found, err := r.existingSecretValue(context.Background(), k)
	if err != nil {
		t.Fatalf("existingSecretValue() error = %v", err)
	}
	if !found || value != "binary-value" {
		t.Errorf("existingSecretValue() = (%q, %v), want (%q, true)", value, found, "binary-value")
	}
}

func TestExistingSecretValueMissing(t *testing.T) {
	c := newFakeClient(t).Build()
	r := &KeyReconciler{Client: c}

	k := &v1alpha1.Key{Spec: v1alpha1.KeySpec{SecretNamespace: "ns", SecretName: "missing"}}
	_, found, err := r.existingSecretValue(context.Background(), k)
	if err != nil {
		t.Fatalf("existingSecretValue() error = %v", err)
	}
	if found {
		t.Error("expected no value for a missing secret")
	}
}

func TestWriteSecretOwnerReferenceOnlySameNamespace(t *testing.T) {
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	_ = v1alpha1.AddToScheme(scheme)
	c := fake.NewClientBuilder().WithScheme(scheme).Build()
	r := &KeyReconciler{Client: c, Scheme: scheme}

	sameNS := &v1alpha1.Key{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "my-key"},
		Spec:       v1alpha1.KeySpec{SecretNamespace: "ns", SecretName: "my-key-secret"},
	}
	if err := r.writeSecret(context.Background(), sameNS, "value-1"); err != nil {
		t.Fatalf("writeSecret() error = %v", err)
	}

	written := &corev1.Secret{}
	if err := c.Get(context.Background(), client.ObjectKey{Namespace: "ns", Name: "my-key-secret"}, written); err != nil {
		t.Fatalf("getting written secret: %v", err)
	}
	if len(written.OwnerReferences) != 1 {
		t.Errorf("expected an owner reference for a same-namespace secret, got %d", len(written.OwnerReferences))
	}

	crossNS := &v1alpha1.Key{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns", Name: "other-key"},
		Spec:       v1alpha1.KeySpec{SecretNamespace: "other-ns", SecretName: "other-key-secret"},
	}
	if err := r.writeSecret(context.Background(), crossNS, "value-2"); err != nil {
		t.Fatalf("writeSecret() error = %v", err)
	}
	crossWritten := &corev1.Secret{}
	if err := c.Get(context.Background(), client.ObjectKey{Namespace: "other-ns", Name: "other-key-secret"}, crossWritten); err != nil {
		t.Fatalf("getting cross-namespace secret: %v", err)
	}
	if len(crossWritten.OwnerReferences) != 0 {
		t.Errorf("expected no owner reference for a cross-namespace secret, got %d", len(crossWritten.OwnerReferences))
	}
}
