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
	"context"
	"fmt"
	"os"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// OperatorNamespace returns the namespace the operator process itself
// runs in, from OPERATOR_NAMESPACE, defaulting when unset.
func OperatorNamespace() string {
	if ns := os.Getenv(DefaultOperatorNamespaceEnv); ns != "" {
		return ns
	}
	return DefaultOperatorNamespace
}

// GetMasterKey reads the master key for serverName out of its in-namespace
// Secret.
func GetMasterKey(ctx context.Context, c client.Client, namespace, serverName string) (string, error) {
	secret := &corev1.Secret{}
	name := MasterKeySecretName(serverName)
	if err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, secret); err != nil {
		return "", fmt.Errorf("getting master key secret %s/%s: %w", namespace, name, err)
	}
	key, ok := secret.Data[MasterKeySecretKey]
	if !ok {
		return "", fmt.Errorf("secret %s/%s missing key %q", namespace, name, MasterKeySecretKey)
	}
	if len(key) == 0 {
		return "", fmt.Errorf("secret %s/%s has empty master key data", namespace, name)
	}
	return string(key), nil
}

// EnsureSecret creates (or tolerates an already-existing) Secret holding
// stringData. If owner is non-nil, a controller owner reference is set via
// controllerutil.SetControllerReference before creation — callers must only
// pass a non-nil owner when namespace == owner.GetNamespace(), since
// cross-namespace owner references are rejected by the API server.
func EnsureSecret(ctx context.Context, c client.Client, scheme *runtime.Scheme, namespace, name string, stringData map[string]string, owner client.Object) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: namespace,
			Name:      name,
		},
		StringData: stringData,
		Type:       corev1.SecretTypeOpaque,
	}

	if owner != nil {
		if err := controllerutil.SetControllerReference(owner, secret, scheme); err != nil {
			return fmt.Errorf("setting owner reference on secret %s/%s: %w", namespace, name, err)
		}
	}

	if err := c.Create(ctx, secret); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("creating secret %s/%s: %w", namespace, name, err)
	}
	return nil
}

// DeleteSecretIgnoreNotFound deletes a Secret, tolerating NotFound.
func DeleteSecretIgnoreNotFound(ctx context.Context, c client.Client, namespace, name string) error {
	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
	}
	if err := c.Delete(ctx, secret); err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("deleting secret %s/%s: %w", namespace, name, err)
	}
	return nil
}
