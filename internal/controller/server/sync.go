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
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1alpha1"
	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/engine"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

// syncModified brings the cluster state for srv in line with its spec:
// master-key secret, mirrored secret, Service and StatefulSet, and a
// health-gated readiness status.
func (r *ServerReconciler) syncModified(ctx context.Context, srv *v1beta1.Server) error {
	logger := logf.FromContext(ctx)

	if err := r.ensureMasterKeySecret(ctx, srv); err != nil {
		return fmt.Errorf("ensuring master key secret: %w", err)
	}
	if err := r.mirrorMasterKeySecret(ctx, srv); err != nil {
		return fmt.Errorf("mirroring master key secret: %w", err)
	}

	svc := serviceForServer(srv)
	if err := r.applyOwned(ctx, srv, svc); err != nil {
		return fmt.Errorf("applying service: %w", err)
	}

	sts := statefulSetForServer(srv)
	if err := r.applyOwned(ctx, srv, sts); err != nil {
		return fmt.Errorf("applying statefulset: %w", err)
	}

	endpoint := shared.Endpoint(srv.Namespace, srv.Name, shared.ResolvePort(srv.Spec.HTTPPort))
	srv.Status.Endpoint = endpoint

	masterKey, err := shared.GetMasterKey(ctx, r.Client, srv.Namespace, srv.Name)
	if err != nil {
		return fmt.Errorf("reading master key: %w", err)
	}

	conn := r.EngineConnectionPool.GetOrCreate(srv.Namespace+"/"+srv.Name, endpoint, masterKey)
	logger.Info(fmt.Sprintf("waiting for server %s/%s to become healthy", srv.Namespace, srv.Name))
	if err := conn.Client.WaitHealthy(ctx, engine.DefaultHealthPollInterval, engine.DefaultHealthMaxAttempts); err != nil {
		srv.Status.Ready = false
		srv.Status.Message = "waiting for meilisearch to become healthy"
		return err
	}

	srv.Status.Ready = true
	srv.Status.Message = "meilisearch is healthy"
	return nil
}

// applyOwned server-side-applies obj, owned by srv, using this operator's
// field manager with forced ownership.
func (r *ServerReconciler) applyOwned(ctx context.Context, srv *v1beta1.Server, obj client.Object) error {
	if err := controllerutil.SetControllerReference(srv, obj, r.Scheme); err != nil {
		return err
	}
	return r.applyForce(ctx, obj)
}

// applyForce server-side-applies obj using this operator's field manager
// with forced ownership and no owner reference, for objects that live
// outside the owning resource's namespace.
func (r *ServerReconciler) applyForce(ctx context.Context, obj client.Object) error {
	return r.Patch(ctx, obj, client.Apply, client.FieldOwner(shared.FieldManager), client.ForceOwnership)
}

// ensureMasterKeySecret generates and persists the master key the first
// time it's needed, and regenerates it if the Secret exists but is
// somehow missing the masterKey entry.
func (r *ServerReconciler) ensureMasterKeySecret(ctx context.Context, srv *v1beta1.Server) error {
	name := shared.MasterKeySecretName(srv.Name)
	existing := &corev1.Secret{}
	err := r.Get(ctx, client.ObjectKey{Namespace: srv.Namespace, Name: name}, existing)
	if err == nil {
		if len(existing.Data[shared.MasterKeySecretKey]) > 0 {
			return nil
		}
		key, err := shared.GenerateMasterKey()
		if err != nil {
			return err
		}
		if existing.Data == nil {
			existing.Data = map[string][]byte{}
		}
		existing.Data[shared.MasterKeySecretKey] = []byte(key)
		return r.Update(ctx, existing)
	}
	if !apierrors.IsNotFound(err) {
		return err
	}

	key, err := shared.GenerateMasterKey()
	if err != nil {
		return err
	}
	return shared.EnsureSecret(ctx, r.Client, r.Scheme, srv.Namespace, name,
		map[string]string{shared.MasterKeySecretKey: key}, srv)
}

// mirrorMasterKeySecret copies the master key into the operator's own
// namespace under a namespace-qualified name via server-side apply, with
// no owner reference since the mirror lives outside the Server's own
// namespace, so a rotated master key is kept in sync with the mirror.
func (r *ServerReconciler) mirrorMasterKeySecret(ctx context.Context, srv *v1beta1.Server) error {
	masterKey, err := shared.GetMasterKey(ctx, r.Client, srv.Namespace, srv.Name)
	if err != nil {
		return err
	}
	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Namespace: shared.OperatorNamespace(),
			Name:      shared.MirrorSecretName(srv.Namespace, srv.Name),
		},
		Data: map[string][]byte{shared.MasterKeySecretKey: []byte(masterKey)},
		Type: corev1.SecretTypeOpaque,
	}
	return r.applyForce(ctx, secret)
}

// syncDelete cascades deletion of this Server's children: every Index and
// Key referencing it loses its finalizer and is deleted directly (their own
// reconcilers would otherwise try, and fail, to reach a Server that is
// already gone), then the mirrored secret is removed.
func (r *ServerReconciler) syncDelete(ctx context.Context, srv *v1beta1.Server) error {
	if err := r.cascadeDeleteIndexes(ctx, srv); err != nil {
		return err
	}
	if err := r.cascadeDeleteKeys(ctx, srv); err != nil {
		return err
	}
	mirrorName := shared.MirrorSecretName(srv.Namespace, srv.Name)
	return shared.DeleteSecretIgnoreNotFound(ctx, r.Client, shared.OperatorNamespace(), mirrorName)
}

func (r *ServerReconciler) cascadeDeleteIndexes(ctx context.Context, srv *v1beta1.Server) error {
	list := &v1alpha1.IndexList{}
	if err := r.List(ctx, list, client.InNamespace(srv.Namespace)); err != nil {
		return err
	}
	for i := range list.Items {
		idx := &list.Items[i]
		if idx.Spec.ServerRef != srv.Name {
			continue
		}
		if err := shared.RemoveFinalizerAndDelete(ctx, r.Client, idx); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServerReconciler) cascadeDeleteKeys(ctx context.Context, srv *v1beta1.Server) error {
	list := &v1alpha1.KeyList{}
	if err := r.List(ctx, list, client.InNamespace(srv.Namespace)); err != nil {
		return err
	}
	for i := range list.Items {
		k := &list.Items[i]
		if k.Spec.ServerRef != srv.Name {
			continue
		}
		if err := shared.RemoveFinalizerAndDelete(ctx, r.Client, k); err != nil {
			return err
		}
	}
	return nil
}
