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

package index

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1alpha1"
	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/engine"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

// syncModified ensures idx's index exists on its referenced Server and, if
// requested, that an admin key for it is materialized as a Secret.
func (r *IndexReconciler) syncModified(ctx context.Context, idx *v1alpha1.Index) error {
	srv, err := shared.GetServer(ctx, r.Client, idx.Namespace, idx.Spec.ServerRef)
	if err != nil {
		return fmt.Errorf("getting referenced server %s: %w", idx.Spec.ServerRef, err)
	}
	if !srv.DeletionTimestamp.IsZero() {
		return fmt.Errorf("server %s is being deleted", idx.Spec.ServerRef)
	}

	eng, err := r.engineFor(ctx, srv)
	if err != nil {
		return err
	}

	if err := eng.EnsureIndex(ctx, idx.Spec.UID, idx.Spec.PrimaryKey); err != nil {
		return fmt.Errorf("ensuring index %s: %w", idx.Spec.UID, err)
	}

	idx.Status.Ready = true
	idx.Status.Message = fmt.Sprintf("index %s synced", idx.Spec.UID)

	if idx.Spec.AdminKey != nil && idx.Spec.AdminKey.Create {
		adopted, err := r.ensureAdminKey(ctx, idx, eng)
		if err != nil {
			return fmt.Errorf("ensuring admin key: %w", err)
		}
		if adopted {
			idx.Status.Message = "adopted existing admin key"
		}
	}

	return nil
}

func (r *IndexReconciler) engineFor(ctx context.Context, srv *v1beta1.Server) (*engine.Client, error) {
	masterKey, err := shared.GetMasterKey(ctx, r.Client, srv.Namespace, srv.Name)
	if err != nil {
		return nil, fmt.Errorf("reading master key for server %s: %w", srv.Name, err)
	}
	endpoint := shared.Endpoint(srv.Namespace, srv.Name, shared.ResolvePort(srv.Spec.HTTPPort))
	conn := r.EngineConnectionPool.GetOrCreate(srv.Namespace+"/"+srv.Name, endpoint, masterKey)
	return conn.Client, nil
}

// ensureAdminKey adopts a pre-existing structural admin key for this index
// if one exists on the engine, otherwise mints one, then writes its value
// into the requested Secret. The returned bool reports whether an existing
// key was adopted rather than a new one minted.
func (r *IndexReconciler) ensureAdminKey(ctx context.Context, idx *v1alpha1.Index, eng *engine.Client) (bool, error) {
	items, err := eng.ListAllKeys(ctx)
	if err != nil {
		return false, err
	}

	var value string
	adopted := false
	for _, item := range items {
		if engine.MatchesAdmin(item, idx.Spec.UID) {
			value = item.Key
			adopted = true
			break
		}
	}

	if value == "" {
		created, err := eng.CreateKey(engine.CreateKeyParams{
			Name:        fmt.Sprintf("%s-admin", idx.Spec.UID),
			Description: fmt.Sprintf("Admin key for index %s", idx.Spec.UID),
			Actions:     []string{"*"},
			Indexes:     []string{idx.Spec.UID},
		})
		if err != nil {
			return false, fmt.Errorf("minting admin key for index %s: %w", idx.Spec.UID, err)
		}
		value = created.Value
	}

	secretNamespace := idx.Spec.AdminKey.SecretNamespace
	if secretNamespace == "" {
		secretNamespace = idx.Namespace
	}
	secretName := idx.Spec.AdminKey.SecretName
	if secretName == "" {
		secretName = fmt.Sprintf("%s-admin-key", idx.Spec.UID)
	}

	existing := &corev1.Secret{}
	err = r.Get(ctx, client.ObjectKey{Namespace: secretNamespace, Name: secretName}, existing)
	if err == nil {
		if existing.StringData == nil {
			existing.StringData = map[string]string{}
		}
		existing.StringData["key"] = value
		return adopted, r.Update(ctx, existing)
	}
	if !apierrors.IsNotFound(err) {
		return false, err
	}

	var owner client.Object
	if secretNamespace == idx.Namespace {
		owner = idx
	}
	if err := shared.EnsureSecret(ctx, r.Client, r.Scheme, secretNamespace, secretName,
		map[string]string{"key": value}, owner); err != nil {
		return false, err
	}
	return adopted, nil
}

// syncDelete deletes idx's index on the engine, unless its Server is
// already being deleted (in which case the workload, and the index with
// it, is already gone) or the resource opted out of delete-on-finalize.
func (r *IndexReconciler) syncDelete(ctx context.Context, idx *v1alpha1.Index) error {
	deleting, err := shared.ServerIsDeleting(ctx, r.Client, idx.Namespace, idx.Spec.ServerRef)
	if err != nil {
		return err
	}
	if deleting || !idx.Spec.DeleteOnFinalize {
		return nil
	}

	srv, err := shared.GetServer(ctx, r.Client, idx.Namespace, idx.Spec.ServerRef)
	if err != nil {
		return err
	}
	eng, err := r.engineFor(ctx, srv)
	if err != nil {
		return err
	}
	return eng.DeleteIndex(ctx, idx.Spec.UID)
}
