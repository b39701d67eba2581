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
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1alpha1"
	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/engine"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

const keySecretDataKey = "key"

// syncModified resolves key's value, in order: reuse a value already
// present in the target Secret, adopt an exactly-matching remote key,
// adopt a relaxed-matching remote key (ignoring name/description), or
// mint a new one. The resolved value is written (or confirmed) in the
// target Secret.
func (r *KeyReconciler) syncModified(ctx context.Context, key *v1alpha1.Key) error {
	srv, err := shared.GetServer(ctx, r.Client, key.Namespace, key.Spec.ServerRef)
	if err != nil {
		return fmt.Errorf("getting referenced server %s: %w", key.Spec.ServerRef, err)
	}
	if !srv.DeletionTimestamp.IsZero() {
		return fmt.Errorf("server %s is being deleted", key.Spec.ServerRef)
	}

	eng, err := r.engineFor(ctx, srv)
	if err != nil {
		return err
	}

	if existingValue, found, err := r.existingSecretValue(ctx, key); err != nil {
		return err
	} else if found {
		if item, err := eng.KeyExistsByValue(ctx, existingValue); err != nil {
			return fmt.Errorf("checking existing secret key against engine: %w", err)
		} else if item != nil {
			key.Status.Ready = true
			key.Status.Message = "using key from existing Secret"
			return nil
		}
	}

	items, err := eng.ListAllKeys(ctx)
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}

	spec := engine.KeySpecMatch{
		Name:        key.Spec.Name,
		Description: key.Spec.Description,
		Actions:     key.Spec.Actions,
		Indexes:     key.Spec.Indexes,
		ExpiresAt:   key.Spec.ExpiresAt,
	}

	for _, item := range items {
		if engine.MatchesSpec(item, spec) {
			return r.adopt(ctx, key, item, "adopted existing key")
		}
	}
	for _, item := range items {
		if engine.MatchesSpecRelaxed(item, spec) {
			return r.adopt(ctx, key, item, "adopted similar existing key")
		}
	}

	return r.create(ctx, key, eng)
}

// unknownActions returns the subset of actions this operator doesn't
// recognize, which are still sent to the engine as-is.
func unknownActions(actions []string) []string {
	var unknown []string
	for _, a := range actions {
		if !engine.IsKnownAction(a) {
			unknown = append(unknown, a)
		}
	}
	return unknown
}

// adopt does not record the engine uid into status, matching
// original_source's adoption paths, which also leave uid unset; only a
// freshly created key's uid is remembered (used to delete it again later).
func (r *KeyReconciler) adopt(ctx context.Context, key *v1alpha1.Key, item engine.KeyItem, message string) error {
	if err := r.writeSecret(ctx, key, item.Key); err != nil {
		return err
	}
	key.Status.Ready = true
	key.Status.Message = message
	return nil
}

func (r *KeyReconciler) create(ctx context.Context, key *v1alpha1.Key, eng *engine.Client) error {
	name := key.Spec.Name
	if name == "" {
		name = key.Name
	}

	if unknown := unknownActions(key.Spec.Actions); len(unknown) > 0 {
		logf.FromContext(ctx).Info(fmt.Sprintf("key %s/%s passing through unrecognized actions %v", key.Namespace, key.Name, unknown))
	}

	var expiresAt *time.Time
	if key.Spec.ExpiresAt != "" {
		if t, err := time.Parse(time.RFC3339, key.Spec.ExpiresAt); err == nil {
			expiresAt = &t
		}
	}

	created, err := eng.CreateKey(engine.CreateKeyParams{
		Name:        name,
		Description: key.Spec.Description,
		Actions:     key.Spec.Actions,
		Indexes:     key.Spec.Indexes,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return fmt.Errorf("creating key: %w", err)
	}

	if err := r.writeSecret(ctx, key, created.Value); err != nil {
		return err
	}

	key.Status.UID = created.UID
	key.Status.Ready = true
	key.Status.Message = "created new key"
	return nil
}

func (r *KeyReconciler) writeSecret(ctx context.Context, key *v1alpha1.Key, value string) error {
	existing := &corev1.Secret{}
	err := r.Get(ctx, client.ObjectKey{Namespace: key.Spec.SecretNamespace, Name: key.Spec.SecretName}, existing)
	if err == nil {
		if existing.StringData == nil {
			existing.StringData = map[string]string{}
		}
		existing.StringData[keySecretDataKey] = value
		return r.Update(ctx, existing)
	}
	if !apierrors.IsNotFound(err) {
		return err
	}

	var owner client.Object
	if key.Spec.SecretNamespace == key.Namespace {
		owner = key
	}
	return shared.EnsureSecret(ctx, r.Client, r.Scheme, key.Spec.SecretNamespace, key.Spec.SecretName,
		map[string]string{keySecretDataKey: value}, owner)
}

// existingSecretValue reads a pre-existing value for this key's Secret, if
// the Secret already exists and carries one, checking StringData before
// Data (mirroring how the API server itself reconciles the two fields).
func (r *KeyReconciler) existingSecretValue(ctx context.Context, key *v1alpha1.Key) (string, bool, error) {
	secret := &corev1.Secret{}
	err := r.Get(ctx, client.ObjectKey{Namespace: key.Spec.SecretNamespace, Name: key.Spec.SecretName}, secret)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if v, ok := secret.StringData[keySecretDataKey]; ok && v != "" {
		return v, true, nil
	}
	if v, ok := secret.Data[keySecretDataKey]; ok && len(v) > 0 {
		return string(v), true, nil
	}
	return "", false, nil
}

func (r *KeyReconciler) engineFor(ctx context.Context, srv *v1beta1.Server) (*engine.Client, error) {
	masterKey, err := shared.GetMasterKey(ctx, r.Client, srv.Namespace, srv.Name)
	if err != nil {
		return nil, fmt.Errorf("reading master key for server %s: %w", srv.Name, err)
	}
	endpoint := shared.Endpoint(srv.Namespace, srv.Name, shared.ResolvePort(srv.Spec.HTTPPort))
	conn := r.EngineConnectionPool.GetOrCreate(srv.Namespace+"/"+srv.Name, endpoint, masterKey)
	return conn.Client, nil
}

// syncDelete removes key's engine-side key, unless its Server is already
// being deleted or the resource never successfully obtained a uid.
func (r *KeyReconciler) syncDelete(ctx context.Context, key *v1alpha1.Key) error {
	if key.Status.UID == "" {
		return nil
	}
	deleting, err := shared.ServerIsDeleting(ctx, r.Client, key.Namespace, key.Spec.ServerRef)
	if err != nil {
		return err
	}
	if deleting {
		return nil
	}

	srv, err := shared.GetServer(ctx, r.Client, key.Namespace, key.Spec.ServerRef)
	if err != nil {
		return err
	}
	eng, err := r.engineFor(ctx, srv)
	if err != nil {
		return err
	}
	return eng.DeleteKey(key.Status.UID)
}
