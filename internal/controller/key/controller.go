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

// Package key implements the Key reconciler: it reuses a key value
// already present in the target Secret when one is found there, adopts a
// matching pre-existing engine key failing that, and otherwise mints a
// new one, writing the resulting value into the requested Secret.
package key

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1alpha1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/pools"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

// KeyReconciler reconciles a Key object.
type KeyReconciler struct {
	client.Client
	Scheme               *runtime.Scheme
	EngineConnectionPool *pools.EngineConnectionsStore
}

// +kubebuilder:rbac:groups=meili.operator.dev,resources=keys,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=meili.operator.dev,resources=keys/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=meili.operator.dev,resources=keys/finalizers,verbs=update
// +kubebuilder:rbac:groups=meili.operator.dev,resources=servers,verbs=get;list;watch
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch;delete

func (r *KeyReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, err error) {
	logger := logf.FromContext(ctx)

	key := &v1alpha1.Key{}
	if err = r.Get(ctx, req.NamespacedName, key); err != nil {
		return result, client.IgnoreNotFound(err)
	}

	if !key.DeletionTimestamp.IsZero() {
		if controllerutil.ContainsFinalizer(key, shared.ResourceFinalizer) {
			if delErr := r.syncDelete(ctx, key); delErr != nil {
				logger.Error(delErr, fmt.Sprintf("failed deleting key %s", req.NamespacedName))
				return ctrl.Result{RequeueAfter: shared.KeyErrorRequeue}, nil
			}
			controllerutil.RemoveFinalizer(key, shared.ResourceFinalizer)
			if err = r.Update(ctx, key); err != nil {
				return result, err
			}
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(key, shared.ResourceFinalizer) {
		controllerutil.AddFinalizer(key, shared.ResourceFinalizer)
		if err = r.Update(ctx, key); err != nil {
			return result, err
		}
	}

	defer func() {
		if statusErr := r.Status().Update(ctx, key); statusErr != nil {
			logger.Error(statusErr, fmt.Sprintf("failed updating status for key %s", req.NamespacedName))
		}
	}()

	if syncErr := r.syncModified(ctx, key); syncErr != nil {
		r.setError(key, syncErr)
		logger.Error(syncErr, fmt.Sprintf("failed syncing key %s", req.NamespacedName))
		return ctrl.Result{RequeueAfter: shared.KeyErrorRequeue}, nil
	}

	return ctrl.Result{RequeueAfter: shared.KeySuccessRequeue}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *KeyReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.Key{}).
		Named("key").
		WithEventFilter(predicate.GenerationChangedPredicate{}).
		Complete(r)
}
