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

// Package index implements the Index reconciler: it creates (or adopts)
// an index on the referenced Server and, optionally, mints or adopts an
// admin key scoped to it.
package index

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

// IndexReconciler reconciles an Index object.
type IndexReconciler struct {
	client.Client
	Scheme               *runtime.Scheme
	EngineConnectionPool *pools.EngineConnectionsStore
}

// +kubebuilder:rbac:groups=meili.operator.dev,resources=indexes,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=meili.operator.dev,resources=indexes/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=meili.operator.dev,resources=indexes/finalizers,verbs=update
// +kubebuilder:rbac:groups=meili.operator.dev,resources=servers,verbs=get;list;watch
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch;delete

func (r *IndexReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, err error) {
	logger := logf.FromContext(ctx)

	idx := &v1alpha1.Index{}
	if err = r.Get(ctx, req.NamespacedName, idx); err != nil {
		return result, client.IgnoreNotFound(err)
	}

	if !idx.DeletionTimestamp.IsZero() {
		if controllerutil.ContainsFinalizer(idx, shared.ResourceFinalizer) {
			if delErr := r.syncDelete(ctx, idx); delErr != nil {
				logger.Error(delErr, fmt.Sprintf("failed deleting index %s", req.NamespacedName))
				return ctrl.Result{RequeueAfter: shared.IndexErrorRequeue}, nil
			}
			controllerutil.RemoveFinalizer(idx, shared.ResourceFinalizer)
			if err = r.Update(ctx, idx); err != nil {
				return result, err
			}
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(idx, shared.ResourceFinalizer) {
		controllerutil.AddFinalizer(idx, shared.ResourceFinalizer)
		if err = r.Update(ctx, idx); err != nil {
			return result, err
		}
	}

	defer func() {
		if statusErr := r.Status().Update(ctx, idx); statusErr != nil {
			logger.Error(statusErr, fmt.Sprintf("failed updating status for index %s", req.NamespacedName))
		}
	}()

	if syncErr := r.syncModified(ctx, idx); syncErr != nil {
		r.setError(idx, syncErr)
		logger.Error(syncErr, fmt.Sprintf("failed syncing index %s", req.NamespacedName))
		return ctrl.Result{RequeueAfter: shared.IndexErrorRequeue}, nil
	}

	return ctrl.Result{RequeueAfter: shared.IndexSuccessRequeue}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *IndexReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1alpha1.Index{}).
		Named("index").
		WithEventFilter(predicate.GenerationChangedPredicate{}).
		Complete(r)
}
