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

// Package server implements the Server reconciler: it owns the
// master-key Secret, the Service and StatefulSet running meilisearch,
// and the mirror of the master key into the operator's own namespace.
package server

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/pools"
	"meilisearch-operator.freepik.com/meilisearch-operator/internal/shared"
)

// ServerReconciler reconciles a Server object.
type ServerReconciler struct {
	client.Client
	Scheme               *runtime.Scheme
	EngineConnectionPool *pools.EngineConnectionsStore
}

// +kubebuilder:rbac:groups=meili.operator.dev,resources=servers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=meili.operator.dev,resources=servers/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=meili.operator.dev,resources=servers/finalizers,verbs=update
// +kubebuilder:rbac:groups=meili.operator.dev,resources=indexes,verbs=get;list;watch;update
// +kubebuilder:rbac:groups=meili.operator.dev,resources=keys,verbs=get;list;watch;update
// +kubebuilder:rbac:groups=apps,resources=statefulsets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=secrets,verbs=get;list;watch;create;update;patch;delete

// Reconcile moves the current state of a Server closer to its desired
// state: the master-key Secret, the mirrored Secret in the operator's
// namespace, and the workload that exposes meilisearch.
func (r *ServerReconciler) Reconcile(ctx context.Context, req ctrl.Request) (result ctrl.Result, err error) {
	logger := logf.FromContext(ctx)

	srv := &v1beta1.Server{}
	if err = r.Get(ctx, req.NamespacedName, srv); err != nil {
		return result, client.IgnoreNotFound(err)
	}

	if !srv.DeletionTimestamp.IsZero() {
		if controllerutil.ContainsFinalizer(srv, shared.ResourceFinalizer) {
			if err = r.syncDelete(ctx, srv); err != nil {
				logger.Error(err, fmt.Sprintf("failed cleaning up server %s", req.NamespacedName))
				return ctrl.Result{RequeueAfter: shared.ServerErrorRequeue}, nil
			}
			controllerutil.RemoveFinalizer(srv, shared.ResourceFinalizer)
			if err = r.Update(ctx, srv); err != nil {
				return result, err
			}
		}
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(srv, shared.ResourceFinalizer) {
		controllerutil.AddFinalizer(srv, shared.ResourceFinalizer)
		if err = r.Update(ctx, srv); err != nil {
			return result, err
		}
	}

	defer func() {
		if statusErr := r.Status().Update(ctx, srv); statusErr != nil {
			logger.Error(statusErr, fmt.Sprintf("failed updating status for server %s", req.NamespacedName))
		}
	}()

	if syncErr := r.syncModified(ctx, srv); syncErr != nil {
		r.setError(srv, syncErr)
		logger.Error(syncErr, fmt.Sprintf("failed syncing server %s", req.NamespacedName))
		return ctrl.Result{RequeueAfter: shared.ServerErrorRequeue}, nil
	}

	return ctrl.Result{RequeueAfter: shared.ServerSuccessRequeue}, nil
}

// SetupWithManager sets up the controller with the Manager.
func (r *ServerReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&v1beta1.Server{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.Secret{}).
		Named("server").
		WithEventFilter(predicate.GenerationChangedPredicate{}).
		Complete(r)
}
