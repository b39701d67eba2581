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

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
)

// ServerIsDeleting reports whether the named Server is currently being
// deleted. A Server that can no longer be found is treated as deleting,
// since Index/Key reconcilers must not attempt remote engine operations
// against a Server whose workload is already gone.
func ServerIsDeleting(ctx context.Context, c client.Client, namespace, serverRef string) (bool, error) {
	server := &v1beta1.Server{}
	err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: serverRef}, server)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return !server.DeletionTimestamp.IsZero(), nil
}

// GetServer fetches the Server referenced by serverRef in namespace.
func GetServer(ctx context.Context, c client.Client, namespace, serverRef string) (*v1beta1.Server, error) {
	server := &v1beta1.Server{}
	if err := c.Get(ctx, types.NamespacedName{Namespace: namespace, Name: serverRef}, server); err != nil {
		return nil, err
	}
	return server, nil
}
