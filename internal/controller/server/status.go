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
	"meilisearch-operator.freepik.com/meilisearch-operator/api/v1beta1"
)

// setError records a sync failure on the Server's status without touching
// its Ready/Endpoint fields, which keep whatever syncModified last set.
func (r *ServerReconciler) setError(srv *v1beta1.Server, err error) {
	srv.Status.Message = err.Error()
}
