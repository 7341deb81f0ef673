// Package v1 contains the cluster.open-cluster-management.io/v1 ManagedCluster kind.
package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// SchemeGroupVersion is group version used to register these objects
var SchemeGroupVersion = schema.GroupVersion{Group: "cluster.open-cluster-management.io", Version: "v1"}

// ManagedCluster represents the desired state of a cluster managed by the hub.
type ManagedCluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ManagedClusterSpec `json:"spec"`
}

// ManagedClusterSpec provides the information to securely connect to a remote server
// and verify its identity.
type ManagedClusterSpec struct {
	// HubAcceptsClient represents that hub accepts the joining of Klusterlet agent on
	// the managed cluster with the hub.
	HubAcceptsClient bool `json:"hubAcceptsClient"`
}
