// Package v1 contains the agent.open-cluster-management.io/v1 KlusterletAddonConfig kind.
package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// SchemeGroupVersion is group version used to register these objects
var SchemeGroupVersion = schema.GroupVersion{Group: "agent.open-cluster-management.io", Version: "v1"}

// DefaultVersion is the klusterlet addon version requested from the hub.
const DefaultVersion = "2.2.0"

// KlusterletAddonConfig configures the addons installed on a managed cluster.
type KlusterletAddonConfig struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec KlusterletAddonConfigSpec `json:"spec"`
}

// KlusterletAddonConfigSpec defines the desired state of KlusterletAddonConfig
type KlusterletAddonConfigSpec struct {
	ClusterName      string            `json:"clusterName"`
	ClusterNamespace string            `json:"clusterNamespace"`
	ClusterLabels    map[string]string `json:"clusterLabels,omitempty"`

	ApplicationManager   ApplicationManagerSpec `json:"applicationManager"`
	PolicyController     AddonSpec              `json:"policyController"`
	SearchCollector      AddonSpec              `json:"searchCollector"`
	CertPolicyController AddonSpec              `json:"certPolicyController"`
	IAMPolicyController  AddonSpec              `json:"iamPolicyController"`

	Version string `json:"version"`
}

// AddonSpec toggles a single addon.
type AddonSpec struct {
	Enabled bool `json:"enabled"`
}

// ApplicationManagerSpec toggles the application manager addon and its Argo CD
// integration.
type ApplicationManagerSpec struct {
	Enabled       bool `json:"enabled"`
	ArgoCDCluster bool `json:"argocdCluster"`
}

// NewKlusterletAddonConfigSpec returns a spec for the given cluster with every
// addon enabled.
func NewKlusterletAddonConfigSpec(clusterName, clusterNamespace string) KlusterletAddonConfigSpec {
	return KlusterletAddonConfigSpec{
		ClusterName:          clusterName,
		ClusterNamespace:     clusterNamespace,
		ApplicationManager:   ApplicationManagerSpec{Enabled: true},
		PolicyController:     AddonSpec{Enabled: true},
		SearchCollector:      AddonSpec{Enabled: true},
		CertPolicyController: AddonSpec{Enabled: true},
		IAMPolicyController:  AddonSpec{Enabled: true},
		Version:              DefaultVersion,
	}
}
