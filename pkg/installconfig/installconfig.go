// Package installconfig contains the subset of the openshift-install
// install-config.yaml schema that is needed for bare metal installs.
package installconfig

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/operate-first/acm-cluster-generator/pkg/installconfig/baremetal"
	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

const (
	// InstallConfigVersion is the apiVersion written to install-config.yaml.
	InstallConfigVersion = "v1"

	// DefaultNetworkType is the cluster network provider used when none is given.
	DefaultNetworkType = "OpenShiftSDN"

	// ControlPlanePoolName is the name of the control plane machine pool.
	ControlPlanePoolName = "master"

	// ComputePoolName is the name of the default compute machine pool.
	ComputePoolName = "worker"
)

// InstallConfig is the configuration handed to openshift-install.
type InstallConfig struct {
	metav1.TypeMeta `json:",inline"`

	metav1.ObjectMeta `json:"metadata"`

	BaseDomain string `json:"baseDomain"`

	ControlPlane *MachinePool  `json:"controlPlane"`
	Compute      []MachinePool `json:"compute"`

	Networking *Networking `json:"networking"`

	// PullSecret is always empty; the real pull secret is delivered through its
	// own Secret referenced by the ClusterDeployment.
	PullSecret string `json:"pullSecret"`

	SSHKey string `json:"sshKey"`

	Platform Platform `json:"platform"`
}

// MachinePool is a pool of machines to be installed.
type MachinePool struct {
	Name     string               `json:"name"`
	Replicas int64                `json:"replicas"`
	Platform *MachinePoolPlatform `json:"platform,omitempty"`
}

// MachinePoolPlatform is the platform specific machine pool configuration.
// Exactly one field is set.
type MachinePoolPlatform struct {
	BareMetal *baremetal.MachinePool `json:"baremetal,omitempty"`
}

// Networking defines the pod, service and machine networks.
type Networking struct {
	ClusterNetwork []ClusterNetworkEntry `json:"clusterNetwork"`
	MachineCIDR    ipnet.IPv4Network     `json:"machineCIDR"`
	NetworkType    string                `json:"networkType"`
	ServiceNetwork []ipnet.IPv4Network   `json:"serviceNetwork"`
}

// ClusterNetworkEntry is a single pod network block.
type ClusterNetworkEntry struct {
	CIDR       ipnet.IPv4Network `json:"cidr"`
	HostPrefix *int32            `json:"hostPrefix,omitempty"`
}

// Platform is the configuration for the platform the cluster is installed on.
// Exactly one field is set; bare metal is the only platform supported today.
type Platform struct {
	BareMetal *baremetal.Platform `json:"baremetal,omitempty"`
}
