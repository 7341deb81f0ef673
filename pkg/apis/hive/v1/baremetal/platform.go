package baremetal

import (
	corev1 "k8s.io/api/core/v1"

	installerbaremetal "github.com/operate-first/acm-cluster-generator/pkg/installconfig/baremetal"
)

// Platform stores the global configuration for the cluster.
type Platform struct {
	// LibvirtSSHPrivateKeySecretRef is the reference to the secret that contains the private SSH key to use
	// for access to the libvirt provisioning host.
	// The SSH private key is expected to be in the secret data under the "ssh-privatekey" key.
	LibvirtSSHPrivateKeySecretRef corev1.LocalObjectReference `json:"libvirtSSHPrivateKeySecretRef"`

	// Hosts is the inventory of machines the cluster is installed on.
	Hosts []installerbaremetal.Host `json:"hosts"`
}
