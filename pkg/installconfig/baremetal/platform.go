package baremetal

import (
	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

const (
	// DefaultProvisioningBridge is the bridge attached to the provisioning network.
	DefaultProvisioningBridge = "provisioning"

	// DefaultExternalBridge is the bridge attached to the external network.
	DefaultExternalBridge = "baremetal"

	// DefaultDisableCertificateVerification is used for hosts whose BMC does not
	// say whether its certificate is verified.
	DefaultDisableCertificateVerification = true
)

// Platform stores the install-config settings for bare metal clusters.
type Platform struct {
	// LibvirtURI is the URI of the libvirt daemon running the bootstrap VM.
	LibvirtURI ipnet.URL `json:"libvirtURI"`

	// ProvisioningNetworkCIDR is the network used for PXE booting the hosts.
	ProvisioningNetworkCIDR ipnet.IPv4Network `json:"provisioningNetworkCIDR"`

	// ProvisioningNetworkInterface is the NIC name on the hosts attached to the
	// provisioning network.
	ProvisioningNetworkInterface string `json:"provisioningNetworkInterface"`

	ProvisioningBridge string `json:"provisioningBridge"`
	ExternalBridge     string `json:"externalBridge"`

	Hosts []Host `json:"hosts"`

	APIVIP     ipnet.IPv4Address `json:"apiVIP"`
	IngressVIP ipnet.IPv4Address `json:"ingressVIP"`
}

// Host is a host whose BMC credentials have been resolved against the cluster
// defaults.
type Host struct {
	Name           string `json:"name"`
	Namespace      string `json:"namespace"`
	Role           string `json:"role"`
	BMC            BMC    `json:"bmc"`
	BootMACAddress string `json:"bootMACAddress"`
}

// BMC holds the resolved connection details of a baseboard management controller.
type BMC struct {
	Address                        ipnet.URL `json:"address"`
	DisableCertificateVerification bool      `json:"disableCertificateVerification"`
	Username                       string    `json:"username"`
	Password                       string    `json:"password"`
}

// MachinePool holds the bare metal specific machine pool settings. It has none.
type MachinePool struct{}
