package v1

import (
	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

const (
	// Version is the API version of the intent document.
	Version = "operate-first.cloud/v1"

	// Kind is the kind of the intent document.
	Kind = "acmClusterGenerator"

	// HostRoleMaster is the role of control plane hosts.
	HostRoleMaster = "master"

	// HostRoleWorker is the role of compute hosts.
	HostRoleWorker = "worker"
)

// ACMClusterGenerator describes one bare metal cluster to be registered with the
// hub and provisioned by Hive.
type ACMClusterGenerator struct {
	APIVersion string                  `json:"apiVersion"`
	Kind       string                  `json:"kind"`
	Spec       ACMClusterGeneratorSpec `json:"spec"`
}

// ACMClusterGeneratorSpec is the provisioning intent.
type ACMClusterGeneratorSpec struct {
	// ClusterName is used as the name of every generated resource and as the
	// namespace of the namespaced ones.
	ClusterName string `json:"clusterName"`

	// BaseDomain is the DNS base domain of the cluster.
	BaseDomain string `json:"baseDomain"`

	// EnableArgoCD registers the managed cluster with the hub's Argo CD.
	EnableArgoCD bool `json:"enableArgoCd"`

	Networking   Networking   `json:"networking"`
	Provisioning Provisioning `json:"provisioning"`
	BareMetal    BareMetal    `json:"baremetal"`
	SSH          SSH          `json:"ssh"`

	// PullSecret is the raw docker config json used to pull release images.
	PullSecret string `json:"pullSecret"`
}

// Networking holds the cluster networks and virtual IPs.
type Networking struct {
	ClusterNetwork []ClusterNetworkEntry `json:"clusterNetwork"`
	MachineCIDR    ipnet.IPv4Network     `json:"machineCIDR"`
	NetworkType    string                `json:"networkType"`
	ServiceNetwork []ipnet.IPv4Network   `json:"serviceNetwork"`
	APIVIP         ipnet.IPv4Address     `json:"apiVIP"`
	IngressVIP     ipnet.IPv4Address     `json:"ingressVIP"`
}

// ClusterNetworkEntry is a single pod network block.
type ClusterNetworkEntry struct {
	CIDR ipnet.IPv4Network `json:"cidr"`

	// HostPrefix is the prefix size handed to each node. Unset when nil.
	HostPrefix *int32 `json:"hostPrefix,omitempty"`
}

// Provisioning holds the parameters of the bare metal provisioning network.
type Provisioning struct {
	LibvirtURI                   ipnet.URL                `json:"libvirtURI"`
	ProvisioningNetworkCIDR      ipnet.IPv4Network        `json:"provisioningNetworkCIDR"`
	ProvisioningNetworkInterface string                   `json:"provisioningNetworkInterface"`
	ProvisioningBridge           string                   `json:"provisioningBridge"`
	ExternalBridge               string                   `json:"externalBridge"`
	ImageSetRef                  ClusterImageSetReference `json:"imageSetRef"`
}

// ClusterImageSetReference names the ClusterImageSet to install from.
type ClusterImageSetReference struct {
	Name string `json:"name"`
}

// BareMetal is the host inventory along with cluster wide BMC defaults.
type BareMetal struct {
	// BMCUsername is used for every host that does not set its own.
	BMCUsername string `json:"bmcUsername"`

	// BMCPassword is used for every host that does not set its own.
	BMCPassword string `json:"bmcPassword"`

	// DisableCertificateVerification is accepted for compatibility but not applied;
	// hosts that do not set their own value always skip certificate verification.
	DisableCertificateVerification bool `json:"disableCertificateVerification"`

	Hosts []Host `json:"hosts"`
}

// Host is one physical machine.
type Host struct {
	Name string `json:"name"`

	// Role is expected to be master or worker. Other values are passed through
	// and count towards neither machine pool.
	Role string `json:"role"`

	BMC            BMC    `json:"bmc"`
	BootMACAddress string `json:"bootMACAddress"`
}

// BMC describes how to reach a host's baseboard management controller.
type BMC struct {
	Address ipnet.URL `json:"address"`

	// Username and Password are optional; nil means unset.
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`

	DisableCertificateVerification *bool `json:"disableCertificateVerification,omitempty"`
}

// SSH holds the key material used by the installer and the provisioning host.
type SSH struct {
	SSHKnownHosts []string `json:"sshKnownHosts"`
	SSHPublicKey  string   `json:"sshPublicKey"`
	SSHPrivateKey string   `json:"sshPrivateKey"`
}
