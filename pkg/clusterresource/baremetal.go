package clusterresource

import (
	corev1 "k8s.io/api/core/v1"

	hivev1 "github.com/operate-first/acm-cluster-generator/pkg/apis/hive/v1"
	hivev1baremetal "github.com/operate-first/acm-cluster-generator/pkg/apis/hive/v1/baremetal"
	v1 "github.com/operate-first/acm-cluster-generator/pkg/apis/operatefirst/v1"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig/baremetal"
	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

const (
	// BareMetalManagedClusterCloud is the cloud label the hub uses for bare metal clusters.
	BareMetalManagedClusterCloud = "Bare-Metal"

	// BareMetalClusterDeploymentCloud is the cloud label of bare metal ClusterDeployments.
	BareMetalClusterDeploymentCloud = "BMC"
)

var _ CloudBuilder = (*BareMetalCloudBuilder)(nil)

// BareMetalCloudBuilder encapsulates cluster artifact generation logic specific to bare metal
// clusters installed through a libvirt provisioning host.
type BareMetalCloudBuilder struct {
	// LibvirtURI is the libvirt daemon running the bootstrap VM.
	LibvirtURI ipnet.URL

	ProvisioningNetworkCIDR      ipnet.IPv4Network
	ProvisioningNetworkInterface string
	ProvisioningBridge           string
	ExternalBridge               string

	APIVIP     ipnet.IPv4Address
	IngressVIP ipnet.IPv4Address

	// Hosts is the host inventory as given in the intent.
	Hosts []v1.Host

	// HostDefaults are applied to every host when it is resolved.
	HostDefaults HostDefaults
}

// NewBareMetalCloudBuilderFromIntent returns the bare metal settings of a validated intent.
func NewBareMetalCloudBuilderFromIntent(intent *v1.ACMClusterGenerator) *BareMetalCloudBuilder {
	spec := intent.Spec
	return &BareMetalCloudBuilder{
		LibvirtURI:                   spec.Provisioning.LibvirtURI,
		ProvisioningNetworkCIDR:      spec.Provisioning.ProvisioningNetworkCIDR,
		ProvisioningNetworkInterface: spec.Provisioning.ProvisioningNetworkInterface,
		ProvisioningBridge:           spec.Provisioning.ProvisioningBridge,
		ExternalBridge:               spec.Provisioning.ExternalBridge,
		APIVIP:                       spec.Networking.APIVIP,
		IngressVIP:                   spec.Networking.IngressVIP,
		Hosts:                        spec.BareMetal.Hosts,
		HostDefaults: HostDefaults{
			Namespace:   spec.ClusterName,
			BMCUsername: spec.BareMetal.BMCUsername,
			BMCPassword: spec.BareMetal.BMCPassword,
		},
	}
}

func (p *BareMetalCloudBuilder) addInstallConfigPlatform(o *Builder, ic *installconfig.InstallConfig) {
	ic.Platform = installconfig.Platform{
		BareMetal: &baremetal.Platform{
			LibvirtURI:                   p.LibvirtURI,
			ProvisioningNetworkCIDR:      p.ProvisioningNetworkCIDR,
			ProvisioningNetworkInterface: p.ProvisioningNetworkInterface,
			ProvisioningBridge:           p.ProvisioningBridge,
			ExternalBridge:               p.ExternalBridge,
			Hosts:                        p.resolveHosts(),
			APIVIP:                       p.APIVIP,
			IngressVIP:                   p.IngressVIP,
		},
	}

	// Hosts with any other role count toward neither pool.
	masters, workers := p.countRoles()
	ic.ControlPlane.Replicas = masters
	ic.ControlPlane.Platform = &installconfig.MachinePoolPlatform{
		BareMetal: &baremetal.MachinePool{},
	}
	for i := range ic.Compute {
		ic.Compute[i].Replicas = workers
	}
}

// GetCloudPlatform returns the bare metal platform of the ClusterDeployment.
func (p *BareMetalCloudBuilder) GetCloudPlatform(o *Builder) hivev1.Platform {
	return hivev1.Platform{
		BareMetal: &hivev1baremetal.Platform{
			LibvirtSSHPrivateKeySecretRef: corev1.LocalObjectReference{Name: o.GetSSHPrivateKeySecretName()},
			Hosts:                         p.resolveHosts(),
		},
	}
}

// ManagedClusterCloud returns the cloud label of bare metal managed clusters.
func (p *BareMetalCloudBuilder) ManagedClusterCloud() string {
	return BareMetalManagedClusterCloud
}

// ClusterDeploymentCloud returns the cloud label of bare metal ClusterDeployments.
func (p *BareMetalCloudBuilder) ClusterDeploymentCloud() string {
	return BareMetalClusterDeploymentCloud
}

func (p *BareMetalCloudBuilder) resolveHosts() []baremetal.Host {
	hosts := make([]baremetal.Host, 0, len(p.Hosts))
	for _, h := range p.Hosts {
		hosts = append(hosts, ResolveHost(h, p.HostDefaults))
	}
	return hosts
}

func (p *BareMetalCloudBuilder) countRoles() (masters, workers int64) {
	for _, h := range p.Hosts {
		switch h.Role {
		case v1.HostRoleMaster:
			masters++
		case v1.HostRoleWorker:
			workers++
		}
	}
	return masters, workers
}

// HostDefaults are the cluster wide values a host falls back to.
type HostDefaults struct {
	// Namespace is stamped onto every resolved host.
	Namespace string

	BMCUsername string
	BMCPassword string
}

// ResolveHost fills the BMC credentials a host leaves unset from the cluster defaults and
// stamps the namespace. Explicitly set values, including empty strings, are kept. A host
// without its own disableCertificateVerification gets
// baremetal.DefaultDisableCertificateVerification. The input host is not modified.
func ResolveHost(host v1.Host, defaults HostDefaults) baremetal.Host {
	resolved := baremetal.Host{
		Name:      host.Name,
		Namespace: defaults.Namespace,
		Role:      host.Role,
		BMC: baremetal.BMC{
			Address:                        host.BMC.Address,
			Username:                       defaults.BMCUsername,
			Password:                       defaults.BMCPassword,
			DisableCertificateVerification: baremetal.DefaultDisableCertificateVerification,
		},
		BootMACAddress: host.BootMACAddress,
	}
	if host.BMC.Username != nil {
		resolved.BMC.Username = *host.BMC.Username
	}
	if host.BMC.Password != nil {
		resolved.BMC.Password = *host.BMC.Password
	}
	if host.BMC.DisableCertificateVerification != nil {
		resolved.BMC.DisableCertificateVerification = *host.BMC.DisableCertificateVerification
	}
	return resolved
}
