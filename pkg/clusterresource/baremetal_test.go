package clusterresource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/utils/ptr"

	v1 "github.com/operate-first/acm-cluster-generator/pkg/apis/operatefirst/v1"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig/baremetal"
	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

func TestResolveHost(t *testing.T) {
	defaults := HostDefaults{
		Namespace:   "demo",
		BMCUsername: "admin",
		BMCPassword: "pw",
	}
	address := *ipnet.MustParseURL("ipmi://192.168.111.1:6230")
	host := func(bmc v1.BMC) v1.Host {
		bmc.Address = address
		return v1.Host{
			Name:           "master-0",
			Role:           "master",
			BMC:            bmc,
			BootMACAddress: "52:54:00:00:00:01",
		}
	}

	tests := []struct {
		name     string
		host     v1.Host
		expected baremetal.BMC
	}{
		{
			name: "credentials default from the cluster",
			host: host(v1.BMC{}),
			expected: baremetal.BMC{
				Address:                        address,
				Username:                       "admin",
				Password:                       "pw",
				DisableCertificateVerification: true,
			},
		},
		{
			name: "explicit username is kept",
			host: host(v1.BMC{Username: ptr.To("root")}),
			expected: baremetal.BMC{
				Address:                        address,
				Username:                       "root",
				Password:                       "pw",
				DisableCertificateVerification: true,
			},
		},
		{
			name: "explicit empty credentials are kept",
			host: host(v1.BMC{Username: ptr.To(""), Password: ptr.To("")}),
			expected: baremetal.BMC{
				Address:                        address,
				DisableCertificateVerification: true,
			},
		},
		{
			name: "explicit certificate verification disabled",
			host: host(v1.BMC{DisableCertificateVerification: ptr.To(true)}),
			expected: baremetal.BMC{
				Address:                        address,
				Username:                       "admin",
				Password:                       "pw",
				DisableCertificateVerification: true,
			},
		},
		{
			name: "explicit certificate verification is kept",
			host: host(v1.BMC{DisableCertificateVerification: ptr.To(false)}),
			expected: baremetal.BMC{
				Address:  address,
				Username: "admin",
				Password: "pw",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			before := test.host
			resolved := ResolveHost(test.host, defaults)

			assert.Equal(t, test.expected, resolved.BMC)
			assert.Equal(t, "demo", resolved.Namespace)
			assert.Equal(t, "master-0", resolved.Name)
			assert.Equal(t, "master", resolved.Role)
			assert.Equal(t, "52:54:00:00:00:01", resolved.BootMACAddress)
			assert.Equal(t, before, test.host, "input host must not be modified")
			assert.Equal(t, resolved, ResolveHost(test.host, defaults), "resolution must be deterministic")
		})
	}
}

func TestBareMetalCloudLabels(t *testing.T) {
	p := &BareMetalCloudBuilder{}
	assert.Equal(t, "Bare-Metal", p.ManagedClusterCloud())
	assert.Equal(t, "BMC", p.ClusterDeploymentCloud())
}
