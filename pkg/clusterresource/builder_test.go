package clusterresource

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/utils/ptr"

	agentv1 "github.com/operate-first/acm-cluster-generator/pkg/apis/agent/v1"
	clusterv1 "github.com/operate-first/acm-cluster-generator/pkg/apis/cluster/v1"
	hivev1 "github.com/operate-first/acm-cluster-generator/pkg/apis/hive/v1"
	"github.com/operate-first/acm-cluster-generator/pkg/constants"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig"
	"github.com/operate-first/acm-cluster-generator/pkg/intent"
	testintent "github.com/operate-first/acm-cluster-generator/pkg/test/intent"
	"github.com/operate-first/acm-cluster-generator/pkg/util/yaml"
)

func createTestBuilder(t *testing.T, opts ...testintent.Option) *Builder {
	gen, err := intent.Parse(testintent.YAML(opts...))
	require.NoError(t, err, "test intent must be valid")
	return NewBuilder(gen)
}

type generatedObjects struct {
	namespace           *corev1.Namespace
	addonConfig         *agentv1.KlusterletAddonConfig
	managedCluster      *clusterv1.ManagedCluster
	pullSecret          *corev1.Secret
	sshPrivateKeySecret *corev1.Secret
	installConfigSecret *corev1.Secret
	clusterDeployment   *hivev1.ClusterDeployment
}

func buildObjects(t *testing.T, b *Builder) generatedObjects {
	allObjects, err := b.Build()
	require.NoError(t, err)
	require.Len(t, allObjects, 7)

	var g generatedObjects
	var ok bool
	g.namespace, ok = allObjects[0].(*corev1.Namespace)
	require.True(t, ok, "first object must be the Namespace")
	g.addonConfig, ok = allObjects[1].(*agentv1.KlusterletAddonConfig)
	require.True(t, ok, "second object must be the KlusterletAddonConfig")
	g.managedCluster, ok = allObjects[2].(*clusterv1.ManagedCluster)
	require.True(t, ok, "third object must be the ManagedCluster")
	g.pullSecret, ok = allObjects[3].(*corev1.Secret)
	require.True(t, ok, "fourth object must be the pull secret")
	g.sshPrivateKeySecret, ok = allObjects[4].(*corev1.Secret)
	require.True(t, ok, "fifth object must be the SSH private key secret")
	g.installConfigSecret, ok = allObjects[5].(*corev1.Secret)
	require.True(t, ok, "sixth object must be the install-config secret")
	g.clusterDeployment, ok = allObjects[6].(*hivev1.ClusterDeployment)
	require.True(t, ok, "seventh object must be the ClusterDeployment")
	return g
}

func TestBuildClusterResources(t *testing.T) {
	g := buildObjects(t, createTestBuilder(t))

	assert.Equal(t, testintent.ClusterName, g.namespace.Name)
	assert.Equal(t, "Namespace", g.namespace.Kind)
	assert.Equal(t, "v1", g.namespace.APIVersion)

	assert.Equal(t, "agent.open-cluster-management.io/v1", g.addonConfig.APIVersion)
	assert.Equal(t, testintent.ClusterName, g.addonConfig.Name)
	assert.Equal(t, testintent.ClusterName, g.addonConfig.Namespace)
	assert.Equal(t, agentv1.KlusterletAddonConfigSpec{
		ClusterName:      testintent.ClusterName,
		ClusterNamespace: testintent.ClusterName,
		ClusterLabels: map[string]string{
			"cloud":  "Bare-Metal",
			"vendor": "OpenShift",
		},
		ApplicationManager:   agentv1.ApplicationManagerSpec{Enabled: true, ArgoCDCluster: true},
		PolicyController:     agentv1.AddonSpec{Enabled: true},
		SearchCollector:      agentv1.AddonSpec{Enabled: true},
		CertPolicyController: agentv1.AddonSpec{Enabled: true},
		IAMPolicyController:  agentv1.AddonSpec{Enabled: true},
		Version:              "2.2.0",
	}, g.addonConfig.Spec)

	assert.Equal(t, "cluster.open-cluster-management.io/v1", g.managedCluster.APIVersion)
	assert.Empty(t, g.managedCluster.Namespace, "ManagedCluster is cluster scoped")
	assert.Equal(t, map[string]string{
		"cloud":  "Bare-Metal",
		"name":   testintent.ClusterName,
		"vendor": "OpenShift",
	}, g.managedCluster.Labels)
	assert.True(t, g.managedCluster.Spec.HubAcceptsClient)

	assert.Equal(t, corev1.SecretTypeDockerConfigJson, g.pullSecret.Type)
	assert.Equal(t, map[string]string{".dockerconfigjson": testintent.PullSecret}, g.pullSecret.StringData)
	assert.Nil(t, g.pullSecret.Data)

	assert.Equal(t, corev1.SecretTypeOpaque, g.sshPrivateKeySecret.Type)
	assert.Equal(t, map[string]string{"ssh-privatekey": testintent.SSHPrivateKey}, g.sshPrivateKeySecret.StringData)
	assert.Nil(t, g.sshPrivateKeySecret.Data)

	assert.Equal(t, corev1.SecretTypeOpaque, g.installConfigSecret.Type)
	assert.Nil(t, g.installConfigSecret.StringData, "install-config is carried as binary data")
	assert.Contains(t, g.installConfigSecret.Data, "install-config.yaml")

	cd := g.clusterDeployment
	assert.Equal(t, "hive.openshift.io/v1", cd.APIVersion)
	assert.Equal(t, testintent.ClusterName, cd.Name)
	assert.Equal(t, testintent.ClusterName, cd.Namespace)
	assert.Equal(t, map[string]string{"cloud": "BMC", "vendor": "OpenShift"}, cd.Labels)
	assert.Equal(t, map[string]string{"hive.openshift.io/try-install-once": "true"}, cd.Annotations)
	assert.Equal(t, testintent.ClusterName, cd.Spec.ClusterName)
	assert.Equal(t, testintent.BaseDomain, cd.Spec.BaseDomain)
	assert.False(t, cd.Spec.Installed)
	assert.Equal(t, ptr.To[int32](2), cd.Spec.InstallAttemptsLimit)
	assert.Empty(t, cd.Spec.ControlPlaneConfig.ServingCertificates.Default)
	require.NotNil(t, cd.Spec.Provisioning)
	assert.Equal(t, &hivev1.ClusterImageSetReference{Name: testintent.ImageSetName}, cd.Spec.Provisioning.ImageSetRef)
	assert.Equal(t, []string{testintent.KnownHost}, cd.Spec.Provisioning.SSHKnownHosts)
	require.NotNil(t, cd.Spec.Platform.BareMetal)
	assert.Len(t, cd.Spec.Platform.BareMetal.Hosts, 2)
}

func TestBuildArgoCD(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		expected bool
	}{
		{name: "enabled", enabled: true, expected: true},
		{name: "disabled", enabled: false, expected: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := buildObjects(t, createTestBuilder(t, testintent.WithEnableArgoCD(test.enabled)))
			assert.Equal(t, test.expected, g.addonConfig.Spec.ApplicationManager.ArgoCDCluster)
			assert.True(t, g.addonConfig.Spec.ApplicationManager.Enabled, "application manager stays enabled")
		})
	}
}

func TestSecretNameCrossReferences(t *testing.T) {
	for _, name := range []string{"demo", "lab-cluster-1"} {
		t.Run(name, func(t *testing.T) {
			b := createTestBuilder(t, testintent.WithClusterName(name))
			g := buildObjects(t, b)
			cd := g.clusterDeployment

			assert.Equal(t, name+"-pull-secret", g.pullSecret.Name)
			assert.Equal(t, name+"-ssh-private-key", g.sshPrivateKeySecret.Name)
			assert.Equal(t, name+"-install-config", g.installConfigSecret.Name)

			assert.Equal(t, g.pullSecret.Name, cd.Spec.PullSecretRef.Name)
			assert.Equal(t, g.installConfigSecret.Name, cd.Spec.Provisioning.InstallConfigSecretRef.Name)
			assert.Equal(t, g.sshPrivateKeySecret.Name, cd.Spec.Provisioning.SSHPrivateKeySecretRef.Name)
			assert.Equal(t, g.sshPrivateKeySecret.Name, cd.Spec.Platform.BareMetal.LibvirtSSHPrivateKeySecretRef.Name)

			for _, s := range []*corev1.Secret{g.pullSecret, g.sshPrivateKeySecret, g.installConfigSecret} {
				assert.Equal(t, g.namespace.Name, s.Namespace, "secret %s must live in the cluster namespace", s.Name)
			}
		})
	}
}

func TestInstallConfigReplicas(t *testing.T) {
	tests := []struct {
		name            string
		roles           []string
		expectedMasters int64
		expectedWorkers int64
	}{
		{
			name:            "two masters one worker",
			roles:           []string{"master", "master", "worker"},
			expectedMasters: 2,
			expectedWorkers: 1,
		},
		{
			name:            "compact cluster",
			roles:           []string{"master", "master", "master"},
			expectedMasters: 3,
			expectedWorkers: 0,
		},
		{
			name:            "unrecognized roles are not counted",
			roles:           []string{"master", "Worker", "arbiter", "worker"},
			expectedMasters: 1,
			expectedWorkers: 1,
		},
		{
			name:  "no hosts",
			roles: []string{},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hosts := make([]map[string]interface{}, 0, len(test.roles))
			for i, role := range test.roles {
				hosts = append(hosts, testintent.Host(
					"host-"+string(rune('a'+i)), role, "ipmi://192.168.111.1:6230", "52:54:00:00:00:01"))
			}
			ic := createTestBuilder(t, testintent.WithHosts(hosts...)).GenerateInstallConfig()

			require.NotNil(t, ic.ControlPlane)
			assert.Equal(t, installconfig.ControlPlanePoolName, ic.ControlPlane.Name)
			assert.Equal(t, test.expectedMasters, ic.ControlPlane.Replicas)
			require.Len(t, ic.Compute, 1)
			assert.Equal(t, installconfig.ComputePoolName, ic.Compute[0].Name)
			assert.Equal(t, test.expectedWorkers, ic.Compute[0].Replicas)
			assert.Len(t, ic.Platform.BareMetal.Hosts, len(test.roles), "every host is listed regardless of role")
		})
	}
}

func TestGenerateInstallConfig(t *testing.T) {
	ic := createTestBuilder(t, testintent.WithHostBMC(1, "username", "root")).GenerateInstallConfig()

	assert.Equal(t, "v1", ic.APIVersion)
	assert.Empty(t, ic.Kind)
	assert.Equal(t, testintent.ClusterName, ic.Name)
	assert.Equal(t, testintent.BaseDomain, ic.BaseDomain)
	assert.Equal(t, testintent.SSHPublicKey, ic.SSHKey)
	assert.Equal(t, "", ic.PullSecret, "the pull secret is never embedded in the install-config")

	require.NotNil(t, ic.Networking)
	assert.Equal(t, "OpenShiftSDN", ic.Networking.NetworkType)
	assert.Equal(t, "192.168.111.0/24", ic.Networking.MachineCIDR.String())

	bm := ic.Platform.BareMetal
	require.NotNil(t, bm)
	assert.Equal(t, "provisioning", bm.ProvisioningBridge)
	assert.Equal(t, "baremetal", bm.ExternalBridge)
	assert.Equal(t, "enp1s0", bm.ProvisioningNetworkInterface)
	assert.Equal(t, "192.168.111.5", bm.APIVIP.String())
	assert.Equal(t, "192.168.111.4", bm.IngressVIP.String())
	require.Len(t, bm.Hosts, 2)
	assert.Equal(t, testintent.ClusterName, bm.Hosts[0].Namespace)
	assert.Equal(t, testintent.BMCUsername, bm.Hosts[0].BMC.Username)
	assert.Equal(t, "root", bm.Hosts[1].BMC.Username)
	assert.Equal(t, testintent.BMCPassword, bm.Hosts[1].BMC.Password)

	require.NotNil(t, ic.ControlPlane.Platform)
	assert.NotNil(t, ic.ControlPlane.Platform.BareMetal)
	assert.Nil(t, ic.Compute[0].Platform)
}

func TestInstallConfigSecretMatchesInstallConfig(t *testing.T) {
	b := createTestBuilder(t)
	g := buildObjects(t, b)

	embedded, err := yaml.DecodeObject(g.installConfigSecret.Data["install-config.yaml"])
	require.NoError(t, err)

	independent, err := yaml.Marshal(b.GenerateInstallConfig())
	require.NoError(t, err)
	expected, err := yaml.DecodeObject(independent)
	require.NoError(t, err)

	if diff := cmp.Diff(expected, embedded); diff != "" {
		t.Errorf("embedded install-config differs (-want +got):\n%s", diff)
	}
	assert.Equal(t, "", embedded["pullSecret"])
	assert.NotContains(t, embedded["metadata"], "creationTimestamp")
	assert.Equal(t, json.Number("1"), embedded["controlPlane"].(map[string]interface{})["replicas"])
}

func TestClusterDeploymentAndInstallConfigHostsAgree(t *testing.T) {
	b := createTestBuilder(t,
		testintent.WithHostBMC(0, "password", "secret"),
		testintent.WithHostBMC(1, "disableCertificateVerification", false),
	)
	g := buildObjects(t, b)
	ic := b.GenerateInstallConfig()

	assert.Equal(t, ic.Platform.BareMetal.Hosts, g.clusterDeployment.Spec.Platform.BareMetal.Hosts,
		"install-config and ClusterDeployment must list the same resolved hosts")
	assert.Equal(t, "secret", ic.Platform.BareMetal.Hosts[0].BMC.Password)
	assert.False(t, ic.Platform.BareMetal.Hosts[1].BMC.DisableCertificateVerification)
}

func TestHostCertificateVerificationDefault(t *testing.T) {
	tests := []struct {
		name     string
		opts     []testintent.Option
		expected []bool
	}{
		{
			name:     "hosts default to disabled verification",
			expected: []bool{true, true},
		},
		{
			name:     "cluster level setting does not apply to hosts",
			opts:     []testintent.Option{testintent.WithField("spec.baremetal.disableCertificateVerification", false)},
			expected: []bool{true, true},
		},
		{
			name: "host setting wins",
			opts: []testintent.Option{
				testintent.WithField("spec.baremetal.disableCertificateVerification", false),
				testintent.WithHostBMC(1, "disableCertificateVerification", false),
			},
			expected: []bool{true, false},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := buildObjects(t, createTestBuilder(t, test.opts...))
			actual := []bool{}
			for _, h := range g.clusterDeployment.Spec.Platform.BareMetal.Hosts {
				actual = append(actual, h.BMC.DisableCertificateVerification)
			}
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestBuildDoesNotModifyBuilder(t *testing.T) {
	b := createTestBuilder(t)
	cb := b.CloudBuilder.(*BareMetalCloudBuilder)
	require.Nil(t, cb.Hosts[0].BMC.Username)

	buildObjects(t, b)
	buildObjects(t, b)

	assert.Nil(t, cb.Hosts[0].BMC.Username, "resolving hosts must not fill the input")
	assert.Nil(t, cb.Hosts[0].BMC.Password, "resolving hosts must not fill the input")
}

func TestSSHKnownHostsAlwaysPresent(t *testing.T) {
	g := buildObjects(t, createTestBuilder(t, testintent.WithField("spec.ssh.sshKnownHosts", []interface{}{})))
	assert.NotNil(t, g.clusterDeployment.Spec.Provisioning.SSHKnownHosts)
	assert.Empty(t, g.clusterDeployment.Spec.Provisioning.SSHKnownHosts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Builder)
		expectedErr string
	}{
		{
			name:   "valid",
			modify: func(*Builder) {},
		},
		{
			name:        "missing name",
			modify:      func(b *Builder) { b.Name = "" },
			expectedErr: "name is required",
		},
		{
			name:        "missing base domain",
			modify:      func(b *Builder) { b.BaseDomain = "" },
			expectedErr: "BaseDomain is required",
		},
		{
			name:        "missing cloud builder",
			modify:      func(b *Builder) { b.CloudBuilder = nil },
			expectedErr: "no CloudBuilder configured for this Builder",
		},
		{
			name:        "missing image set",
			modify:      func(b *Builder) { b.ImageSet = "" },
			expectedErr: "must set image set",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := createTestBuilder(t)
			test.modify(b)
			err := b.Validate()
			if test.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, test.expectedErr)

			objs, err := b.Build()
			assert.Error(t, err, "Build must validate")
			assert.Nil(t, objs)
		})
	}
}

func TestInstallOnce(t *testing.T) {
	b := createTestBuilder(t)
	b.InstallOnce = false
	g := buildObjects(t, b)
	assert.Nil(t, g.clusterDeployment.Annotations)
	assert.Equal(t, constants.VendorOpenShift, g.clusterDeployment.Labels[constants.VendorLabel])
}
