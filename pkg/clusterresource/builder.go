package clusterresource

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/utils/ptr"

	agentv1 "github.com/operate-first/acm-cluster-generator/pkg/apis/agent/v1"
	clusterv1 "github.com/operate-first/acm-cluster-generator/pkg/apis/cluster/v1"
	hivev1 "github.com/operate-first/acm-cluster-generator/pkg/apis/hive/v1"
	v1 "github.com/operate-first/acm-cluster-generator/pkg/apis/operatefirst/v1"
	"github.com/operate-first/acm-cluster-generator/pkg/constants"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig"
	"github.com/operate-first/acm-cluster-generator/pkg/util/annotations"
	"github.com/operate-first/acm-cluster-generator/pkg/util/yaml"
)

// Object is a generated Kubernetes resource.
type Object interface {
	metav1.Object
	GetObjectKind() schema.ObjectKind
}

// Builder can be used to build all artifacts required to register a cluster with
// the hub and have Hive provision it.
type Builder struct {
	// Name is the name of your Cluster. Will be used for the name of every generated object and
	// for the ClusterDeployment.Spec.ClusterName, which encompasses the subdomain.
	Name string

	// Namespace where the ClusterDeployment and all associated artifacts will be created.
	Namespace string

	// CloudBuilder encapsulates logic for building the objects for a specific cloud.
	CloudBuilder CloudBuilder

	// PullSecret is the secret to use when pulling images.
	PullSecret string

	// SSHPrivateKey is the SSH key Hive uses to reach the hosts and the libvirt daemon.
	SSHPrivateKey string

	// SSHPublicKey is the public SSH key to configure on hosts in the cluster. Must match
	// the SSHPrivateKey.
	SSHPublicKey string

	// SSHKnownHosts are configured in the install pod to avoid ssh prompts.
	SSHKnownHosts []string

	// InstallOnce indicates that the provision job should not be retried on failure.
	InstallOnce bool

	// BaseDomain is the DNS base domain to be used for the cluster.
	BaseDomain string

	// EnableArgoCD registers the cluster with the hub's Argo CD.
	EnableArgoCD bool

	// Networking holds the cluster, service and machine networks.
	Networking installconfig.Networking

	// InstallAttemptsLimit is the maximum number of times Hive will attempt to install the cluster.
	InstallAttemptsLimit *int32

	// ImageSet is the ClusterImageSet to use for this cluster.
	ImageSet string

	// Logger receives debug output while objects are generated. Optional.
	Logger log.FieldLogger
}

// NewBuilder returns a Builder for a validated intent.
func NewBuilder(intent *v1.ACMClusterGenerator) *Builder {
	spec := intent.Spec
	clusterNetwork := make([]installconfig.ClusterNetworkEntry, 0, len(spec.Networking.ClusterNetwork))
	for _, entry := range spec.Networking.ClusterNetwork {
		clusterNetwork = append(clusterNetwork, installconfig.ClusterNetworkEntry{
			CIDR:       entry.CIDR,
			HostPrefix: entry.HostPrefix,
		})
	}
	return &Builder{
		Name:                 spec.ClusterName,
		Namespace:            spec.ClusterName,
		CloudBuilder:         NewBareMetalCloudBuilderFromIntent(intent),
		PullSecret:           spec.PullSecret,
		SSHPrivateKey:        spec.SSH.SSHPrivateKey,
		SSHPublicKey:         spec.SSH.SSHPublicKey,
		SSHKnownHosts:        spec.SSH.SSHKnownHosts,
		InstallOnce:          true,
		BaseDomain:           spec.BaseDomain,
		EnableArgoCD:         spec.EnableArgoCD,
		InstallAttemptsLimit: ptr.To(hivev1.DefaultInstallAttemptsLimit),
		ImageSet:             spec.Provisioning.ImageSetRef.Name,
		Networking: installconfig.Networking{
			ClusterNetwork: clusterNetwork,
			MachineCIDR:    spec.Networking.MachineCIDR,
			NetworkType:    spec.Networking.NetworkType,
			ServiceNetwork: spec.Networking.ServiceNetwork,
		},
	}
}

// Validate ensures that the builder's fields are logically configured and usable to generate the cluster resources.
func (o *Builder) Validate() error {
	if len(o.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(o.BaseDomain) == 0 {
		return fmt.Errorf("BaseDomain is required")
	}
	if o.CloudBuilder == nil {
		return fmt.Errorf("no CloudBuilder configured for this Builder")
	}
	if len(o.ImageSet) == 0 {
		return fmt.Errorf("must set image set")
	}
	return nil
}

// Build generates all resources using the fields configured. Objects are returned in
// the order they must be applied: the namespace first, the secrets before the
// ClusterDeployment referencing them.
func (o *Builder) Build() ([]Object, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	installConfigSecret, err := o.generateInstallConfigSecret()
	if err != nil {
		return nil, err
	}

	allObjects := []Object{
		o.generateNamespace(),
		o.generateKlusterletAddonConfig(),
		o.generateManagedCluster(),
		o.GeneratePullSecretSecret(),
		o.generateSSHPrivateKeySecret(),
		installConfigSecret,
		o.generateClusterDeployment(),
	}
	o.logger().WithField("objects", len(allObjects)).Debug("built cluster objects")
	return allObjects, nil
}

func (o *Builder) logger() log.FieldLogger {
	logger := o.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return logger.WithField("cluster", o.Name)
}

func (o *Builder) generateNamespace() *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Namespace",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: o.Namespace,
		},
	}
}

func (o *Builder) generateKlusterletAddonConfig() *agentv1.KlusterletAddonConfig {
	spec := agentv1.NewKlusterletAddonConfigSpec(o.Name, o.Namespace)
	spec.ClusterLabels = map[string]string{
		constants.CloudLabel:  o.CloudBuilder.ManagedClusterCloud(),
		constants.VendorLabel: constants.VendorOpenShift,
	}
	spec.ApplicationManager.ArgoCDCluster = o.EnableArgoCD
	return &agentv1.KlusterletAddonConfig{
		TypeMeta: metav1.TypeMeta{
			Kind:       "KlusterletAddonConfig",
			APIVersion: agentv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.Name,
			Namespace: o.Namespace,
		},
		Spec: spec,
	}
}

func (o *Builder) generateManagedCluster() *clusterv1.ManagedCluster {
	return &clusterv1.ManagedCluster{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ManagedCluster",
			APIVersion: clusterv1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: o.Name,
			Labels: map[string]string{
				constants.CloudLabel:  o.CloudBuilder.ManagedClusterCloud(),
				constants.NameLabel:   o.Name,
				constants.VendorLabel: constants.VendorOpenShift,
			},
		},
		Spec: clusterv1.ManagedClusterSpec{
			HubAcceptsClient: true,
		},
	}
}

func (o *Builder) generateClusterDeployment() *hivev1.ClusterDeployment {
	cd := &hivev1.ClusterDeployment{
		TypeMeta: metav1.TypeMeta{
			Kind:       "ClusterDeployment",
			APIVersion: hivev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.Name,
			Namespace: o.Namespace,
			Labels: map[string]string{
				constants.CloudLabel:  o.CloudBuilder.ClusterDeploymentCloud(),
				constants.VendorLabel: constants.VendorOpenShift,
			},
		},
		Spec: hivev1.ClusterDeploymentSpec{
			ClusterName: o.Name,
			BaseDomain:  o.BaseDomain,
			Provisioning: &hivev1.Provisioning{
				ImageSetRef:            &hivev1.ClusterImageSetReference{Name: o.ImageSet},
				InstallConfigSecretRef: &corev1.LocalObjectReference{Name: o.GetInstallConfigSecretName()},
				SSHPrivateKeySecretRef: &corev1.LocalObjectReference{Name: o.GetSSHPrivateKeySecretName()},
				SSHKnownHosts:          o.SSHKnownHosts,
			},
			PullSecretRef:        &corev1.LocalObjectReference{Name: o.GetPullSecretSecretName()},
			InstallAttemptsLimit: o.InstallAttemptsLimit,
		},
	}

	if o.InstallOnce {
		cd.Annotations = annotations.AddAnnotation(cd.Annotations, hivev1.TryInstallOnceAnnotation, "true")
	}
	if cd.Spec.Provisioning.SSHKnownHosts == nil {
		cd.Spec.Provisioning.SSHKnownHosts = []string{}
	}

	cd.Spec.Platform = o.CloudBuilder.GetCloudPlatform(o)
	return cd
}

// GenerateInstallConfig returns the install-config handed to openshift-install. Its
// pull secret is always empty; the pull secret travels in its own Secret.
func (o *Builder) GenerateInstallConfig() *installconfig.InstallConfig {
	networking := o.Networking
	installConfig := &installconfig.InstallConfig{
		ObjectMeta: metav1.ObjectMeta{
			Name: o.Name,
		},
		TypeMeta: metav1.TypeMeta{
			APIVersion: installconfig.InstallConfigVersion,
		},
		SSHKey:     o.SSHPublicKey,
		BaseDomain: o.BaseDomain,
		Networking: &networking,
		ControlPlane: &installconfig.MachinePool{
			Name: installconfig.ControlPlanePoolName,
		},
		Compute: []installconfig.MachinePool{
			{
				Name: installconfig.ComputePoolName,
			},
		},
		PullSecret: "",
	}

	o.CloudBuilder.addInstallConfigPlatform(o, installConfig)
	return installConfig
}

func (o *Builder) generateInstallConfigSecret() (*corev1.Secret, error) {
	installConfig := o.GenerateInstallConfig()
	d, err := yaml.Marshal(installConfig)
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize install-config")
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Secret",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.GetInstallConfigSecretName(),
			Namespace: o.Namespace,
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			constants.InstallConfigSecretKey: d,
		},
	}, nil
}

// GeneratePullSecretSecret returns a Kubernetes Secret containing the pull secret to be
// used for pulling images.
func (o *Builder) GeneratePullSecretSecret() *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Secret",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.GetPullSecretSecretName(),
			Namespace: o.Namespace,
		},
		Type: corev1.SecretTypeDockerConfigJson,
		StringData: map[string]string{
			corev1.DockerConfigJsonKey: o.PullSecret,
		},
	}
}

// generateSSHPrivateKeySecret returns a Kubernetes Secret containing the SSH private
// key to be used.
func (o *Builder) generateSSHPrivateKeySecret() *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			Kind:       "Secret",
			APIVersion: corev1.SchemeGroupVersion.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      o.GetSSHPrivateKeySecretName(),
			Namespace: o.Namespace,
		},
		Type: corev1.SecretTypeOpaque,
		StringData: map[string]string{
			constants.SSHPrivateKeySecretKey: o.SSHPrivateKey,
		},
	}
}

// GetInstallConfigSecretName returns the name of the install-config Secret.
func (o *Builder) GetInstallConfigSecretName() string {
	return fmt.Sprintf("%s-%s", o.Name, constants.InstallConfigSecretSuffix)
}

// GetSSHPrivateKeySecretName returns the name of the SSH private key Secret.
func (o *Builder) GetSSHPrivateKeySecretName() string {
	return fmt.Sprintf("%s-%s", o.Name, constants.SSHPrivateKeySecretSuffix)
}

// GetPullSecretSecretName returns the name of the pull secret Secret.
func (o *Builder) GetPullSecretSecretName() string {
	return fmt.Sprintf("%s-%s", o.Name, constants.PullSecretSuffix)
}

// CloudBuilder interface exposes the functions we will use to set cloud specific portions of the cluster's resources.
type CloudBuilder interface {
	addInstallConfigPlatform(o *Builder, ic *installconfig.InstallConfig)

	GetCloudPlatform(o *Builder) hivev1.Platform

	// ManagedClusterCloud is the cloud label of the ManagedCluster and KlusterletAddonConfig.
	ManagedClusterCloud() string

	// ClusterDeploymentCloud is the cloud label of the ClusterDeployment.
	ClusterDeploymentCloud() string
}
