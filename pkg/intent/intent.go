// Package intent turns an acmClusterGenerator document into a validated
// ACMClusterGenerator.
//
// Parsing happens in two phases. The document is first decoded into a generic
// tree, which is then walked field by field to build the typed intent. Every
// missing or malformed field is reported with its full path; nothing is
// returned unless the whole document is valid.
package intent

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"

	v1 "github.com/operate-first/acm-cluster-generator/pkg/apis/operatefirst/v1"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig"
	"github.com/operate-first/acm-cluster-generator/pkg/installconfig/baremetal"
	"github.com/operate-first/acm-cluster-generator/pkg/util/yaml"
)

// ValidationError is returned when a document does not conform to the
// acmClusterGenerator schema. It holds one entry per offending field.
type ValidationError struct {
	Errors field.ErrorList
}

func (e *ValidationError) Error() string {
	return e.Errors.ToAggregate().Error()
}

// Fields returns the paths of the offending fields, in document order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		fields = append(fields, err.Field)
	}
	return fields
}

// Parse decodes and validates an acmClusterGenerator document. Schema
// violations are returned as a *ValidationError.
func Parse(data []byte) (*v1.ACMClusterGenerator, error) {
	tree, err := yaml.DecodeObject(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode intent document")
	}
	return FromTree(tree)
}

// FromTree validates an already decoded document.
func FromTree(tree map[string]interface{}) (*v1.ACMClusterGenerator, error) {
	d := &decoder{}
	gen := &v1.ACMClusterGenerator{
		APIVersion: d.stringOrDefault(tree, nil, "apiVersion", v1.Version),
		Kind:       d.stringOrDefault(tree, nil, "kind", v1.Kind),
	}
	if spec, ok := d.object(tree, nil, "spec"); ok {
		gen.Spec = d.spec(spec, field.NewPath("spec"))
	}
	if len(d.errs) > 0 {
		return nil, &ValidationError{Errors: d.errs}
	}
	return gen, nil
}

func (d *decoder) spec(obj map[string]interface{}, fldPath *field.Path) v1.ACMClusterGeneratorSpec {
	spec := v1.ACMClusterGeneratorSpec{
		ClusterName:  d.nonEmptyString(obj, fldPath, "clusterName"),
		BaseDomain:   d.nonEmptyString(obj, fldPath, "baseDomain"),
		EnableArgoCD: d.boolOrDefault(obj, fldPath, "enableArgoCd", true),
		PullSecret:   d.str(obj, fldPath, "pullSecret"),
	}
	if spec.ClusterName != "" {
		for _, msg := range validation.IsDNS1123Label(spec.ClusterName) {
			d.errs = append(d.errs, field.Invalid(fldPath.Child("clusterName"), spec.ClusterName, msg))
		}
	}
	if networking, ok := d.object(obj, fldPath, "networking"); ok {
		spec.Networking = d.networking(networking, fldPath.Child("networking"))
	}
	if provisioning, ok := d.object(obj, fldPath, "provisioning"); ok {
		spec.Provisioning = d.provisioning(provisioning, fldPath.Child("provisioning"))
	}
	if bm, ok := d.object(obj, fldPath, "baremetal"); ok {
		spec.BareMetal = d.bareMetal(bm, fldPath.Child("baremetal"))
	}
	if ssh, ok := d.object(obj, fldPath, "ssh"); ok {
		spec.SSH = d.ssh(ssh, fldPath.Child("ssh"))
	}
	return spec
}

func (d *decoder) networking(obj map[string]interface{}, fldPath *field.Path) v1.Networking {
	n := v1.Networking{
		MachineCIDR:    d.ipv4Network(obj, fldPath, "machineCIDR"),
		NetworkType:    d.stringOrDefault(obj, fldPath, "networkType", installconfig.DefaultNetworkType),
		ServiceNetwork: d.ipv4NetworkList(obj, fldPath, "serviceNetwork"),
		APIVIP:         d.ipv4Address(obj, fldPath, "apiVIP"),
		IngressVIP:     d.ipv4Address(obj, fldPath, "ingressVIP"),
	}
	if entries, ok := d.list(obj, fldPath, "clusterNetwork"); ok {
		n.ClusterNetwork = make([]v1.ClusterNetworkEntry, 0, len(entries))
		for i, e := range entries {
			entryPath := fldPath.Child("clusterNetwork").Index(i)
			entry, ok := d.item(e, entryPath)
			if !ok {
				continue
			}
			n.ClusterNetwork = append(n.ClusterNetwork, v1.ClusterNetworkEntry{
				CIDR:       d.ipv4Network(entry, entryPath, "cidr"),
				HostPrefix: d.optionalInt32(entry, entryPath, "hostPrefix"),
			})
		}
	}
	return n
}

func (d *decoder) provisioning(obj map[string]interface{}, fldPath *field.Path) v1.Provisioning {
	p := v1.Provisioning{
		LibvirtURI:                   d.url(obj, fldPath, "libvirtURI"),
		ProvisioningNetworkCIDR:      d.ipv4Network(obj, fldPath, "provisioningNetworkCIDR"),
		ProvisioningNetworkInterface: d.str(obj, fldPath, "provisioningNetworkInterface"),
		ProvisioningBridge:           d.stringOrDefault(obj, fldPath, "provisioningBridge", baremetal.DefaultProvisioningBridge),
		ExternalBridge:               d.stringOrDefault(obj, fldPath, "externalBridge", baremetal.DefaultExternalBridge),
	}
	if ref, ok := d.object(obj, fldPath, "imageSetRef"); ok {
		p.ImageSetRef.Name = d.nonEmptyString(ref, fldPath.Child("imageSetRef"), "name")
	}
	return p
}

func (d *decoder) bareMetal(obj map[string]interface{}, fldPath *field.Path) v1.BareMetal {
	bm := v1.BareMetal{
		BMCUsername:                    d.str(obj, fldPath, "bmcUsername"),
		BMCPassword:                    d.str(obj, fldPath, "bmcPassword"),
		DisableCertificateVerification: d.boolOrDefault(obj, fldPath, "disableCertificateVerification", true),
	}
	if hosts, ok := d.list(obj, fldPath, "hosts"); ok {
		bm.Hosts = make([]v1.Host, 0, len(hosts))
		for i, h := range hosts {
			hostPath := fldPath.Child("hosts").Index(i)
			host, ok := d.item(h, hostPath)
			if !ok {
				continue
			}
			bm.Hosts = append(bm.Hosts, d.host(host, hostPath))
		}
	}
	return bm
}

func (d *decoder) host(obj map[string]interface{}, fldPath *field.Path) v1.Host {
	h := v1.Host{
		Name:           d.str(obj, fldPath, "name"),
		Role:           d.str(obj, fldPath, "role"),
		BootMACAddress: d.str(obj, fldPath, "bootMACAddress"),
	}
	if bmc, ok := d.object(obj, fldPath, "bmc"); ok {
		bmcPath := fldPath.Child("bmc")
		h.BMC = v1.BMC{
			Address:                        d.url(bmc, bmcPath, "address"),
			Username:                       d.optionalString(bmc, bmcPath, "username"),
			Password:                       d.optionalString(bmc, bmcPath, "password"),
			DisableCertificateVerification: d.optionalBool(bmc, bmcPath, "disableCertificateVerification"),
		}
	}
	return h
}

func (d *decoder) ssh(obj map[string]interface{}, fldPath *field.Path) v1.SSH {
	return v1.SSH{
		SSHKnownHosts: d.stringList(obj, fldPath, "sshKnownHosts"),
		SSHPublicKey:  d.str(obj, fldPath, "sshPublicKey"),
		SSHPrivateKey: d.str(obj, fldPath, "sshPrivateKey"),
	}
}
