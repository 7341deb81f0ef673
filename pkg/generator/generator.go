// Package generator turns an acmClusterGenerator document into the manifests
// needed to register and provision the cluster it describes.
package generator

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/operate-first/acm-cluster-generator/pkg/clusterresource"
	"github.com/operate-first/acm-cluster-generator/pkg/intent"
	"github.com/operate-first/acm-cluster-generator/pkg/util/yaml"
)

// Objects parses data and returns the generated objects in apply order. A nil
// logger logs to the standard logger.
func Objects(data []byte, logger log.FieldLogger) ([]clusterresource.Object, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	gen, err := intent.Parse(data)
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("cluster", gen.Spec.ClusterName)
	logger.WithField("hosts", len(gen.Spec.BareMetal.Hosts)).Debug("parsed intent")

	builder := clusterresource.NewBuilder(gen)
	builder.Logger = logger
	objs, err := builder.Build()
	if err != nil {
		return nil, errors.Wrap(err, "could not build cluster resources")
	}
	return objs, nil
}

// Generate parses data and returns the generated objects as a multi-document YAML
// stream. Nothing is returned unless every document was produced.
func Generate(data []byte, logger log.FieldLogger) ([]byte, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	objs, err := Objects(data, logger)
	if err != nil {
		return nil, err
	}
	docs := make([]interface{}, 0, len(objs))
	for _, obj := range objs {
		docs = append(docs, obj)
	}
	out, err := yaml.MarshalAll(docs...)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize cluster resources")
	}
	logger.WithField("objects", len(objs)).Info("generated cluster resources")
	return out, nil
}
