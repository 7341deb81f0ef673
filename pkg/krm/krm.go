// Package krm runs the generator as a kustomize KRM function. The function
// config is the acmClusterGenerator document; the generated manifests are
// appended to the items of the resource list.
package krm

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"sigs.k8s.io/kustomize/kyaml/fn/framework"
	"sigs.k8s.io/kustomize/kyaml/fn/framework/command"
	kyaml "sigs.k8s.io/kustomize/kyaml/yaml"

	"github.com/operate-first/acm-cluster-generator/pkg/generator"
	"github.com/operate-first/acm-cluster-generator/pkg/intent"
	"github.com/operate-first/acm-cluster-generator/pkg/util/yaml"
)

var _ framework.ResourceListProcessor = (*Processor)(nil)

// Processor generates cluster manifests from the function config of a resource list.
type Processor struct {
	Logger log.FieldLogger
}

// Process implements framework.ResourceListProcessor. Schema violations in the
// function config are reported as results, one per offending field.
func (p *Processor) Process(rl *framework.ResourceList) error {
	if rl.FunctionConfig == nil {
		rl.Results = append(rl.Results, &framework.Result{
			Message:  "functionConfig is required",
			Severity: framework.Error,
		})
		return rl.Results
	}
	cfg, err := rl.FunctionConfig.String()
	if err != nil {
		return errors.Wrap(err, "could not read functionConfig")
	}

	objs, err := generator.Objects([]byte(cfg), p.Logger)
	if err != nil {
		var verr *intent.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, fieldErr := range verr.Errors {
			rl.Results = append(rl.Results, &framework.Result{
				Message:  fieldErr.ErrorBody(),
				Severity: framework.Error,
				Field:    &framework.Field{Path: fieldErr.Field},
			})
		}
		return rl.Results
	}

	for _, obj := range objs {
		out, err := yaml.Marshal(obj)
		if err != nil {
			return errors.Wrapf(err, "could not serialize %s %s", obj.GetObjectKind().GroupVersionKind().Kind, obj.GetName())
		}
		node, err := kyaml.Parse(string(out))
		if err != nil {
			return errors.Wrapf(err, "could not parse %s %s", obj.GetObjectKind().GroupVersionKind().Kind, obj.GetName())
		}
		rl.Items = append(rl.Items, node)
	}
	rl.Results = append(rl.Results, &framework.Result{
		Message:  fmt.Sprintf("generated %d resources", len(objs)),
		Severity: framework.Info,
	})
	return nil
}

// NewCommand returns a command running the KRM function over stdin and stdout.
func NewCommand(logger log.FieldLogger) *cobra.Command {
	cmd := command.Build(&Processor{Logger: logger}, command.StandaloneDisabled, false)
	cmd.Use = "fn"
	cmd.Short = "Run as a kustomize KRM function reading a ResourceList from stdin"
	return cmd
}
