package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operate-first/acm-cluster-generator/pkg/constants"
	"github.com/operate-first/acm-cluster-generator/pkg/krm"
)

func main() {
	log.SetOutput(os.Stderr)

	cmd := newRootCommand(os.Stdout)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error occurred: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &GenerateOptions{Out: out}
	cmd := &cobra.Command{
		Use:   "acm-cluster-generator INTENT_FILE",
		Short: "Generates the manifests registering a bare metal cluster with an ACM hub",
		Long: "Reads an acmClusterGenerator document and writes the Namespace, KlusterletAddonConfig, " +
			"ManagedCluster, Secrets and ClusterDeployment needed to register and provision the cluster " +
			"as a multi-document YAML stream to stdout.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(args); err != nil {
				return err
			}
			return opts.Run()
		},
	}

	defaultLevel := os.Getenv(constants.LogLevelEnvVar)
	if defaultLevel == "" {
		defaultLevel = constants.DefaultLogLevel
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.LogLevel, "log-level", defaultLevel,
		fmt.Sprintf("log level, one of: debug, info, warn, error, fatal, panic (env %s)", constants.LogLevelEnvVar))

	fn := krm.NewCommand(log.StandardLogger())
	fn.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	}
	cmd.AddCommand(fn)
	return cmd
}
