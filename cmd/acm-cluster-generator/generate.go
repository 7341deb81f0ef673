package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/operate-first/acm-cluster-generator/pkg/generator"
)

// GenerateOptions holds the options of the root command.
type GenerateOptions struct {
	LogLevel   string
	IntentFile string
	Out        io.Writer

	log log.FieldLogger
}

// Complete sets remaining fields based on command options and arguments.
func (o *GenerateOptions) Complete(args []string) error {
	level, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return errors.Wrap(err, "cannot parse log level")
	}
	log.SetLevel(level)

	o.IntentFile = args[0]
	o.log = log.WithField("file", o.IntentFile)
	return nil
}

// Run reads the intent file and writes the generated manifests to Out. Nothing
// is written if generation fails.
func (o *GenerateOptions) Run() error {
	data, err := os.ReadFile(o.IntentFile)
	if err != nil {
		return errors.Wrap(err, "could not read intent file")
	}
	out, err := generator.Generate(data, o.log)
	if err != nil {
		return err
	}
	if _, err := o.Out.Write(out); err != nil {
		return errors.Wrap(err, "could not write manifests")
	}
	return nil
}
