package main

import (
	"github.com/aidanjbailey/anidopt/internal/application"
	"github.com/aidanjbailey/anidopt/internal/platform/metrics"
	"github.com/aidanjbailey/anidopt/internal/repository"
	"github.com/aidanjbailey/anidopt/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the controlled vocabularies from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			refs := application.NewReferenceService(
				repository.NewGormReferenceRepository(rt.db),
				metrics.NewRecorder(),
				rt.log,
			)
			_, err = seed.NewSeeder(refs, rt.log).Apply(cmd.Context(), vocab)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "configs/vocabulary.yaml", "vocabulary YAML file")
	return cmd
}
