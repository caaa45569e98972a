package main

import (
	"github.com/spf13/viper"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/registry"
	"github.com/skillcase/skillcase/pkg/validate"
)

// newLoaderFromConfig builds a corpus loader from viper configuration.
// Explicit roots take precedence over the defaults.
func newLoaderFromConfig() (*corpus.Loader, error) {
	var opts []corpus.Option

	if roots := viper.GetStringSlice("roots"); len(roots) > 0 {
		opts = append(opts, corpus.WithRoots(roots...))
	}
	if include := viper.GetStringSlice("include"); len(include) > 0 {
		opts = append(opts, corpus.WithInclude(include...))
	}
	if exclude := viper.GetStringSlice("exclude"); len(exclude) > 0 {
		opts = append(opts, corpus.WithExclude(exclude...))
	}

	return corpus.NewLoader(opts...)
}

// newRegistryFromConfig loads the skill registry from viper configuration
func newRegistryFromConfig() (*registry.Registry, error) {
	if dirs := viper.GetStringSlice("skill_dirs"); len(dirs) > 0 {
		return registry.Load(registry.WithSkillDirs(dirs...))
	}
	return registry.Load()
}

// newValidatorFromConfig builds a validator wired to the registry and
// the configured category set
func newValidatorFromConfig(reg *registry.Registry) *validate.Validator {
	return validate.New(
		validate.WithCategories(viper.GetStringSlice("categories")...),
		validate.WithRegistry(reg),
	)
}
