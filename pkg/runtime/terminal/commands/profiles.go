package commands

import (
	"errors"
	"fmt"

	"github.com/de-tools/request-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	env Env
}

func NewProfilesCmd(env Env) *cobra.Command {
	pc := &ProfilesCmd{env: env}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List connection profiles in the configured service file",
		Long: `Lists the sections of database.service_file. The profile selected by
database.service is marked with *.`,
		RunE: pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	cfg, err := pc.env.Config()
	if err != nil {
		return err
	}
	if cfg.Database.ServiceFile == "" {
		return errors.New("database.service_file is not configured")
	}

	registry, err := config.NewRegistry(cfg.Database.ServiceFile)
	if err != nil {
		return fmt.Errorf("failed to load service file: %w", err)
	}
	profiles, err := registry.GetProfiles(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range profiles {
		marker := " "
		if name == cfg.Database.Service {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s\n", marker, name)
	}
	return nil
}
