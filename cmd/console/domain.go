package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/console/internal/config"
	"github.com/vango-dev/console/internal/errors"
	"github.com/vango-dev/console/pkg/domain"
)

func domainCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Show or change the console's domain",
	}
	cmd.AddCommand(domainShowCmd(flags), domainSetCmd(flags))
	return cmd
}

// domainStore returns a store holding the configured domain.
func domainStore(cfg *config.Config) *domain.Store {
	store := domain.NewStore()
	if d := cfg.Domain; d != nil {
		store.SetDomain(domain.State{
			DomainID:         d.DomainID,
			Name:             d.Name,
			AuthType:         d.AuthType,
			AuthSystem:       d.AuthSystem,
			AuthOptions:      d.AuthOptions,
			ExtendedAuthType: d.ExtendedAuthType,
		})
	}
	return store
}

func domainShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configured domain as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(domainStore(cfg).Load())
		},
	}
}

func domainSetCmd(flags *globalFlags) *cobra.Command {
	var (
		info        domain.State
		authOptions []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the domain information in console.json",
		Long: `Replace the domain information in console.json. Every domain field is
overwritten: fields left out are cleared.

Example:
  console domain set --id domain-1 --name acme --auth-type LOCAL`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if info.DomainID == "" || info.Name == "" {
				return errors.Newf(errors.CategoryCLI, "--id and --name are required").
					WithExample("console domain set --id domain-1 --name acme")
			}
			for _, opt := range authOptions {
				k, v, ok := strings.Cut(opt, "=")
				if !ok || k == "" {
					return errors.Newf(errors.CategoryCLI, "invalid auth option %q", opt).
						WithExample("--auth-option realm=acme")
				}
				if info.AuthOptions == nil {
					info.AuthOptions = map[string]any{}
				}
				info.AuthOptions[k] = v
			}

			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			store := domainStore(cfg)
			store.SetDomain(info)
			s := store.Load()
			cfg.Domain = &config.DomainConfig{
				DomainID:         s.DomainID,
				Name:             s.Name,
				AuthType:         s.AuthType,
				AuthSystem:       s.AuthSystem,
				AuthOptions:      s.AuthOptions,
				ExtendedAuthType: s.ExtendedAuthType,
			}

			path := cfg.Path()
			if path == "" {
				path = config.ConfigFileName
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Domain set to %s (%s) in %s", s.Name, s.DomainID, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&info.DomainID, "id", "", "Domain ID")
	cmd.Flags().StringVar(&info.Name, "name", "", "Domain name")
	cmd.Flags().StringVar(&info.AuthType, "auth-type", "", "Authentication type")
	cmd.Flags().StringVar(&info.AuthSystem, "auth-system", "", "Authentication system")
	cmd.Flags().StringVar(&info.ExtendedAuthType, "extended-auth-type", "", "Extended authentication type")
	cmd.Flags().StringArrayVar(&authOptions, "auth-option", nil, "Authentication option as key=value (repeatable)")

	return cmd
}
