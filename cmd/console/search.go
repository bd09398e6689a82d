package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/console/internal/errors"
	"github.com/vango-dev/console/internal/identity"
	"github.com/vango-dev/console/pkg/search"
)

func searchCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Work with the user table search configuration",
		Long: `Inspect the search keys of the user table, list candidate values from
the user directory, and parse search queries.`,
	}

	cmd.AddCommand(
		searchKeysCmd(flags),
		searchValuesCmd(flags),
		searchParseCmd(flags),
		searchImportCmd(flags),
	)
	return cmd
}

// withHandlers runs fn with the user search handlers backed by the
// configured directory.
func withHandlers(flags *globalFlags, fn func(a *app, h *search.Handlers) error) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	dir, err := a.openDirectory()
	if err != nil {
		return err
	}
	defer dir.Close()

	return fn(a, search.UserSearchHandlers(dir))
}

func searchKeysCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the searchable keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHandlers(flags, func(_ *app, h *search.Handlers) error {
				w := cmd.OutOrStdout()
				for _, set := range h.KeyItemSets {
					fmt.Fprintln(w, bold(set.Title))
					for _, k := range set.Items {
						info(w, "%-18s %-16s %s", k.Name, k.Label, dim(string(k.Type())))
					}
				}
				return nil
			})
		},
	}
}

func searchValuesCmd(flags *globalFlags) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "values <key> [text]",
		Short: "List candidate values of a key",
		Long: `List the values a key can take, filtered by text.

Examples:
  console search values state
  console search values user_id adm --limit 5`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 2 {
				text = args[1]
			}
			return withHandlers(flags, func(_ *app, h *search.Handlers) error {
				w := cmd.OutOrStdout()
				res, err := h.Values(cmd.Context(), args[0], text, limit)
				if err != nil {
					err = cliError(err)
					if jsonOut {
						writeJSONError(w, err)
					}
					return err
				}

				if jsonOut {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(res)
				}
				for _, item := range res.Results {
					if item.Label != "" && item.Label != item.Name {
						info(w, "%s %s", item.Name, dim(item.Label))
					} else {
						info(w, "%s", item.Name)
					}
				}
				if res.TotalCount > len(res.Results) {
					info(w, "%s", dim(fmt.Sprintf("... %d more", res.TotalCount-len(res.Results))))
				}
				if len(res.Results) == 0 {
					warn(w, "No values for %s", args[0])
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "Maximum number of values")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")

	return cmd
}

func searchParseCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a search query into filters",
		Long: `Parse a search query the way the user table does.

Example:
  console search parse 'state:ENABLED last_accessed_at:>=2024-01-01 admin'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHandlers(flags, func(_ *app, h *search.Handlers) error {
				filters, err := search.ParseQuery(strings.Join(args, " "), h)
				if err != nil {
					return cliError(err)
				}
				w := cmd.OutOrStdout()
				for _, f := range filters {
					if f.Key == "" {
						info(w, "%s %q", dim("keyword"), f.Value)
						continue
					}
					op := string(f.Operator)
					if op == "" {
						op = "~"
					}
					info(w, "%s %s %q", green(f.Key), op, f.Value)
				}
				return nil
			})
		},
	}
}

// userRecord is a user as written in an import file.
type userRecord struct {
	UserID         string `yaml:"user_id"`
	Name           string `yaml:"name"`
	State          string `yaml:"state"`
	Email          string `yaml:"email"`
	UserType       string `yaml:"user_type"`
	RoleName       string `yaml:"role_name"`
	Backend        string `yaml:"backend"`
	LastAccessedAt string `yaml:"last_accessed_at"`
	Timezone       string `yaml:"timezone"`
}

func (r userRecord) user() (identity.User, error) {
	u := identity.User{
		UserID:   r.UserID,
		Name:     r.Name,
		State:    r.State,
		Email:    r.Email,
		UserType: r.UserType,
		RoleName: r.RoleName,
		Backend:  r.Backend,
		Timezone: r.Timezone,
	}
	if r.LastAccessedAt != "" {
		t, err := time.Parse(time.RFC3339, r.LastAccessedAt)
		if err != nil {
			return u, fmt.Errorf("user %s: last_accessed_at: %w", r.UserID, err)
		}
		u.LastAccessedAt = t
	}
	return u, nil
}

func searchImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <users.yaml>",
		Short: "Import users into the directory",
		Long: `Import users from a YAML list into the configured identity database.
Existing users with the same user_id are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Newf(errors.CategoryCLI, "cannot read %s", args[0]).Wrap(err)
			}
			var records []userRecord
			if err := yaml.Unmarshal(data, &records); err != nil {
				return errors.Newf(errors.CategoryCLI, "invalid user file").
					WithLocationFromError(args[0], err).
					Wrap(err)
			}

			users := make([]identity.User, 0, len(records))
			for _, r := range records {
				if r.UserID == "" {
					return errors.Newf(errors.CategoryCLI, "user without user_id in %s", args[0])
				}
				u, err := r.user()
				if err != nil {
					return errors.Newf(errors.CategoryCLI, "invalid user file").Wrap(err)
				}
				users = append(users, u)
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if a.cfg.IdentityPath() == "" {
				return errors.New("E302").WithDetail("identity.database is not set, there is nowhere to import to")
			}
			dir, err := a.openDirectory()
			if err != nil {
				return err
			}
			defer dir.Close()

			if err := dir.Seed(cmd.Context(), users...); err != nil {
				return errors.New("E302").Wrap(err)
			}
			success(cmd.OutOrStdout(), "Imported %d users into %s", len(users), a.cfg.IdentityPath())
			return nil
		},
	}
}
