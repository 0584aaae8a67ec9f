// Command sitectl runs and maintains the corporate site backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"corpsite/internal/app"
	"corpsite/internal/domain"
	"corpsite/internal/repository"
	"corpsite/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitectl",
		Short: "Run and maintain the corporate site backend",
		Long: `sitectl serves the site API and performs maintenance tasks against the
configured database and cache. Configuration comes from CONFIG_FILE, .env and
the environment, the same as the server.`,
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), createAdminCmd(), revalidateCmd())
	return root
}

// withApp opens the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				if migrate {
					if err := a.Migrate(); err != nil {
						return err
					}
				}
				return a.Serve(cmd.Context())
			})
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "migrate and seed before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				if err := a.Migrate(); err != nil {
					return err
				}
				cmd.Println("schema up to date")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert default settings and the configured admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return a.Seed()
			})
		},
	}
}

func createAdminCmd() *cobra.Command {
	var in service.CreateUserInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a panel user",
		Long: `Create a panel user. The password may also be given through the
SITECTL_PASSWORD environment variable to keep it out of shell history.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("SITECTL_PASSWORD")
			}
			in.Role = strings.ToUpper(in.Role)
			return withApp(cmd, func(a *app.App) error {
				users := service.NewUserService(repository.NewUserRepository(a.DB), a.Publisher())
				u, err := users.Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				cmd.Printf("created %s %s (id %d)\n", u.Role, u.Email, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&in.Role, "role", domain.RoleAdmin, "ADMIN or EDITOR")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func revalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "revalidate [tag...]",
		Short:     "Drop cached public pages by tag",
		Long:      "Drop cached public pages carrying any of the given tags. Without tags every page is dropped.",
		ValidArgs: domain.CacheTags,
		Args: func(_ *cobra.Command, args []string) error {
			for _, t := range args {
				if !slices.Contains(domain.CacheTags, t) {
					return fmt.Errorf("unknown tag %q, want one of %s", t, strings.Join(domain.CacheTags, " "))
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tags := args
			if len(tags) == 0 {
				tags = []string{domain.TagAll}
			}
			return withApp(cmd, func(a *app.App) error {
				if err := a.Cache.Revalidate(cmd.Context(), tags...); err != nil {
					return err
				}
				cmd.Printf("revalidated %s\n", strings.Join(tags, " "))
				return nil
			})
		},
	}
}
