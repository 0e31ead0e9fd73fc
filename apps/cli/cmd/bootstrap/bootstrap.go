// Package bootstrap seeds the base records a fresh deployment needs: the
// initial admin user and, optionally, a starter catalog.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	usersrepo "github.com/freshfleet/backoffice/domains/users/be/repo"
	usersservice "github.com/freshfleet/backoffice/domains/users/be/service"
	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
	"github.com/freshfleet/backoffice/platform/go/requesttrace"
)

// Notes/constraints:
// - Seeding is check-or-create: rerunning against a populated database is safe.
// - The admin user is created first so later seed records can carry audit ids.

// Command groups bootstrap helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap back-office resources (admin user, starter catalog)",
	}

	cmd.AddCommand(seedCommand())
	return cmd
}

func seedCommand() *cobra.Command {
	var (
		mongoURI     string
		database     string
		adminEmail   string
		adminName    string
		withCatalog  bool
		storeTimeout time.Duration
	)

	c := &cobra.Command{
		Use:   "seed",
		Short: "Seed the admin user and optional starter catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := persistence.NewClient(ctx, persistence.ClientConfig{URI: mongoURI})
			if err != nil {
				return fmt.Errorf("init mongo client: %w", err)
			}
			defer persistence.CloseClient(context.Background(), client)

			store, err := persistence.NewMongoStore(client, database, storeTimeout)
			if err != nil {
				return fmt.Errorf("init mongo store: %w", err)
			}

			reg, err := registry.Load()
			if err != nil {
				return fmt.Errorf("load collection registry: %w", err)
			}

			engine := persistence.NewEngine(store, reg)

			userRepo, err := usersrepo.NewEngineRepository(engine)
			if err != nil {
				return fmt.Errorf("init users repository: %w", err)
			}
			userSvc := usersservice.New(userRepo)

			audit := requesttrace.System(uuid.NewString())
			admin, err := ensureAdminUser(ctx, userRepo, userSvc, audit, adminEmail, adminName)
			if err != nil {
				return err
			}

			adminID, _ := adminSequenceID(admin)
			fmt.Fprintf(cmd.OutOrStdout(), "Admin user ready: %s (Users_id=%d)\n", admin["Email"], adminID)

			if withCatalog {
				created, err := seedCatalog(ctx, engine, adminID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Starter catalog ready (%d new records)\n", created)
			}

			return nil
		},
	}

	c.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection string")
	c.Flags().StringVar(&database, "database", "freshfleet", "Database name")
	c.Flags().StringVar(&adminEmail, "admin-email", "", "Initial admin user email")
	c.Flags().StringVar(&adminName, "admin-name", "", "Initial admin user name")
	c.Flags().BoolVar(&withCatalog, "with-catalog", false, "Also seed a starter grocery catalog")
	c.Flags().DurationVar(&storeTimeout, "store-timeout", 5*time.Second, "Per-operation store timeout")

	_ = c.MarkFlagRequired("mongo-uri")
	_ = c.MarkFlagRequired("admin-email")
	_ = c.MarkFlagRequired("admin-name")

	return c
}

// ensureAdminUser performs a check-or-create for the admin user.
func ensureAdminUser(ctx context.Context, repo usersrepo.Repository, svc usersservice.Service, audit requesttrace.AuditInfo, email, name string) (persistence.Document, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("admin email and name are required")
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, persistence.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin user: %w", err)
	}

	user, err := svc.Create(ctx, audit, usersservice.CreateUserInput{Name: name, Email: email})
	if err != nil {
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return user, nil
}

func adminSequenceID(user persistence.Document) (int64, bool) {
	switch v := user["Users_id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// seedCatalog inserts a small starter catalog: a handful of grocery categories
// plus the default catering types. Existing records (matched by Name) are left
// untouched.
func seedCatalog(ctx context.Context, engine *persistence.Engine, actorID int64) (int, error) {
	actor := &actorID

	seeds := []struct {
		collection string
		names      []string
	}{
		{collection: "grocery_categories", names: []string{"Produce", "Dairy", "Bakery", "Beverages"}},
		{collection: "catering_types", names: []string{"Corporate", "Private Event"}},
	}

	created := 0
	for _, seed := range seeds {
		col, err := engine.Collection(seed.collection)
		if err != nil {
			return created, fmt.Errorf("bind %s: %w", seed.collection, err)
		}
		for _, name := range seed.names {
			_, err := engine.Store().FindOne(ctx, seed.collection, persistence.Eq("Name", name), nil)
			if err == nil {
				continue
			}
			if !errors.Is(err, persistence.ErrNotFound) {
				return created, fmt.Errorf("lookup %s %q: %w", seed.collection, name, err)
			}
			if _, err := col.Create(ctx, persistence.Document{"Name": name}, actor); err != nil {
				return created, fmt.Errorf("seed %s %q: %w", seed.collection, name, err)
			}
			created++
		}
	}
	return created, nil
}
