package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/VitaminP8/blogicum/internal/server"
	"github.com/VitaminP8/blogicum/internal/storage/sqlstore"
	"github.com/VitaminP8/blogicum/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer sqlstore.CloseDB(db)

			if err := sqlstore.Migrate(db); err != nil {
				return err
			}
			rt.logger.Info("database migrated", zap.String("storage", rt.cfg.Storage))
			return nil
		},
	}
}

func newCategoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var (
		title       string
		description string
		published   bool
	)
	createCmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				c := &models.Category{
					Title:       title,
					Description: description,
					Slug:        args[0],
					IsPublished: published,
				}
				if c.Title == "" {
					c.Title = c.Slug
				}
				if err := stores.Categories.CreateCategory(context.Background(), c); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created category %d %s\n", c.ID, c.Slug)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&title, "title", "", "Category title (defaults to slug)")
	createCmd.Flags().StringVar(&description, "description", "", "Category description")
	createCmd.Flags().BoolVar(&published, "published", true, "Publish the category")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				categories, err := stores.Categories.GetAllCategories(context.Background())
				if err != nil {
					return err
				}
				for _, c := range categories {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\tpublished=%t\n", c.ID, c.Slug, c.Title, c.IsPublished)
				}
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a category, its posts stay without category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				if err := stores.Categories.DeleteCategoryBySlug(context.Background(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted category %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(createCmd, listCmd, deleteCmd)
	return cmd
}

func newLocationCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage locations",
	}

	var published bool
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				l := &models.Location{Name: args[0], IsPublished: published}
				if err := stores.Locations.CreateLocation(context.Background(), l); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created location %d %s\n", l.ID, l.Name)
				return nil
			})
		},
	}
	createCmd.Flags().BoolVar(&published, "published", true, "Publish the location")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				locations, err := stores.Locations.GetAllLocations(context.Background())
				if err != nil {
					return err
				}
				for _, l := range locations {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tpublished=%t\n", l.ID, l.Name, l.IsPublished)
				}
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location, its posts stay without location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid location id %q: %w", args[0], err)
			}
			return withDatabase(rt, func(stores server.Stores) error {
				if err := stores.Locations.DeleteLocationById(context.Background(), uint(id)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted location %d\n", id)
				return nil
			})
		},
	}

	cmd.AddCommand(createCmd, listCmd, deleteCmd)
	return cmd
}

func newUserCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var password string
	createCmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				u, err := stores.Users.RegisterUser(context.Background(), args[0], password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s\n", u.ID, u.Username)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&password, "password", "", "User password")
	_ = createCmd.MarkFlagRequired("password")

	deleteCmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user with all posts and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(rt, func(stores server.Stores) error {
				u, err := stores.Users.GetUserByUsername(context.Background(), args[0])
				if err != nil {
					return err
				}
				if err := stores.Users.DeleteUser(context.Background(), u.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", u.Username)
				return nil
			})
		},
	}

	cmd.AddCommand(createCmd, deleteCmd)
	return cmd
}
