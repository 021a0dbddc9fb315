package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/voltpath/chargelog/internal/cli"
	"github.com/voltpath/chargelog/internal/extract"
	"github.com/voltpath/chargelog/internal/model"
	"github.com/voltpath/chargelog/internal/service"
)

func stationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Manage charging station categories",
		Long:  `List, add, and update the charging stations that receipts resolve against.`,
	}

	cmd.AddCommand(listStationsCmd())
	cmd.AddCommand(addStationCmd())
	cmd.AddCommand(updateStationCmd())

	return cmd
}

func listStationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stations",
		Long:  `Display all active charging stations in matching order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get stations: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No stations yet. They appear as you ingest receipts, or use 'chargelog stations add'."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Color"),
				headerStyle.Render("Icon"),
				headerStyle.Render("Order"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 8),
				strings.Repeat("-", 20),
				strings.Repeat("-", 5))

			for _, cat := range categories {
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.ColorHex)).Render(cat.ColorHex)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", cat.ID, cat.Name, swatch, cat.Icon, cat.SortOrder)
			}

			return nil
		},
	}
}

func addStationCmd() *cobra.Command {
	var (
		colorHex string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new station",
		Long:  `Create a new charging station category. Color and icon default to the brand style when the name contains a known brand.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("station name cannot be empty")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			existing, err := store.GetCategoryByName(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to check existing station: %w", err)
			}
			if existing != nil {
				return fmt.Errorf("station %q already exists", name)
			}

			brandColor, brandIcon := extract.BrandStyle(name)
			if colorHex == "" {
				colorHex = brandColor
			}
			if icon == "" {
				icon = brandIcon
			}

			categories, err := store.GetCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to get stations: %w", err)
			}
			sortOrder := 0
			for _, cat := range categories {
				if cat.SortOrder > sortOrder {
					sortOrder = cat.SortOrder
				}
			}

			category, err := store.CreateCategory(ctx, &model.StationCategory{
				Name:      name,
				ColorHex:  colorHex,
				Icon:      icon,
				SortOrder: sortOrder + 1,
				IsActive:  true,
			})
			if err != nil {
				return fmt.Errorf("failed to create station: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created station %q (ID: %d)", category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&colorHex, "color", "", "Hex color for the station (default: brand color)")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name for the station (default: brand icon)")

	return cmd
}

func updateStationCmd() *cobra.Command {
	var (
		name     string
		colorHex string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a station",
		Long:  `Update the name, color, or icon of an existing station.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid station ID: %w", err)
			}

			if name == "" && colorHex == "" && icon == "" {
				return fmt.Errorf("must specify --name, --color, or --icon to update")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			current, err := findStation(ctx, store, id)
			if err != nil {
				return err
			}

			if name == "" {
				name = current.Name
			}
			if colorHex == "" {
				colorHex = current.ColorHex
			}
			if icon == "" {
				icon = current.Icon
			}

			if err := store.UpdateCategory(ctx, id, name, colorHex, icon); err != nil {
				return fmt.Errorf("failed to update station: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated station %d", id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New station name")
	cmd.Flags().StringVar(&colorHex, "color", "", "New hex color")
	cmd.Flags().StringVar(&icon, "icon", "", "New icon name")

	return cmd
}

func findStation(ctx context.Context, store service.Storage, id int) (*model.StationCategory, error) {
	categories, err := store.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stations: %w", err)
	}
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("station with ID %d not found", id)
}
