package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"wellcoach/coaching-api/internal/config"
	"wellcoach/coaching-api/internal/domain"
	"wellcoach/coaching-api/internal/repository"
	"wellcoach/coaching-api/internal/repository/mongo"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func defaultPackages() []domain.SelfTrainingPackage {
	return []domain.SelfTrainingPackage{
		{
			Name:           "Monthly",
			Description:    "One month of personalised self-training plans",
			DurationMonths: 1,
			Price:          29.99,
			Features:       []string{"Personalised workout plan", "Nutrition targets", "Habit tracker"},
			IsActive:       true,
		},
		{
			Name:               "Quarterly",
			Description:        "Three months with a fresh plan after every assessment",
			DurationMonths:     3,
			Price:              79.99,
			DiscountPercentage: 11,
			Features:           []string{"Personalised workout plan", "Nutrition targets", "Habit tracker", "Printable plan export"},
			IsActive:           true,
			IsPopular:          true,
		},
		{
			Name:               "Yearly",
			Description:        "Twelve months of self-training",
			DurationMonths:     12,
			Price:              269.99,
			DiscountPercentage: 25,
			Features:           []string{"Personalised workout plan", "Nutrition targets", "Habit tracker", "Printable plan export"},
			IsActive:           true,
		},
	}
}

func newSeedPackagesCmd() *cobra.Command {
	var (
		configPath string
		force      bool
	)
	cmd := &cobra.Command{
		Use:   "seed-packages",
		Short: "Insert the default self-training packages",
		Long:  `Inserts the default packages unless the collection already holds some. Use --force to insert anyway.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil && !errors.Is(err, config.ErrMissingJWTSecret) {
				return fmt.Errorf("load config: %w", err)
			}
			client, err := mongo.ConnectDB(cfg.Database.URI, cfg.Database.ConnectTimeout)
			if err != nil {
				return fmt.Errorf("connect to MongoDB: %w", err)
			}
			defer func() { _ = mongo.DisconnectDB(client) }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			repo := mongo.NewMongoPackageRepository(client.Database(cfg.Database.Name))
			return seedPackages(ctx, cmd.OutOrStdout(), repo, force)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", ".", "directory holding config.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "insert even when packages exist")
	return cmd
}

func seedPackages(ctx context.Context, out io.Writer, repo repository.PackageRepository, force bool) error {
	if !force {
		n, err := repo.Count(ctx)
		if err != nil {
			return fmt.Errorf("count packages: %w", err)
		}
		if n > 0 {
			color.New(color.FgYellow).Fprintf(out, "! %d packages already exist, nothing inserted\n", n)
			return nil
		}
	}

	for _, pkg := range defaultPackages() {
		pkg := pkg
		if _, err := repo.Create(ctx, &pkg); err != nil {
			return fmt.Errorf("create package %s: %w", pkg.Name, err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ %s", pkg.Name)
		fmt.Fprintf(out, "  %d months, %.2f (%.2f/month)\n", pkg.DurationMonths, pkg.Price, pkg.PricePerMonth())
	}
	return nil
}
