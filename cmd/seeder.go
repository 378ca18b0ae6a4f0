package cmd

import (
	"fmt"
	"log"

	"github.com/smdiallo/presence-management/internal/auth"
	authPostgres "github.com/smdiallo/presence-management/internal/auth/postgres"
	"github.com/smdiallo/presence-management/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default admin user",
	Long:  `Seed the default administrator identity if no such user exists yet. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		userRepo := authPostgres.NewUserRepository(db)
		authService := auth.NewService(userRepo, logger.LoggerWrapper(), cfg.Security.BCryptCost)

		if err := authService.EnsureAdmin(); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}

		fmt.Println("Admin user ensured:", auth.DefaultAdminEmail)
	},
}
