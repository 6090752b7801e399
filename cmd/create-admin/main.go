package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/aeroprep/aeroprep-backend/internal/config"
	"github.com/aeroprep/aeroprep-backend/internal/database"
	"github.com/aeroprep/aeroprep-backend/internal/logger"
	"github.com/aeroprep/aeroprep-backend/internal/model"
	"github.com/aeroprep/aeroprep-backend/internal/repository"
	"github.com/aeroprep/aeroprep-backend/internal/service"
	"golang.org/x/term"
)

// Interactive bootstrap for the first back-office account. The admin is
// created with every permission; scoped admins are added later through
// the admin API.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	adminService := service.NewAdminService(
		repository.NewAdminRepository(pool),
		repository.NewDashboardRepository(pool),
		service.NewAuthService(cfg, rdb),
	)

	fmt.Println("=== Create New Admin User ===")

	name, ok := promptLine("Enter Name: ")
	if !ok {
		fmt.Println("Error: Name is required")
		return
	}

	email, ok := promptLine("Enter Email: ")
	if !ok {
		fmt.Println("Error: Email is required")
		return
	}

	// Password is read without echo.
	fmt.Print("Enter Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(raw)
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	permissions := make([]string, 0, len(model.AllPermissions))
	for _, p := range model.AllPermissions {
		permissions = append(permissions, string(p))
	}

	newAdmin := &model.Admin{
		Email:       email,
		Name:        name,
		Permissions: permissions,
	}

	if err := adminService.Create(ctx, newAdmin, password); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", newAdmin.Name, newAdmin.Email, newAdmin.ID)
}

func promptLine(prompt string) (string, bool) {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(line)
	return line, line != ""
}
