// Aira - sales pipeline CRM backend
package main

import (
	"fmt"
	"os"

	"github.com/Ocarreno01/aira-back/internal/api"
	"github.com/Ocarreno01/aira-back/internal/auth"
	"github.com/Ocarreno01/aira-back/internal/config"
	"github.com/Ocarreno01/aira-back/internal/database"
	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) > 1 {
		runCLI()
		return
	}
	startServer()
}

func startServer() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected", zap.String("host", cfg.Database.Host))

	if err := database.RunMigrations(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations complete")

	if err := database.Seed(db); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	authHandler := api.NewAuthHandler(db, jwtService, logger)
	projectHandler := api.NewProjectHandler(db, logger)
	negotiationHandler := api.NewNegotiationHandler(db, logger)
	router := api.SetupRouter(authHandler, projectHandler, negotiationHandler, cfg.CORS)

	logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("version", api.Version))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func connectDB() *gorm.DB {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	return db
}

// CLI
func runCLI() {
	switch os.Args[1] {
	case "serve":
		startServer()
	case "migrate":
		db := connectDB()
		if err := database.RunMigrations(db); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations complete")
	case "seed":
		db := connectDB()
		if err := database.RunMigrations(db); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		if err := database.Seed(db); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Seed complete")
	case "user":
		runUserCmd()
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println(`Usage: aira-back <command>
Commands:
  serve                         Start server
  migrate                       Run migrations
  seed                          Run migrations and seed reference data
  user list                     List users
  user create --name= --email= --password= [--role=]  Create user`)
}

func runUserCmd() {
	if len(os.Args) < 3 {
		printUsage()
		return
	}
	db := connectDB()
	switch os.Args[2] {
	case "list":
		var users []models.User
		db.Preload("Role").Order("name ASC").Find(&users)
		for _, u := range users {
			role := "-"
			if u.Role != nil {
				role = u.Role.Code
			}
			fmt.Printf("%s <%s> [%s]\n", u.Name, u.Email, role)
		}
	case "create":
		name := getFlag("--name")
		email := getFlag("--email")
		password := getFlag("--password")
		if name == "" || email == "" || password == "" {
			printUsage()
			return
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			os.Exit(1)
		}

		user := models.User{
			ID:       uuid.New(),
			Name:     name,
			Email:    email,
			Password: hash,
		}
		if roleCode := getFlag("--role"); roleCode != "" {
			var role models.Role
			if db.Where("code = ?", roleCode).First(&role).Error != nil {
				fmt.Fprintf(os.Stderr, "role not found: %s\n", roleCode)
				os.Exit(1)
			}
			user.RoleID = &role.ID
		}
		if err := db.Create(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("User created: %s\n", email)
	default:
		printUsage()
	}
}

func getFlag(name string) string {
	prefix := name + "="
	for _, arg := range os.Args {
		if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
			return arg[len(prefix):]
		}
	}
	return ""
}
