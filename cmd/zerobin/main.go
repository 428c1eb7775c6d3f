package main

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"zerobin/internal/config"
	"zerobin/internal/core"
	"zerobin/internal/database"
	"zerobin/internal/routes"
	"zerobin/internal/utils"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Panicf("config.FromEnv(). %+v", err)
	}

	err = utils.MakeSureDirExists(cfg.DatabasePath)
	if err != nil {
		log.Panicf("utils.MakeSureDirExists(cfg.DatabasePath). %+v", err)
	}

	sqlite, err := database.DatabaseSetup(ctx, cfg.DatabasePath, database.EmbedMigrations)
	if err != nil {
		log.Panicf("database.DatabaseSetup(ctx, cfg.DatabasePath). %+v", err)
	}
	defer sqlite.Close()

	server := core.NewPasteServer(sqlite, cfg)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Content-Length"},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition", "Location"},
	}))

	routes.RootRoutes(r, server)
	routes.UploadRoutes(r, server)

	go core.SweepLoop(sqlite, core.SweepInterval)

	log.Println("zerobin listening on", cfg.ListenAddr)
	r.Run(cfg.ListenAddr)
}
