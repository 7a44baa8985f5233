package main

import (
	"os"

	"travelbuddy-server/externals"
	"travelbuddy-server/server"
	"travelbuddy-server/utils"
	"travelbuddy-server/utils/dotenv"
	. "travelbuddy-server/utils/log"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatalf("failed to connect to database: %v", err)
	}
	utils.DatabaseSetupAndMigration(db)

	utils.InitRedis()
	externals.InitStripe()

	var images externals.ImageStore
	if store, err := externals.NewS3ImageStore(); err != nil {
		Log.WithError(err).Warn("image uploads disabled, falling back to fake store")
		images = externals.FakeImageStore{}
	} else {
		images = store
	}

	if err := server.SeedSuperAdmin(db); err != nil {
		Log.Fatalf("failed to seed super admin: %v", err)
	}

	router := server.SetupRouter(db, images)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	Log.Infof("api server starts up on :%s", port)
	if err := router.Run(":" + port); err != nil {
		Log.Fatalf("server exited: %v", err)
	}
}
