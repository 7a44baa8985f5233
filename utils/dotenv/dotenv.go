package dotenv

import (
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

const ProdEnv = "production"

// LoadDotEnvs loads the .env files following the convention:
// https://github.com/bkeepers/dotenv#what-other-env-files-can-i-use
// It only needs to be called once in the main function, other code can
// read env through os.Getenv during runtime.
func LoadDotEnvs() error {
	loadDotEnvs("")
	return nil
}

func loadDotEnvs(rootPath string) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// .env.[runtime_env].local has highest priority, usually contains username
	// and password and other sensitive information
	godotenv.Load(rootPath + ".env." + env + ".local")
	godotenv.Load(rootPath + ".env.local")
	// .env.[runtime_env] usually contains db connection information
	godotenv.Load(rootPath + ".env." + env)
	// .env usually contains shared variables(which might be overwritten by envs above)
	godotenv.Load(rootPath + ".env")
}

// IsProduction reports whether the server runs with APP_ENV=production.
func IsProduction() bool {
	return os.Getenv("APP_ENV") == ProdEnv
}

// Have to write this helper function due to a known issue of godotenv
// https://github.com/joho/godotenv/issues/43
func LoadDotEnvsInTests() error {
	re := regexp.MustCompile(`^(.*travelbuddy-server)`)
	cwd, _ := os.Getwd()
	rootPath := re.Find([]byte(cwd))

	godotenv.Load(string(rootPath) + "/" + ".env.test")
	return nil
}
