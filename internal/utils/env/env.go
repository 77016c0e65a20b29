package env

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AttemptReadLocalEnvironment loads the env file if it exists; a
// missing file is not an error so the default ./.env stays optional.
func AttemptReadLocalEnvironment(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

func CanGet(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func CanGetInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(CanGet(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func CanGetBool(key string) bool {
	v, err := strconv.ParseBool(CanGet(key))
	if err != nil {
		return false
	}
	return v
}
