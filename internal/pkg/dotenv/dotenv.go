package dotenv

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const envFile = ".env"

var portFlag = flag.String("port", "", "Server port (overrides PORT environment variable)")

// Load reads .env into the process environment when the file exists and
// applies the -port override. loaded is false when there was no file.
func Load() (loaded bool, err error) {
	if _, statErr := os.Stat(envFile); statErr != nil {
		if !errors.Is(statErr, fs.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", envFile, statErr)
		}
	} else {
		if err := godotenv.Load(envFile); err != nil {
			return false, fmt.Errorf("load %s: %w", envFile, err)
		}
		loaded = true
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	if *portFlag != "" {
		if err := os.Setenv("PORT", *portFlag); err != nil {
			return loaded, fmt.Errorf("failed to set PORT environment variable: %w", err)
		}
	}
	return loaded, nil
}
