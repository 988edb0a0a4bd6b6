package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trading Diary Configuration

[journal]
# SQLite database file; relative paths are resolved against this directory
db_path = "journal.db"

[analytics]
# Zone for timestamps entered without an offset: "Local" or an IANA name
timezone = "Local"
# Default number of matches returned by "diary similar"
similar_limit = 5
# Number of setups shown by "diary setups" and "diary report"
top_setups = 5
# Report worker goroutines (0 = one per CPU)
workers = 0

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the terminal (stderr)
console = false
# Log to a rotating file
file = true
file_path = "logs/diary.log"
# Rotation: megabytes per file, files kept, days kept
max_size = 20
max_backups = 5
max_age = 30

[goals]
# Monthly return targets (YAML), e.g.
#   monthly:
#     "2024-01": 1500
path = "goals.yaml"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
