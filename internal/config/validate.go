package config

import "fmt"

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (valid: text, json)", c.Log.Format)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	for _, db := range c.Databases {
		if db.Name == "" {
			return fmt.Errorf("database entry with empty name")
		}
		switch db.Driver {
		case "sqlite", "duckdb", "postgres", "mysql":
		default:
			return fmt.Errorf("database %q: invalid driver %q (valid: sqlite, duckdb, postgres, mysql)", db.Name, db.Driver)
		}
	}
	return nil
}
