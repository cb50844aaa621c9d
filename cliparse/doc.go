// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: Database connection string or file path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - BaseURL: Frontend base URL used to build shareable poll links
    (default: http://localhost:3000)
  - CooldownSeconds: Minimum wait between votes from one address
    (default: 60; 0 disables the cooldown)

# CLI Flags

	-p         Server port
	-d         Database URL
	-t         Database type
	-base-url  Frontend base URL
	-cooldown  Vote cooldown in seconds

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	BASE_URL              → -base-url
	VOTE_COOLDOWN_SECONDS → -cooldown

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - cooldown must be a non-negative integer
*/
package cliparse
