// Command adminpw rotates a back-office account's password from the shell.
// It talks to the database directly, so it works even when the account is
// locked out or the API is down.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/term"

	pkgauth "github.com/clmblockchain/devpool/pkg/auth"
)

func main() {
	username := flag.String("username", "admin", "admin account to update")
	flag.Parse()

	if err := run(*username); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(username string) error {
	_ = godotenv.Load()

	password, err := promptPassword()
	if err != nil {
		return err
	}
	if err := pkgauth.ValidatePassword(password); err != nil {
		return err
	}

	hashed, err := pkgauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	db, err := sql.Open("postgres", dsnFromEnv())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	result, err := db.Exec(
		`INSERT INTO admin (username, hashed_password) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET hashed_password = EXCLUDED.hashed_password`,
		username, hashed,
	)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no account was updated")
	}

	fmt.Printf("password updated for %q\n", username)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("New password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Print("Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading confirmation: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func dsnFromEnv() string {
	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	name := envOr("DB_NAME", "devpool")
	sslmode := envOr("DB_SSLMODE", "disable")

	// Validate the port early so a typo fails with a clear message
	if _, err := strconv.Atoi(port); err != nil {
		fmt.Fprintf(os.Stderr, "warning: DB_PORT %q is not numeric\n", port)
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslmode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
