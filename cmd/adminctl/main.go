// adminctl creates an administrator account interactively against the
// configured database, without going through the HTTP API. It is meant for
// operators bootstrapping a deployment where ADMIN_* variables are not set.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/techclub/recruitd/internal/common"
	"github.com/techclub/recruitd/internal/logging"
	"github.com/techclub/recruitd/internal/server/config"
	"github.com/techclub/recruitd/internal/server/notifications"
	"github.com/techclub/recruitd/internal/server/repositories/repomanager"
	"github.com/techclub/recruitd/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func getPassword(prompt string) ([]byte, error) {
	fmt.Println(prompt)
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func run() error {

	ctx := context.Background()
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)

	email, err := getSimpleText(reader, "Enter admin email")
	if err != nil {
		return err
	}

	name, err := getSimpleText(reader, "Enter admin name")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if string(password) != string(confirmation) {
		return fmt.Errorf("passwords do not match")
	}

	if err := services.ValidatePassword(string(password)); err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	s := services.NewAccountService(db, m, logger, notifications.NewLogNotifier(logger), cfg)

	if err := s.Provision(ctx, email, name, string(password)); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
