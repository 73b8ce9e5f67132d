// Command restore-user undoes the logical deletion of a user account.
//
//	restore-user [-quiet] <email>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"fintrack/internal/config"
	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, openDatabase))
}

func openDatabase() (*gorm.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return manager.DB(), func() { _ = manager.Close() }, nil
}

// run returns the process exit code: 0 on success, 1 when the user cannot
// be restored, 2 on usage errors.
func run(args []string, stdout, stderr io.Writer, open func() (*gorm.DB, func(), error)) int {
	fs := flag.NewFlagSet("restore-user", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quiet := fs.Bool("quiet", false, "print nothing on success")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: restore-user [-quiet] <email>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	email := fs.Arg(0)

	db, closeDB, err := open()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer closeDB()

	user, err := services.NewUserService(db).RestoreUser(email)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			fmt.Fprintf(stderr, "error: no user with email %s\n", email)
		case errors.Is(err, apperrors.ErrInvalidInput):
			fmt.Fprintf(stderr, "error: user %s is not deleted\n", email)
		default:
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}

	logger.Get().Infow("user restored", "user_id", user.ID, "email", user.Email)
	if !*quiet {
		fmt.Fprintf(stdout, "restored %s (%s)\n", user.Email, user.ID)
	}
	return 0
}
