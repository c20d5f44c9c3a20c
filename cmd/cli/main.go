package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/party-rental/internal/config"
	"github.com/iliyamo/party-rental/internal/database"
	"github.com/iliyamo/party-rental/internal/model"
	"github.com/iliyamo/party-rental/internal/repository"
	"github.com/iliyamo/party-rental/internal/utils"
)

const usage = `usage: cli <command> [flags]

commands:
  migrate            apply pending schema migrations
  status             print migration status
  add-operator       create a console operator
  disable-operator   deactivate an operator and revoke their sessions`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			fatalf("%v", err)
		}
		v, _ := database.SchemaVersion(db)
		fmt.Printf("schema at version %d\n", v)
	case "status":
		if err := database.MigrationStatus(db); err != nil {
			fatalf("%v", err)
		}
	case "add-operator":
		addOperator(ctx, db, cfg.BcryptCost, os.Args[2:])
	case "disable-operator":
		disableOperator(ctx, db, os.Args[2:])
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func addOperator(ctx context.Context, db *sql.DB, cost int, args []string) {
	fs := flag.NewFlagSet("add-operator", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", model.RoleStaff, "ADMIN or STAFF")
	_ = fs.Parse(args)

	r := strings.ToUpper(strings.TrimSpace(*role))
	if *email == "" || *name == "" || *password == "" {
		fs.PrintDefaults()
		os.Exit(1)
	}
	if r != model.RoleAdmin && r != model.RoleStaff {
		fatalf("role must be %s or %s", model.RoleAdmin, model.RoleStaff)
	}
	if len(*password) < utils.MinPasswordLen {
		fatalf("password must have at least %d characters", utils.MinPasswordLen)
	}

	id, err := repository.NewOperatorRepo(db).Create(ctx, *email, *name, *password, r, cost)
	if err != nil {
		fatalf("create operator: %v", err)
	}
	fmt.Printf("operator %d (%s) created with role %s\n", id, *email, r)
}

func disableOperator(ctx context.Context, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("disable-operator", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	_ = fs.Parse(args)
	if *email == "" {
		fs.PrintDefaults()
		os.Exit(1)
	}

	ops := repository.NewOperatorRepo(db)
	op, err := ops.GetByEmail(ctx, *email)
	if err != nil {
		fatalf("find operator: %v", err)
	}
	if err := ops.SetActive(ctx, op.Email, false); err != nil {
		fatalf("disable operator: %v", err)
	}
	if err := repository.NewTokenRepo(db).RevokeAllForOperator(ctx, op.ID); err != nil {
		fatalf("revoke sessions: %v", err)
	}
	fmt.Printf("operator %s disabled\n", op.Email)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
