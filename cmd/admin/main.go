package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"expense-api/db"
	"expense-api/internal/apperr"
	"expense-api/internal/category"
	"expense-api/internal/config"
	"expense-api/internal/log"
	"expense-api/internal/user"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

const usage = `Usage: admin <command> [flags]

Commands:
  adduser      -user <username> [-email <email>] [-password <password>] [-db <path>]
  addcategory  -name <name> [-db <path>]
  categories   [-db <path>]
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}

	logger := log.New(log.Config{Level: log.ParseLevel("warn"), Output: stderr, Component: log.ComponentAdmin})

	switch args[0] {
	case "adduser":
		return runAddUser(args[1:], stdin, stdout, stderr, logger)
	case "addcategory":
		return runAddCategory(args[1:], stdout, stderr, logger)
	case "categories":
		return runListCategories(args[1:], stdout, stderr, logger)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func defaultDBPath() string {
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		return path
	}
	return config.DefaultSQLitePath
}

// openDB migrates and opens the database at path
func openDB(path string) (*db.RepositoryFactory, error) {
	if err := db.InitializeSchema(path); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqliteDB, err := db.ConnectToSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db.NewRepositoryFactory(sqliteDB), nil
}

func runAddUser(args []string, stdin io.Reader, stdout, stderr io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address (optional)")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", defaultDBPath(), "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: admin adduser -user <username> [-email <email>] [-password <password>] [-db <path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	factory, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer factory.Close()

	service := user.NewUserService(factory.NewUserRepository(), logger)
	created, err := service.Register(context.Background(), user.RegisterRequest{
		Username: username,
		Email:    email,
		Password: &password,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", created.Username, created.ID)
	return nil
}

func runAddCategory(args []string, stdout, stderr io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("addcategory", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Category name")
	dbPath := fs.String("db", defaultDBPath(), "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(stdout, "Usage: admin addcategory -name <name> [-db <path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: name")
	}

	factory, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer factory.Close()

	service := category.NewCategoryService(factory.NewCategoryRepository(), logger)
	created, err := service.Create(context.Background(), *name)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(stdout, "Category %s created successfully with ID %d\n", created.Name, created.ID)
	return nil
}

func runListCategories(args []string, stdout, stderr io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("categories", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", defaultDBPath(), "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	factory, err := openDB(*dbPath)
	if err != nil {
		return err
	}
	defer factory.Close()

	service := category.NewCategoryService(factory.NewCategoryRepository(), logger)
	categories, err := service.List(context.Background())
	if err != nil {
		return describe(err)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

// describe flattens validation failures into a readable CLI error
func describe(err error) error {
	appErr := apperr.As(err)
	if appErr.Kind != apperr.KindValidation || len(appErr.Fields) == 0 {
		return err
	}
	var parts []string
	for field, msgs := range appErr.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, " "))
	}
	return errors.New(strings.Join(parts, "; "))
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
