// Command stockctl runs shop operations from the terminal against the
// configured database.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/diewo77/go-stock/internal/config"
	"github.com/diewo77/go-stock/internal/db"
	"github.com/diewo77/go-stock/internal/events"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/diewo77/go-stock/validation"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command needs once the database is open.
type env struct {
	cfg  *config.Config
	log  *logrus.Logger
	conn *gorm.DB
	shop services.Shop
	out  io.Writer
	// close releases the database; nil when the caller owns it.
	close func()
}

// opener builds the env for a command; tests replace it.
type opener func(c *cli.Context) (*env, error)

func openEnv(out io.Writer) opener {
	return func(c *cli.Context) (*env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if p := c.String("db"); p != "" {
			cfg.Database.Driver = config.DriverSQLite
			cfg.Database.Path = p
		}
		log, err := config.NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		if !c.Bool("verbose") {
			log.SetLevel(logrus.WarnLevel)
		}
		conn, err := db.Open(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		closeDB := func() {
			if sqlDB, err := conn.DB(); err == nil {
				sqlDB.Close()
			}
		}
		if err := db.Prepare(conn, cfg.Database.Driver, cfg.App.Migrations); err != nil {
			closeDB()
			return nil, err
		}
		shop := services.NewService(conn,
			services.WithLogger(log),
			services.WithDispatcher(events.NewLogDispatcher(log)),
		)
		return &env{cfg: cfg, log: log, conn: conn, shop: shop, out: out, close: closeDB}, nil
	}
}

func newApp(out io.Writer) *cli.App {
	return buildApp(out, openEnv(out))
}

func buildApp(out io.Writer, open opener) *cli.App {
	return &cli.App{
		Name:      "stockctl",
		Usage:     "manage products, orders and the cash flow",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "SQLite file to use instead of DB_* settings"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at the configured LOG_LEVEL"},
		},
		Commands: []*cli.Command{
			migrateCommand(open),
			seedCommand(open),
			productCommand(open),
			orderCommand(open),
			expenseCommand(open),
			saleCommand(open),
			cashflowCommand(open),
			reportCommand(open),
		},
	}
}

// withEnv opens the env and closes its database after fn.
func withEnv(open opener, fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := open(c)
		if err != nil {
			return err
		}
		if e.close != nil {
			defer e.close()
		}
		return fn(c, e)
	}
}

func migrateCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "bring the schema up to date",
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			// opening already migrated
			fmt.Fprintln(e.out, "schema up to date")
			return nil
		}),
	}
}

func seedCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "add the starter catalogue",
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			if err := db.Seed(e.conn); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "seed complete")
			return nil
		}),
	}
}

func defaultToday() string {
	return time.Now().Format(validation.DateLayout)
}

var today = defaultToday
