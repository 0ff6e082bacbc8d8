package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/diewo77/go-stock/i18n"
	"github.com/diewo77/go-stock/internal/models"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/diewo77/go-stock/validation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func productCommand(open opener) *cli.Command {
	inputFlags := []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "quantity", Aliases: []string{"q"}, Value: "0"},
		&cli.StringFlag{Name: "price", Aliases: []string{"p"}, Required: true},
	}
	input := func(c *cli.Context) services.ProductInput {
		return services.ProductInput{Name: c.String("name"), Quantity: c.String("quantity"), Price: c.String("price")}
	}

	return &cli.Command{
		Name:  "product",
		Usage: "manage the catalogue",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Flags: inputFlags,
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					p, err := e.shop.AddProduct(c.Context, input(c))
					if err != nil {
						return e.describe(err)
					}
					fmt.Fprintf(e.out, "added product #%d %s\n", p.ID, p.Name)
					return nil
				}),
			},
			{
				Name: "list",
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					products, err := e.shop.ListProducts(c.Context)
					if err != nil {
						return e.describe(err)
					}
					tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
					for _, p := range products {
						fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.ID, p.Name, p.Quantity, p.Price.StringFixed(2))
					}
					return tw.Flush()
				}),
			},
			{
				Name:      "update",
				ArgsUsage: "<id>",
				Flags:     inputFlags,
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					p, err := e.shop.UpdateProduct(c.Context, id, input(c))
					if err != nil {
						return e.describe(err)
					}
					fmt.Fprintf(e.out, "updated product #%d %s\n", p.ID, p.Name)
					return nil
				}),
			},
			{
				Name:      "delete",
				ArgsUsage: "<id>",
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					id, err := argID(c)
					if err != nil {
						return err
					}
					if err := e.shop.DeleteProduct(c.Context, id); err != nil {
						return e.describe(err)
					}
					fmt.Fprintf(e.out, "deleted product #%d\n", id)
					return nil
				}),
			},
		},
	}
}

func orderCommand(open opener) *cli.Command {
	transition := func(name string, apply func(c *cli.Context, e *env, id uint) (*models.Order, error)) *cli.Command {
		return &cli.Command{
			Name:      name,
			ArgsUsage: "<id>",
			Action: withEnv(open, func(c *cli.Context, e *env) error {
				id, err := argID(c)
				if err != nil {
					return err
				}
				o, err := apply(c, e, id)
				if err != nil {
					return e.describe(err)
				}
				fmt.Fprintf(e.out, "order #%d is now %s\n", o.ID, i18n.T(e.cfg.App.Lang, "status."+string(o.Status)))
				return nil
			}),
		}
	}

	return &cli.Command{
		Name:  "order",
		Usage: "sell and track orders",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "create an order from <product_id>x<quantity> items",
				ArgsUsage: "<item>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "customer", Aliases: []string{"c"}, Required: true},
				},
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					lines, err := parseLines(c.Args().Slice())
					if err != nil {
						return err
					}
					o, err := e.shop.CreateOrder(c.Context, c.String("customer"), lines)
					if err != nil {
						return e.describe(err)
					}
					fmt.Fprintf(e.out, "order #%d for %s: %s (%s %s)\n",
						o.ID, o.Customer, o.Items, e.cfg.App.Currency, o.Total().StringFixed(2))
					return nil
				}),
			},
			transition("advance", func(c *cli.Context, e *env, id uint) (*models.Order, error) {
				return e.shop.Advance(c.Context, id)
			}),
			transition("complete", func(c *cli.Context, e *env, id uint) (*models.Order, error) {
				return e.shop.Complete(c.Context, id)
			}),
			{
				Name:  "list",
				Usage: "order history, newest first",
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					orders, err := e.shop.ListAllOrders(c.Context)
					if err != nil {
						return e.describe(err)
					}
					printOrders(e, orders)
					return nil
				}),
			},
			{
				Name:  "active",
				Usage: "unfinished orders by status",
				Action: withEnv(open, func(c *cli.Context, e *env) error {
					active, err := e.shop.ListActiveOrders(c.Context)
					if err != nil {
						return e.describe(err)
					}
					lanes := []struct {
						status models.OrderStatus
						orders []models.Order
					}{
						{models.OrderStatusOpen, active.Open},
						{models.OrderStatusInProgress, active.InProgress},
						{models.OrderStatusFinalized, active.Finalized},
					}
					for _, lane := range lanes {
						fmt.Fprintf(e.out, "== %s (%d)\n", i18n.T(e.cfg.App.Lang, "status."+string(lane.status)), len(lane.orders))
						printOrders(e, lane.orders)
					}
					return nil
				}),
			},
		},
	}
}

func expenseCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:      "expense",
		Usage:     "record an expense dated today",
		ArgsUsage: "<amount> <description>",
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			if c.NArg() < 1 {
				return errors.New("usage: expense <amount> <description>")
			}
			amount, err := e.parseAmount(c.Args().First())
			if err != nil {
				return err
			}
			desc := strings.Join(c.Args().Tail(), " ")
			entry, err := e.shop.RecordExpense(c.Context, amount, desc)
			if err != nil {
				return e.describe(err)
			}
			fmt.Fprintf(e.out, "%s %s: %s %s\n", entry.Date, entry.Type, e.cfg.App.Currency, entry.Amount.StringFixed(2))
			return nil
		}),
	}
}

func saleCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:      "sale",
		Usage:     "record a sale not tied to an order",
		ArgsUsage: "<amount>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today by default"},
		},
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			if c.NArg() != 1 {
				return errors.New("usage: sale [--date YYYY-MM-DD] <amount>")
			}
			amount, err := e.parseAmount(c.Args().First())
			if err != nil {
				return err
			}
			entry, err := e.shop.RecordSale(c.Context, amount, dateOrToday(c))
			if err != nil {
				return e.describe(err)
			}
			fmt.Fprintf(e.out, "%s %s: %s %s\n", entry.Date, entry.Type, e.cfg.App.Currency, entry.Amount.StringFixed(2))
			return nil
		}),
	}
}

func cashflowCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:  "cashflow",
		Usage: "list the cash-flow entries of a day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today by default"},
		},
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			entries, err := e.shop.EntriesOn(c.Context, dateOrToday(c))
			if err != nil {
				return e.describe(err)
			}
			for _, entry := range entries {
				fmt.Fprintf(e.out, "#%d %s: %s %s\n", entry.ID, entry.Type, e.cfg.App.Currency, entry.Amount.StringFixed(2))
			}
			return nil
		}),
	}
}

func reportCommand(open opener) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "print the daily cash report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today by default"},
			&cli.StringFlag{Name: "lang", Usage: "pt or en, APP_LANG by default"},
		},
		Action: withEnv(open, func(c *cli.Context, e *env) error {
			r, err := e.shop.DailyReport(c.Context, dateOrToday(c))
			if err != nil {
				return e.describe(err)
			}
			lang := c.String("lang")
			if !i18n.Supported(lang) {
				lang = e.cfg.App.Lang
			}
			fmt.Fprint(e.out, r.Render(lang, e.cfg.App.Currency))
			return nil
		}),
	}
}

func printOrders(e *env, orders []models.Order) {
	for _, o := range orders {
		fmt.Fprintf(e.out, "#%d %s %s [%s] %s\n", o.ID, o.Timestamp, o.Customer,
			i18n.T(e.cfg.App.Lang, "status."+string(o.Status)), o.Items)
	}
}

func argID(c *cli.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.Errorf("invalid id %q", c.Args().First())
	}
	return uint(id), nil
}

// parseLines reads "<product_id>x<quantity>" items; a bare id means one unit.
func parseLines(args []string) ([]services.OrderLine, error) {
	lines := make([]services.OrderLine, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, found := strings.Cut(strings.ToLower(arg), "x")
		if !found {
			qtyPart = "1"
		}
		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil {
			return nil, errors.Errorf("invalid item %q", arg)
		}
		qty, err := strconv.Atoi(qtyPart)
		if err != nil {
			return nil, errors.Errorf("invalid item %q", arg)
		}
		lines = append(lines, services.OrderLine{ProductID: uint(id), Quantity: qty})
	}
	return lines, nil
}

func (e *env) parseAmount(raw string) (decimal.Decimal, error) {
	v := validation.Violations{}
	d := validation.Decimal("amount", raw, v)
	if !v.Empty() {
		return decimal.Zero, e.describe(&services.ValidationError{Violations: v})
	}
	return d, nil
}

func dateOrToday(c *cli.Context) string {
	if d := c.String("date"); d != "" {
		return d
	}
	return today()
}

// describe turns service errors into messages for the terminal, in the
// configured language.
func (e *env) describe(err error) error {
	var (
		verr *services.ValidationError
		oos  *services.OutOfStockError
	)
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Violations))
		for field := range verr.Violations {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, field+": "+i18n.T(e.cfg.App.Lang, verr.Violations[field]))
		}
		return errors.Errorf("invalid input (%s)", strings.Join(parts, "; "))
	case errors.As(err, &oos):
		return errors.Errorf("%s: only %d in stock, %d requested", oos.Name, oos.Available, oos.Requested)
	}
	return err
}
