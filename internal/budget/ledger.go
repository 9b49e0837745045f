package budget

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb"
	"github.com/shopspring/decimal"

	"github.com/fieldquote/backend/internal/log"
	"github.com/fieldquote/backend/internal/models"
)

// StatusTotals are PO line sums per payment status.
type StatusTotals struct {
	Paid     decimal.Decimal `json:"paid"`
	Pending  decimal.Decimal `json:"pending"`
	Rejected decimal.Decimal `json:"rejected"`
}

// VendorTotal is the sum of PO amounts for one vendor.
type VendorTotal struct {
	Vendor string          `json:"vendor"`
	POs    int             `json:"purchaseOrders"`
	Total  decimal.Decimal `json:"total"`
}

var schema = []string{`
	CREATE TABLE budgets (
		code VARCHAR PRIMARY KEY
	)`, `
	CREATE TABLE purchase_orders (
		code         VARCHAR NOT NULL,
		po_id        VARCHAR NOT NULL,
		po_number    VARCHAR NOT NULL,
		vendor       VARCHAR NOT NULL,
		amount_cents BIGINT  NOT NULL
	)`, `
	CREATE TABLE po_items (
		code        VARCHAR NOT NULL,
		po_id       VARCHAR NOT NULL,
		item_id     VARCHAR NOT NULL,
		name        VARCHAR NOT NULL,
		status      VARCHAR NOT NULL,
		units       INTEGER NOT NULL,
		total_cents BIGINT  NOT NULL
	)`,
}

// Ledger is an in-memory DuckDB copy of every purchase order and line item.
// Amounts are stored as integer cents.
type Ledger struct {
	db     *sql.DB
	logger log.Logger
}

// NewLedger opens an in-memory database and loads the budgets into it.
func NewLedger(ctx context.Context, budgets []models.Budget, logger log.Logger) (*Ledger, error) {
	if logger == nil {
		logger = log.Noop
	}
	logger = logger.WithValues(log.Kv{"svc": "budget.Ledger"})

	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	l := &Ledger{db: db, logger: logger}
	if err := l.load(ctx, budgets); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// load writes all rows through the native Appender API.
func (l *Ledger) load(ctx context.Context, budgets []models.Budget) error {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	pos, items := 0, 0
	err = conn.Raw(func(driverConn any) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}

		poApp, err := duckdb.NewAppenderFromConn(dConn, "", "purchase_orders")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer poApp.Close()

		itemApp, err := duckdb.NewAppenderFromConn(dConn, "", "po_items")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer itemApp.Close()

		budgetApp, err := duckdb.NewAppenderFromConn(dConn, "", "budgets")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer budgetApp.Close()

		for _, b := range budgets {
			if err := budgetApp.AppendRow(b.Code); err != nil {
				return fmt.Errorf("failed to append budget %s: %w", b.Code, err)
			}
			for _, po := range b.PurchaseOrders {
				if err := poApp.AppendRow(b.Code, po.ID, po.Number, po.Vendor, cents(po.TotalAmount)); err != nil {
					return fmt.Errorf("failed to append %s: %w", po.ID, err)
				}
				pos++
				for _, it := range po.Items {
					total := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Units)))
					err := itemApp.AppendRow(b.Code, po.ID, it.ID, it.Name, string(it.Status), int32(it.Units), cents(total))
					if err != nil {
						return fmt.Errorf("failed to append %s/%s: %w", po.ID, it.ID, err)
					}
					items++
				}
			}
		}

		if err := budgetApp.Flush(); err != nil {
			return err
		}
		if err := poApp.Flush(); err != nil {
			return err
		}
		return itemApp.Flush()
	})
	if err != nil {
		return fmt.Errorf("appender error: %w", err)
	}

	l.logger.Debugf("loaded %d purchase orders and %d line items", pos, items)
	return nil
}

// StatusTotals sums the line items of code by payment status.
func (l *Ledger) StatusTotals(ctx context.Context, code string) (StatusTotals, error) {
	code = NormalizeCode(code)
	if err := l.exists(ctx, code); err != nil {
		return StatusTotals{}, err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT status, CAST(SUM(total_cents) AS BIGINT)
		FROM po_items
		WHERE code = ?
		GROUP BY status
	`, code)
	if err != nil {
		return StatusTotals{}, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	out := StatusTotals{Paid: decimal.Zero, Pending: decimal.Zero, Rejected: decimal.Zero}
	for rows.Next() {
		var status string
		var sum int64
		if err := rows.Scan(&status, &sum); err != nil {
			return StatusTotals{}, fmt.Errorf("scan failed: %w", err)
		}
		switch models.POItemStatus(status) {
		case models.POItemPaid:
			out.Paid = fromCents(sum)
		case models.POItemPending:
			out.Pending = fromCents(sum)
		case models.POItemRejected:
			out.Rejected = fromCents(sum)
		default:
			l.logger.Warningf("unknown PO item status %q in %s", status, code)
		}
	}
	return out, rows.Err()
}

// VendorTotals sums PO amounts of code per vendor, largest first.
func (l *Ledger) VendorTotals(ctx context.Context, code string) ([]VendorTotal, error) {
	code = NormalizeCode(code)
	if err := l.exists(ctx, code); err != nil {
		return nil, err
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT vendor, COUNT(*), CAST(SUM(amount_cents) AS BIGINT) AS total
		FROM purchase_orders
		WHERE code = ?
		GROUP BY vendor
		ORDER BY total DESC, vendor
	`, code)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	out := []VendorTotal{}
	for rows.Next() {
		var vt VendorTotal
		var n, sum int64
		if err := rows.Scan(&vt.Vendor, &n, &sum); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		vt.POs = int(n)
		vt.Total = fromCents(sum)
		out = append(out, vt)
	}
	return out, rows.Err()
}

func (l *Ledger) exists(ctx context.Context, code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}

	var n int64
	err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM budgets WHERE code = ?", code).Scan(&n)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ledger for NGMR-%s: %w", code, models.ErrNotFound)
	}
	return nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
