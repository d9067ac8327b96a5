package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier escribiendo tablas en texto.
type Console struct {
	out io.Writer
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un notificador sobre cualquier writer (tests).
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Notify imprime las oportunidades actuales ordenadas por ganancia total y,
// si había un run anterior, los cambios respecto a él.
func (c *Console) Notify(_ context.Context, report domain.Report) error {
	ts := report.ScannedAt.Local().Format("15:04:05")

	if report.Current.Len() == 0 {
		fmt.Fprintf(c.out, "[%s] no opportunities found (%s, %d stores)\n", ts, report.Currency, report.Stores)
	} else {
		fmt.Fprintf(c.out, "\n[%s] %d opportunities (%s, %d stores), total potential profit %s\n",
			ts, report.Current.Len(), report.Currency, report.Stores, money(report.Current.TotalProfit()))
		c.printOpportunities(report.Current.Ranked())
	}

	if report.HasPrevious {
		c.printChanges(report.Changes)
	}
	return nil
}

// printOpportunities imprime la tabla principal.
func (c *Console) printOpportunities(opps []domain.Opportunity) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Buy from", "Sell to", "Item", "Buy", "Sell", "Profit/u", "Qty", "Total")

	for i, o := range opps {
		table.Append(
			strconv.Itoa(i+1),
			truncate(o.BuyFrom, 24),
			truncate(o.SellTo, 24),
			truncate(o.ItemName, 28),
			money(o.BuyPrice),
			money(o.SellPrice),
			money(o.ProfitPerItem),
			qty(o.PotentialQuantity),
			money(o.TotalPotentialProfit),
		)
	}
	table.Render()
}

// printChanges imprime las secciones de cambios; sin cambios, una sola línea.
func (c *Console) printChanges(ch domain.Changes) {
	if ch.Empty() {
		fmt.Fprintln(c.out, "  no changes since last run")
		return
	}

	fmt.Fprintf(c.out, "\n  changes since last run: +%d new, -%d gone, ^%d increased\n",
		len(ch.Appeared), len(ch.Gone), len(ch.Increased))

	c.printSection("NEW", ch.Appeared)
	c.printSection("GONE", ch.Gone)
	c.printSection("UP", ch.Increased)
}

func (c *Console) printSection(label string, opps []domain.Opportunity) {
	for _, o := range opps {
		fmt.Fprintf(c.out, "  %-4s %s: buy from %s at %s, sell to %s at %s (x%s = %s)\n",
			label, o.ItemName, o.BuyFrom, money(o.BuyPrice),
			o.SellTo, money(o.SellPrice), qty(o.PotentialQuantity), money(o.TotalPotentialProfit))
	}
}

// PrintHistory imprime el histórico de runs guardados (backend sqlite).
func (c *Console) PrintHistory(runs []domain.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no runs recorded yet")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Run", "Scanned at", "Currency", "Opps", "Total")
	for _, r := range runs {
		table.Append(
			shortID(r.RunID),
			r.ScannedAt.Local().Format("2006-01-02 15:04:05"),
			r.Currency,
			strconv.Itoa(r.Opportunities),
			money(r.TotalProfit),
		)
	}
	table.Render()
}

// --- helpers ---

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func qty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate corta por runas para no partir nombres multi-byte.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
