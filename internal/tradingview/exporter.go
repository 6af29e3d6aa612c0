package tradingview

import (
	"fmt"
	"strings"

	"github.com/lohzi97/FiboManualTradingPanel/internal/order"
)

// GenerateLevelsPinescript generates Pine Script that draws an order's swing
// and its entry, stop loss and take profit prices as horizontal lines, so the
// order can be checked against a TradingView chart.
func GenerateLevelsPinescript(req order.Request) string {
	var sb strings.Builder
	price := req.Instrument.FormatPrice

	sb.WriteString("//@version=5\n")
	sb.WriteString(fmt.Sprintf("indicator(\"%s %s\", overlay=true)\n\n", req.Label, req.Instrument.Name))

	sb.WriteString("// ============================================\n")
	sb.WriteString("// FIBO ORDER LEVELS\n")
	sb.WriteString("// ============================================\n\n")

	writeLine(&sb, price(req.ZeroPrice), "Swing 0.0", "color.gray", "hline.style_dotted")
	writeLine(&sb, price(req.HundredPrice), "Swing 1.0", "color.gray", "hline.style_dotted")
	sb.WriteString("\n")

	writeLine(&sb, price(req.EntryPrice), fmt.Sprintf("%s Entry %.2f lots", req.Action, req.Lots), "color.blue", "hline.style_solid")
	writeLine(&sb, price(req.StopLossPrice), fmt.Sprintf("SL %.1f pips", req.StopLossPips), "color.red", "hline.style_dashed")
	writeLine(&sb, price(req.TakeProfitPrice), fmt.Sprintf("TP %.1f pips", req.TakeProfitPips), "color.green", "hline.style_dashed")
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("// expires %s\n", formatPineTimestamp(req)))

	return sb.String()
}

func writeLine(sb *strings.Builder, price, title, color, style string) {
	sb.WriteString(fmt.Sprintf("hline(%s, title=\"%s\", color=%s, linestyle=%s)\n", price, title, color, style))
}

func formatPineTimestamp(req order.Request) string {
	utc := req.Expiry.UTC()
	return fmt.Sprintf("timestamp(\"UTC\", %d, %d, %d, %d, %d)",
		utc.Year(), int(utc.Month()), utc.Day(), utc.Hour(), utc.Minute())
}
