package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	headerStyle = color.New(color.Bold)
	titleStyle  = color.New(color.Bold, color.Underline)
	mutedStyle  = color.New(color.Faint)
	alertStyle  = color.New(color.FgHiRed)
	accentStyle = color.New(color.FgHiMagenta)
)

func newTable(headers ...string) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	row := make([]interface{}, 0, len(headers))
	for _, header := range headers {
		row = append(row, headerStyle.Sprint(header))
	}
	tbl.AddRow(row...)
	return tbl
}

func printTable(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func printTitle(title string) {
	_, _ = fmt.Fprintln(color.Output, titleStyle.Sprint(title))
}

func printLine(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(color.Output, format+"\n", args...)
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(color.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func shortTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}
