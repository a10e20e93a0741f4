package main

import (
	"encoding/json"
	"fmt"
	"os"

	"ai-shopping-agent-be/pkg/ai/prompt"
	"ai-shopping-agent-be/pkg/catalog"

	"github.com/fatih/color"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	muted   = color.New(color.FgHiBlack)
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
	ok      = color.New(color.FgGreen)
)

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProducts(products []catalog.Product) {
	for i, p := range products {
		fmt.Printf("  %d. %s  %s  ", i+1, heading.Sprint(p.FullName()), prompt.Rupees(p.PriceINR))
		muted.Printf("(%s, %.1f★)\n", p.ID, p.Rating)
	}
}
