package main

import (
	"fmt"
	"strings"

	"ai-shopping-agent-be/pkg/ai/intent"
	"ai-shopping-agent-be/pkg/ai/safety"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/ranking"

	"github.com/spf13/cobra"
)

func newClassifyCmd() *cobra.Command {
	var heuristic bool

	cmd := &cobra.Command{
		Use:   "classify [message]",
		Short: "Show the pattern safety verdict and offline intent for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			store, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}
			registry, err := safety.DefaultRegistry()
			if err != nil {
				return err
			}

			verdict := safety.NewClassifier(registry, nil, log).ClassifyPatterns(text, nil)
			result := intent.NewExtractor(store, nil, intent.Options{Heuristic: heuristic}, log).
				Extract(cmd.Context(), text, nil)

			if outputJSON {
				return printJSON(map[string]interface{}{"safety": verdict, "intent": result})
			}

			if verdict.Safe() {
				ok.Println("safety: none")
			} else {
				warn.Printf("safety: %s (%s, tier %d)\n", verdict.Label, verdict.Category, verdict.Tier)
			}
			fmt.Printf("intent: %s (%.2f, %s)\n", result.Label, result.Confidence, result.Source)
			return printJSON(result.Params)
		},
	}

	cmd.Flags().BoolVar(&heuristic, "heuristic", false, "use the keyword intent classifier")
	return cmd
}

func newRankCmd() *cobra.Command {
	var (
		minPrice, maxPrice int
		brand, focus       string
		features           []string
		compact, fast      bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the catalog for a set of constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := catalog.LoadEmbedded()
			if err != nil {
				return err
			}

			c := ranking.Criteria{
				Brand:        brand,
				Features:     features,
				Focus:        ranking.ParseFocus(focus),
				Compact:      compact,
				FastCharging: fast,
			}
			if cmd.Flags().Changed("min-price") {
				c.PriceMin = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				c.PriceMax = &maxPrice
			}

			res := ranking.Rank(c, store)
			if outputJSON {
				ids := make([]string, len(res.Products))
				for i, p := range res.Products {
					ids[i] = p.ID
				}
				return printJSON(map[string]interface{}{"strategy": res.Strategy, "stage": res.Stage, "ids": ids})
			}

			heading.Printf("strategy=%s stage=%s\n", res.Strategy, res.Stage)
			printProducts(res.Products)
			return nil
		},
	}

	cmd.Flags().IntVar(&minPrice, "min-price", 0, "minimum price in rupees")
	cmd.Flags().IntVar(&maxPrice, "max-price", 0, "maximum price in rupees")
	cmd.Flags().StringVar(&brand, "brand", "", "brand name")
	cmd.Flags().StringVar(&focus, "focus", "", "camera, battery, gaming, value or compact")
	cmd.Flags().StringSliceVar(&features, "feature", nil, "required feature tag (repeatable)")
	cmd.Flags().BoolVar(&compact, "compact", false, "only compact phones")
	cmd.Flags().BoolVar(&fast, "fast-charging", false, "only fast-charging phones")
	return cmd
}
