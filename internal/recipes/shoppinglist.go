package recipes

import (
	"fmt"
	"sort"
	"strings"
)

// CartEntry is one recipe in a user's shopping cart together with the
// serving count the user chose for it.
type CartEntry struct {
	RecipeID     int64
	BaseServings int
	Servings     int
	Lines        []IngredientLine
}

// ShoppingItem is one merged line of the downloadable shopping list.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// AggregateShoppingList scales every entry's ingredient lines by its
// chosen/base serving ratio and merges them by (name, unit), summing
// amounts. The result is ordered by (name, unit).
func AggregateShoppingList(entries []CartEntry) []ShoppingItem {
	type key struct {
		name string
		unit string
	}

	totals := make(map[key]int)
	for _, entry := range entries {
		scaled := ScaleLines(entry.Lines, entry.BaseServings, entry.Servings)
		for _, line := range scaled {
			totals[key{line.Name, line.MeasurementUnit}] += line.Amount
		}
	}

	items := make([]ShoppingItem, 0, len(totals))
	for k, amount := range totals {
		items = append(items, ShoppingItem{
			Name:            k.name,
			MeasurementUnit: k.unit,
			Amount:          amount,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderShoppingList formats the aggregated list as the plain-text
// attachment body, one "Name — amount unit" line per item.
func RenderShoppingList(items []ShoppingItem) string {
	if len(items) == 0 {
		return "Shopping list is empty."
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s — %d %s", it.Name, it.Amount, it.MeasurementUnit))
	}
	return strings.Join(lines, "\n")
}
