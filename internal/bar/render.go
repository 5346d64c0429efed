// Package bar merges monitor updates into the single rendered status line.
package bar

import "strings"

// Separator joins the visible fragments.
const Separator = " | "

// Render builds the bar string: fragments in priority order, absent or empty
// values omitted together with their separator, the result wrapped in one
// leading and one trailing space. The output depends only on order and
// results, never on update arrival order.
func Render(order []string, results map[string]string) string {
	parts := make([]string, 0, len(order))
	for _, id := range order {
		if v := results[id]; v != "" {
			parts = append(parts, v)
		}
	}
	return " " + strings.Join(parts, Separator) + " "
}
