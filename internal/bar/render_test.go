package bar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderOrderAndWrapping(t *testing.T) {
	order := []string{"vpn", "ram", "datetime"}
	results := map[string]string{
		"datetime": "Mon 10:00:00",
		"ram":      "ram: 40%",
	}
	require.Equal(t, " ram: 40% | Mon 10:00:00 ", Render(order, results))
}

func TestRenderScenario(t *testing.T) {
	// vpn reports empty (present but hidden), then becomes visible.
	order := []string{"vpn", "ram", "datetime"}
	results := map[string]string{}

	results["ram"] = "ram: 40%"
	results["datetime"] = "Mon 10:00:00"
	require.Equal(t, " ram: 40% | Mon 10:00:00 ", Render(order, results))

	results["vpn"] = ""
	require.Equal(t, " ram: 40% | Mon 10:00:00 ", Render(order, results))

	results["vpn"] = "VPN"
	require.Equal(t, " VPN | ram: 40% | Mon 10:00:00 ", Render(order, results))
}

func TestRenderEmpty(t *testing.T) {
	require.Equal(t, "  ", Render([]string{"a", "b"}, nil))
	require.Equal(t, "  ", Render(nil, map[string]string{"a": "x"}))
}

func TestRenderSingleFragmentHasNoSeparator(t *testing.T) {
	got := Render([]string{"datetime"}, map[string]string{"datetime": "Mon"})
	require.Equal(t, " Mon ", got)
}

func TestRenderIgnoresUnorderedIDs(t *testing.T) {
	// Values for ids outside the priority order never appear.
	got := Render([]string{"ram"}, map[string]string{"ram": "ram: 1%", "ghost": "boo"})
	require.Equal(t, " ram: 1% ", got)
}

func TestRenderIndependentOfInsertionOrder(t *testing.T) {
	order := []string{"vpn", "cpu_load", "ram", "disk", "datetime"}
	updates := []struct{ id, value string }{
		{"datetime", "Mon 10:00:00"},
		{"ram", "ram: 40%"},
		{"disk", "disk: 63%"},
		{"cpu_load", "cpu: 7%"},
		{"vpn", ""},
	}
	want := " cpu: 7% | ram: 40% | disk: 63% | Mon 10:00:00 "

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		rng.Shuffle(len(updates), func(i, j int) { updates[i], updates[j] = updates[j], updates[i] })
		results := map[string]string{}
		for _, u := range updates {
			results[u.id] = u.value
		}
		require.Equal(t, want, Render(order, results), "trial %d", trial)
	}
}

func TestRenderIdempotent(t *testing.T) {
	order := []string{"ram", "datetime"}
	results := map[string]string{"ram": "ram: 40%"}
	first := Render(order, results)
	// Re-delivering the identical update changes nothing.
	results["ram"] = "ram: 40%"
	require.Equal(t, first, Render(order, results))
}
