package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gplaydev/gtv-sdk-go/internal/domain"
)

// Snapshot is the point-in-time SDK state rendered by the status screen.
type Snapshot struct {
	ClientID     string
	Status       domain.SessionStatus
	TokenPresent bool
	AdQueueDepth int
	AdCapacity   int
	Catalog      []domain.Product
}

type RenderOptions struct {
	// ShowCatalog includes the cached product catalog section.
	ShowCatalog bool
}

func renderView(snapshot Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("GTV SDK Session"),
		s.header.Render(fmt.Sprintf("client: %s", orPlaceholder(snapshot.ClientID))),
		renderSession(snapshot, s),
		renderAdQueue(snapshot, s),
	}

	if opts.ShowCatalog {
		lines = append(lines, s.section.Render(renderCatalog(snapshot.Catalog, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(snapshot Snapshot, s styles) string {
	if snapshot.Status == domain.StatusLoggedIn {
		token := "token stored"
		if !snapshot.TokenPresent {
			token = "token missing"
		}
		return s.loggedIn.Render("logged in") + s.detail.Render(" ("+token+")")
	}

	return s.loggedOut.Render("logged out")
}

func renderAdQueue(snapshot Snapshot, s styles) string {
	capacity := snapshot.AdCapacity
	if capacity <= 0 {
		capacity = 1
	}
	depth := snapshot.AdQueueDepth
	if depth > capacity {
		depth = capacity
	}

	bar := s.barBracket.Render("[") +
		s.barFill.Render(strings.Repeat("█", depth)) +
		s.barEmpty.Render(strings.Repeat("░", capacity-depth)) +
		s.barBracket.Render("]")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.detail.Render("ads ready: "),
		bar,
		s.detail.Render(fmt.Sprintf(" %d/%d", snapshot.AdQueueDepth, snapshot.AdCapacity)),
	)
}

func renderCatalog(catalog []domain.Product, s styles) string {
	if len(catalog) == 0 {
		return s.empty.Render("No products cached.")
	}

	sorted := make([]domain.Product, len(catalog))
	copy(sorted, catalog)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, s.header.Render(fmt.Sprintf("catalog: %d", len(sorted))))
	for _, product := range sorted {
		lines = append(lines, s.detail.Render("  "+product.ID)+s.price.Render("  "+product.DisplayPrice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func orPlaceholder(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
