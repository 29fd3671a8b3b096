package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs"
	"github.com/milk9111/physync/ecs/component"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffaa00"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

var stateStyles = map[component.BodyState]lipgloss.Style{
	component.BodyStatic:   labelStyle,
	component.BodyActive:   okStyle,
	component.BodyInactive: noteStyle,
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%6.2f, %6.2f, %6.2f)", v.X(), v.Y(), v.Z())
}

func metric(label string, value any) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(fmt.Sprint(value))
}

func renderSummary(s *session, steps int, step float64, wall time.Duration) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		metric("scene", s.scene.Name()), "   ",
		metric("bodies", s.ps.Len()), "   ",
		metric("steps", steps), "   ",
		metric("simulated", fmt.Sprintf("%.2fs", float64(steps)*step*s.ps.Config().Speed)),
	)

	rate := s.ps.StepsPerSecond()
	wallRate := 0.0
	if wall > 0 {
		wallRate = float64(steps) / wall.Seconds()
	}
	rates := lipgloss.JoinHorizontal(lipgloss.Top,
		metric("steps/s (sim)", fmt.Sprintf("%.1f", rate)), "   ",
		metric("steps/s (wall)", fmt.Sprintf("%.0f", wallRate)),
	)

	rows := []string{titleStyle.Render(fmt.Sprintf("%-10s %-8s %-24s %-24s", "entity", "state", "position", "velocity"))}
	for _, name := range s.scene.Names() {
		rows = append(rows, entityRow(s, name))
	}

	parts := []string{header, rates, "", strings.Join(rows, "\n")}
	if len(s.failed) > 0 {
		parts = append(parts, "", errorStyle.Render("drivers never attached: ")+strings.Join(s.failed, ", "))
	}
	return panelStyle.Render(strings.Join(parts, "\n"))
}

func entityRow(s *session, name string) string {
	e, _ := s.scene.Entity(name)
	pos, ok := ecs.Get(s.world, e, component.PositionComponent.Kind())
	if !ok {
		return fmt.Sprintf("%-10s %s", name, errorStyle.Render("no body"))
	}

	state := "?"
	if status, ok := ecs.Get(s.world, e, component.BodyStatusComponent.Kind()); ok {
		state = stateStyles[status.State].Render(fmt.Sprintf("%-8s", status.State))
	}

	velocity := strings.Repeat(" ", 24)
	if body, ok := s.ps.Body(e); ok && !body.Static() {
		velocity = formatVec(body.LinearVelocity())
	}
	row := fmt.Sprintf("%-10s %s %s %s", name, state, formatVec(pos.Location), velocity)
	if dbg, ok := ecs.Get(s.world, e, component.DriverDebugComponent.Kind()); ok {
		row += labelStyle.Render(" view " + formatVec(dbg.ViewDirection))
	}
	return row
}
