package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-geode/internal/aggregate"
	"github.com/napolitain/solver-geode/internal/config"
	"github.com/napolitain/solver-geode/internal/models"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("14")).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("6")).
	Padding(0, 2)

func printBanner(blueprints int, cfg *config.Config) {
	fmt.Println()
	fmt.Println(bannerStyle.Render("Geode Cracking\nRobot Build Optimizer"))
	fmt.Println()

	infoColor := color.New(color.FgYellow)
	infoColor.Printf("📦 Loaded %d blueprints (ordering: %s, workers: %d)\n\n", blueprints, cfg.Ordering, cfg.Workers)
}

func printReport(title string, report aggregate.Report, blueprints []*models.Blueprint, plain bool) {
	if plain {
		fmt.Printf("%s: %d\n", title, report.Value)
		return
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)

	titleColor.Printf("📊 %s: %s over %d minutes\n", title, report.Mode, report.Horizon)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Blueprint", "Max Geodes", "Quality", "Expanded", "Pruned", "Truncated"}),
	)
	for _, res := range report.Results {
		truncated := ""
		if res.Truncated {
			truncated = "yes"
		}
		row := []string{
			strconv.Itoa(res.BlueprintID),
			strconv.Itoa(res.MaxGeodes),
			strconv.Itoa(res.Quality()),
			strconv.Itoa(res.Expanded),
			strconv.Itoa(res.Pruned),
			truncated,
		}
		_ = table.Append(row)
	}
	_ = table.Render()

	successColor.Printf("✓ %s: %d\n\n", title, report.Value)

	if showPlan {
		byID := make(map[int]*models.Blueprint, len(blueprints))
		for _, bp := range blueprints {
			byID[bp.ID] = bp
		}
		for _, res := range report.Results {
			printPlan(byID[res.BlueprintID], res)
		}
	}
}

// printPlan replays a result's plan and shows the stock after each build
func printPlan(bp *models.Blueprint, res geode.Result) {
	fmt.Printf("🤖 Blueprint %d build plan (%d geodes in %d minutes):\n", res.BlueprintID, res.MaxGeodes, res.Horizon)

	if len(res.Plan) == 0 {
		fmt.Println("   (no robot can be built in time)")
		fmt.Println()
		return
	}

	trace, err := geode.Simulate(bp, res.Plan, res.Horizon)
	if err != nil {
		color.Red("   plan does not replay: %v", err)
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Minute", "Build", "Robots", "Stock"}),
	)
	for i, b := range res.Plan {
		snap := trace.Minutes[b.Minute-1]
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(b.Minute),
			b.Robot.String() + " robot",
			snap.Robots.String(),
			snap.Resources.String(),
		}
		_ = table.Append(row)
	}
	_ = table.Render()
	fmt.Println()
}
