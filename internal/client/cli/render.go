package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/client"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/fatih/color"
)

var (
	faint  = color.New(color.Faint)
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
)

const dateLayout = "2006-01-02 15:04"

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func printUser(w io.Writer, u *models.UserDetails) {
	bold.Fprintf(w, "%s %s", u.FirstName, u.LastName)
	fmt.Fprintf(w, " (%s)\n", u.UserName)
	fmt.Fprintf(w, "  born %s, age %d, %s\n", u.DOB, u.Age, u.Gender)
	if u.Email != nil {
		fmt.Fprintf(w, "  %s\n", *u.Email)
	}
}

func printProfile(w io.Writer, p *models.Profile) {
	fmt.Fprintf(w, "  height %s cm, weight %s kg, level %s\n",
		formatValue(p.Height), formatValue(p.Weight), p.DifficultyLevel)
	if p.HasAvatar {
		faint.Fprintln(w, "  avatar set (use avatar for a download link)")
	}
}

func printGoals(w io.Writer, goals []client.GoalView) {
	if len(goals) == 0 {
		fmt.Fprintln(w, "No goals yet.")
		return
	}

	for _, g := range goals {
		state := yellow.Sprintf("%5.1f%%", g.Progress())
		if g.Completed {
			state = green.Sprint("  done")
		}
		fmt.Fprintf(w, "%s %s %s / %s %s %s\n",
			faint.Sprintf("#%-4d", g.ID),
			padRight(string(g.GoalType), 18),
			padRight(formatValue(g.CurrentValue), 8),
			padRight(formatValue(g.TargetValue), 8),
			state,
			faint.Sprint(g.StartDate.Local().Format(dateLayout)))
	}
}

func printActivities(w io.Writer, list []models.Activity) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No activities found.")
		return
	}

	for _, a := range list {
		fmt.Fprintf(w, "%s %s %s %s kcal  %s km  %s min\n",
			faint.Sprintf("#%-4d", a.ID),
			faint.Sprint(a.Date.Local().Format(dateLayout)),
			padRight(a.ActivityType, 14),
			formatValue(a.CaloriesBurnt),
			formatValue(a.Distance),
			formatValue(a.Duration))
	}
}

func printReport(w io.Writer, r *models.WeeklyReport, loc *time.Location) {
	bold.Fprintf(w, "Week %s to %s\n", r.From.In(loc).Format("2006-01-02"), r.To.In(loc).Format("2006-01-02"))
	fmt.Fprintf(w, "  %d activities, %s kcal, %s km, %s min\n",
		r.Totals.Count,
		formatValue(r.Totals.CaloriesBurnt),
		formatValue(r.Totals.Distance),
		formatValue(r.Totals.Duration))

	if len(r.PendingGoals) == 0 {
		green.Fprintln(w, "  No pending goals")
		return
	}
	fmt.Fprintln(w, "  Pending goals:")
	for _, g := range r.PendingGoals {
		fmt.Fprintf(w, "    #%d %s %s / %s %s\n",
			g.ID, padRight(string(g.GoalType), 18),
			formatValue(g.CurrentValue), formatValue(g.TargetValue),
			yellow.Sprintf("%.1f%%", g.Percent))
	}
}
