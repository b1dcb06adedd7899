package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/bjev/blackjack"
	"github.com/lox/bjev/sdk/solver"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func formatEV(ev float64) string {
	s := fmt.Sprintf("%+.6f", ev)
	if ev < 0 {
		return lossStyle.Render(s)
	}
	return gainStyle.Render(s)
}

func formatPercent(ev float64) string {
	return fmt.Sprintf("%+.3f%%", ev*100)
}

func formatCards(cards []blackjack.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

// formatDealt lists the ranks out of a finite shoe, e.g. "A:1 7:2 K:1".
func formatDealt(shoe *blackjack.Shoe) string {
	if shoe.IsInfinite() {
		return ""
	}
	parts := make([]string, 0, blackjack.NumRanks)
	for _, r := range blackjack.Ranks {
		if n := shoe.Dealt(r); n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", r, n))
		}
	}
	return strings.Join(parts, " ")
}

func renderRules(w io.Writer, rules blackjack.Rules, shoe *blackjack.Shoe) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("rules"), rules)
	left := ""
	if !shoe.IsInfinite() {
		left = fmt.Sprintf(" %d/%d left", shoe.Len(), shoe.InitialLen())
	}
	fmt.Fprintf(w, "%s %s%s, natural %.3f%%\n", headerStyle.Render("shoe "), shoe, left, shoe.BlackjackOdds()*100)
	if out := formatDealt(shoe); out != "" {
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render("out  "), mutedStyle.Render(out))
	}
	fmt.Fprintln(w)
}

func renderTotal(w io.Writer, rules blackjack.Rules, shoe *blackjack.Shoe, ups []solver.UpCardEV) {
	renderRules(w, rules, shoe)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		headerStyle.Render("up"),
		headerStyle.Render("p"),
		headerStyle.Render("ev"))

	total := 0.0
	for _, u := range ups {
		total += u.Probability * u.EV
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n",
			cardStyle.Render(u.Up.String()),
			u.Probability,
			formatEV(u.EV))
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%s %s (%s)\n", headerStyle.Render("total"), formatEV(total), formatPercent(total))
}

func renderSolve(w io.Writer, rules blackjack.Rules, shoe *blackjack.Shoe, up blackjack.Card, ev float64) {
	renderRules(w, rules, shoe)
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("up"), cardStyle.Render(up.Rank.Denomination().String()))
	fmt.Fprintf(w, "%s %s (%s)\n", headerStyle.Render("ev"), formatEV(ev), formatPercent(ev))
}

func renderHand(w io.Writer, rules blackjack.Rules, shoe *blackjack.Shoe, hand *blackjack.Hand, up blackjack.Card, evs []solver.ActionEV, best *blackjack.Action) {
	renderRules(w, rules, shoe)
	soft := ""
	if hand.IsSoft() {
		soft = " soft"
	}
	fmt.Fprintf(w, "%s %s (%d%s) vs %s\n\n",
		headerStyle.Render("hand"),
		cardStyle.Render(formatCards(hand.Cards())),
		hand.Score(), soft,
		cardStyle.Render(up.Rank.Denomination().String()))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("action"), headerStyle.Render("ev"))
	for _, e := range evs {
		switch {
		case !e.Legal:
			fmt.Fprintf(tw, "%s\t%s\n", mutedStyle.Render(e.Action.String()), mutedStyle.Render("-"))
		case best != nil && e.Action == *best:
			fmt.Fprintf(tw, "%s\t%s\n", bestStyle.Render(e.Action.String()+" *"), formatEV(e.EV))
		default:
			fmt.Fprintf(tw, "%s\t%s\n", e.Action.String(), formatEV(e.EV))
		}
	}
	tw.Flush()
}

func renderStats(w io.Writer, st solver.Stats) {
	line := fmt.Sprintf("%d player / %d dealer entries, player hit rate %.1f%%, in %v",
		st.PlayerEntries, st.DealerEntries, st.Player.HitRate()*100, st.Duration.Truncate(time.Millisecond))
	if st.WideKeys > 0 {
		line += fmt.Sprintf(", %d wide keys", st.WideKeys)
	}
	fmt.Fprintf(w, "\n%s\n", mutedStyle.Render(line))
}
