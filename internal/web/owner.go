package web

import (
	"fmt"
	"strings"

	"tragedy-commons/internal/commons"

	"github.com/a-h/templ"
)

func Manage(data ManageData) templ.Component {
	title := fmt.Sprintf("Manage game %d", data.Game.ID)
	return page(title, data.Flash, func(h *writer) {
		game := data.Game
		h.rawf(`<section class="panel"><h1>Manage game %d</h1>`, game.ID)
		h.raw(`<p>Student password: <code>`)
		h.text(game.Password())
		h.raw(`</code></p>`)
		h.rawf(`<p>%d players joined, %d closed rounds, <strong>%d submissions waiting</strong>.</p>`, data.Players, len(data.Results), data.Pending)
		h.notice("error", data.Error)
		h.rawf(`<form method="post" action="/games/%d/rounds/close" class="stack">`, game.ID)
		h.raw(`<label>Show player names for rounds (for example 3,4,5) <input type="text" name="rounds" value="`)
		h.text(data.Rounds)
		h.rawf(`"/></label>
<button type="submit" class="primary">Close round %d</button></form>`, len(data.Results)+1)
		h.rawf(`<p><a href="%s">Class results</a> &middot; <a href="/games/%d/results.xlsx">Download spreadsheet</a> &middot; <a href="/games/%d">Start page</a></p></section>`,
			templ.EscapeString(data.ResultsPage), game.ID, game.ID)
		resultsSections(h, data.Results)
	})
}

func Results(data ResultsData) templ.Component {
	title := fmt.Sprintf("Results of game %d", data.Game.ID)
	return page(title, "", func(h *writer) {
		h.rawf(`<section class="panel"><h1>Results of game %d</h1>`, data.Game.ID)
		h.rawf(`<p><a href="/games/%d/results.xlsx">Download spreadsheet</a></p></section>`, data.Game.ID)
		if len(data.Results) == 0 {
			h.raw(`<section class="panel"><p>No round has been closed yet.</p></section>`)
			return
		}
		resultsSections(h, data.Results)
	})
}

// resultsSections renders the newest round first.
func resultsSections(h *writer, results []commons.RoundResult) {
	for i := len(results) - 1; i >= 0; i-- {
		round := results[i]
		h.rawf(`<section class="panel round"><h2>Round %d</h2>`, round.RoundNumber)
		h.raw(`<table class="summary"><tbody>`)
		summaryRow(h, "Farmers", itoa(round.Farmers), itoa(round.Farmers))
		summaryRow(h, "Cows on the commons", itoa(round.TotalUnits), itoa(round.OptimalUnits))
		summaryRow(h, "Profit per cow", money(round.ProfitPerUnit), money(round.OptimalProfitPerUnit))
		summaryRow(h, "Total profit", money(round.TotalProfit), money(round.OptimalTotal))
		summaryRow(h, "Profit per farmer", money(round.AverageProfitPerFarmer), money(round.OptimalAveragePerFarmer))
		h.raw(`</tbody><thead><tr><th></th><th>Actual</th><th>Optimal</th></tr></thead></table>`)
		pasture(h, round.Pasture)

		h.raw(`<table><thead><tr><th>Farmer</th><th>Cows</th><th>Revenue or loss</th></tr></thead><tbody>`)
		for _, player := range round.Players {
			h.raw(`<tr><td>`)
			if player.Name == "" {
				h.raw(`<span class="muted">anonymous</span>`)
			} else {
				h.text(player.Name)
			}
			h.rawf(`</td><td>%d</td><td>%s</td></tr>`, player.Units, money(player.RevenueOrLoss))
		}
		h.raw(`</tbody></table></section>`)
	}
}

func summaryRow(h *writer, label, actual, optimal string) {
	h.rawf(`<tr><th>%s</th><td>%s</td><td>%s</td></tr>`, label, actual, optimal)
}

func pasture(h *writer, p commons.Pasture) {
	class := "pasture"
	if p.Overgrazed {
		class += " overgrazed"
	}
	h.rawf(`<pre class="%s" aria-label="%d green cows, %d grey cows">`, class, p.Cows(commons.ColorGreen), p.Cows(commons.ColorGrey))
	for _, line := range p.Lines() {
		h.raw(pastureLine(line))
		h.raw("\n")
	}
	h.raw(`</pre>`)
}

// pastureLine wraps runs of the same cell in spans styled by the sheet.
func pastureLine(line string) string {
	var b strings.Builder
	for len(line) > 0 {
		cell := line[0]
		run := 1
		for run < len(line) && line[run] == cell {
			run++
		}
		class := "grass"
		switch cell {
		case 'C':
			class = "cow"
		case 'X':
			class = "cow grey"
		}
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, class, line[:run])
		line = line[run:]
	}
	return b.String()
}
