package web

import (
	"tragedy-commons/internal/commons"

	"github.com/a-h/templ"
)

func restartButton(h *writer, action string) {
	h.rawf(`<form method="post" action="%s"><input type="hidden" name="restart" value="1"/><button type="submit">Start over</button></form>`, action)
}

func Farm(data FarmData) templ.Component {
	return page("Private farm", "", func(h *writer) {
		h.rawf(`<section class="panel"><h1>Private farm</h1>
<p>You own the pasture alone. A cow sells for $%d minus $%d for every cow you raise and costs $%d. How many cows earn you the most?</p>`,
			commons.BasePrice, commons.FarmPriceSlope, commons.UnitCost)
		if data.Result.SolvedIn > 0 {
			h.rawf(`<p class="notice success">You maximized your profit in %d rounds.</p>`, data.Result.SolvedIn)
		}
		h.notice("error", data.Error)
		h.raw(`<form method="post" action="/farm" class="stack"><label>Cows <input type="number" name="cows" min="0" max="100" value="`)
		h.text(data.Cows)
		h.raw(`" required/></label><button type="submit" class="primary">Graze</button></form>`)
		restartButton(h, "/farm")
		h.raw(`</section>`)
		if len(data.Result.Rounds) == 0 {
			return
		}
		h.raw(`<section class="panel"><table><thead><tr><th>Round</th><th>Cows</th><th>Profit per cow</th><th>Total profit</th></tr></thead><tbody>`)
		for i := len(data.Result.Rounds) - 1; i >= 0; i-- {
			round := data.Result.Rounds[i]
			class := ""
			if round.Optimal {
				class = ` class="optimal"`
			}
			h.rawf(`<tr%s><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>`, class, round.Round, round.Cows, round.ProfitPerCow, round.TotalProfit)
		}
		h.raw(`</tbody></table></section>`)
	})
}

func Whaling(data WhalingData) templ.Component {
	return page("Indigenous whaling", "", func(h *writer) {
		p := data.Params
		h.rawf(`<section class="panel"><h1>Indigenous whaling</h1>
<p>The sea holds %s whales and at most %s. Each year the whales grow by %s%% and every boat you send out brings back whales and trains new whalers. Below %s whales the population is gone.</p>`,
			money(p.StartPopulation), money(p.CarryingCapacity), money(p.RecruitmentRate*100), money(p.ExtinctionPoint()))
		h.notice("error", data.Error)
		if data.Result.Extinct {
			h.rawf(`<p class="notice error">The whales went extinct in year %d.</p>`, data.Result.ExtinctYear)
		} else {
			h.rawf(`<p>Whales now: <strong>%s</strong></p>`, money(data.Result.Population))
			h.raw(`<form method="post" action="/whaling" class="stack"><label>Boats this year <input type="number" name="boats" min="0" max="1000" value="`)
			h.text(data.Boats)
			h.raw(`" required/></label><button type="submit" class="primary">Sail</button></form>`)
		}
		restartButton(h, "/whaling")
		h.raw(`</section>`)
		if len(data.Result.Years) == 0 {
			return
		}
		h.raw(`<section class="panel"><table><thead><tr><th>Year</th><th>Boats</th><th>Whales at start</th><th>Catch per boat</th><th>Harvest</th><th>Lost</th><th>Born</th><th>Trainees</th><th>Whales at end</th></tr></thead><tbody>`)
		for i := len(data.Result.Years) - 1; i >= 0; i-- {
			year := data.Result.Years[i]
			h.rawf(`<tr><td>%d</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				year.Year, year.Boats, money(year.StartPopulation), money(year.CPUE), money(year.Harvest),
				money(year.Lost), money(year.Spawn), money(year.Trainees), money(year.EndPopulation))
		}
		h.raw(`</tbody></table></section>`)
	})
}

func Dilemma(data DilemmaData) templ.Component {
	title := "Prisoner's dilemma"
	action := "/dilemma"
	if data.Classic {
		title = "Prisoner's dilemma, classic board"
		action = "/dilemma/classic"
	}
	return page(title, "", func(h *writer) {
		h.raw(`<section class="panel"><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		if data.Classic {
			h.raw(`<p>Your partner decides at random. The cells show partner,you years in jail.</p>`)
		} else {
			h.raw(`<p>You and your partner are questioned separately. Hold out together and you both get a year. Confess while your partner holds out and you walk free while your partner gets four years. Both confess and you both get two.</p>`)
		}
		h.notice("error", data.Error)
		h.rawf(`<form method="post" action="%s" class="stack">`, action)
		if !data.Classic {
			h.raw(`<label>Partner <select name="strategy">`)
			for _, strategy := range []commons.Strategy{commons.StrategyRandom, commons.StrategyRational, commons.StrategyCooperative} {
				selected := ""
				if strategy == data.Strategy {
					selected = " selected"
				}
				h.rawf(`<option value="%s"%s>%s</option>`, strategy, selected, strategy)
			}
			h.raw(`</select></label>`)
		}
		h.rawf(`<button type="submit" name="choice" value="%s" class="primary">Hold out</button>
<button type="submit" name="choice" value="%s">Confess</button></form>`, commons.Cooperate, commons.Defect)
		restartButton(h, action)
		h.raw(`</section>`)
		if len(data.Rounds) == 0 {
			return
		}
		if data.Classic {
			last := data.Rounds[len(data.Rounds)-1].Outcome.Cell
			h.raw(`<section class="panel"><table class="matrix"><thead><tr><th></th><th>You hold out</th><th>You confess</th></tr></thead><tbody>`)
			h.rawf(`<tr><th>Partner holds out</th>%s%s</tr>`, matrixCell(commons.CellBothCooperate, last), matrixCell(commons.CellYouDefect, last))
			h.rawf(`<tr><th>Partner confesses</th>%s%s</tr>`, matrixCell(commons.CellPartnerDefect, last), matrixCell(commons.CellBothDefect, last))
			h.raw(`</tbody></table></section>`)
		}
		if data.Classic {
			h.raw(`<section class="panel"><table><thead><tr><th>Round</th><th>You</th><th>Partner's move</th><th>Years (partner,you)</th></tr></thead><tbody>`)
			for i := len(data.Rounds) - 1; i >= 0; i-- {
				row := data.Rounds[i]
				h.rawf(`<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					row.Round, moveLabel(row.Outcome.You), moveLabel(row.Outcome.Partner), commons.ClassicMatrix[row.Outcome.Cell])
			}
			h.raw(`</tbody></table></section>`)
			return
		}
		h.raw(`<section class="panel"><table><thead><tr><th>Round</th><th>Partner</th><th>You</th><th>Partner's move</th><th>Your years</th><th>Partner's years</th></tr></thead><tbody>`)
		for i := len(data.Rounds) - 1; i >= 0; i-- {
			row := data.Rounds[i]
			h.rawf(`<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>`,
				row.Round, row.Strategy, moveLabel(row.Outcome.You), moveLabel(row.Outcome.Partner), row.Outcome.YourYears, row.Outcome.PartnerYears)
		}
		h.raw(`</tbody></table></section>`)
	})
}

func matrixCell(cell, last string) string {
	class := ""
	if cell == last {
		class = ` class="chosen"`
	}
	return `<td` + class + `>` + commons.ClassicMatrix[cell] + `</td>`
}

func moveLabel(choice commons.Choice) string {
	if choice == commons.Cooperate {
		return "hold out"
	}
	return "confess"
}
