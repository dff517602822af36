package web

import (
	"fmt"

	"tragedy-commons/internal/commons"

	"github.com/a-h/templ"
)

func Password(data PasswordData) templ.Component {
	return page("Join a game", data.Flash, func(h *writer) {
		h.raw(`<section class="panel"><h1>Join a game</h1>
<p>Enter the password your instructor gave you. It looks like <code>lastname-123</code>.</p>`)
		h.notice("error", data.Error)
		h.raw(`<form method="post" action="/play" class="stack">`)
		input(h, "Password", "password", "text", data.Password)
		h.raw(`<button type="submit" class="primary">Continue</button></form></section>`)
	})
}

func Start(data StartData) templ.Component {
	title := fmt.Sprintf("Game %d", data.Game.ID)
	return page(title, data.Flash, func(h *writer) {
		h.rawf(`<section class="panel"><h1>Game %d</h1><p>Instructor: `, data.Game.ID)
		h.text(data.Game.FirstName + " " + data.Game.LastName)
		if data.Game.Test {
			h.raw(` <span class="tag">test game</span>`)
		}
		h.raw(`</p><p>Enter your name. If you played this game before, use the same name to get back to your farm.</p>`)
		h.notice("error", data.Error)
		h.rawf(`<form method="post" action="/games/%d/players" class="stack">`, data.Game.ID)
		input(h, "First name", "first_name", "text", data.FirstName)
		input(h, "Last name", "last_name", "text", data.LastName)
		h.raw(`<button type="submit" class="primary">Play</button></form></section>`)

		h.rawf(`<section class="panel"><h2>Players (%d)</h2>`, len(data.Players))
		if len(data.Players) == 0 {
			h.raw(`<p>Nobody has joined yet.</p></section>`)
			return
		}
		h.raw(`<table><thead><tr><th>Name</th><th>Joined</th></tr></thead><tbody>`)
		for _, player := range data.Players {
			h.raw(`<tr><td>`)
			h.text(commons.DisplayName(player.FirstName, player.LastName))
			h.rawf(`</td><td>%s</td></tr>`, formatTime(player.JoinedAt))
		}
		h.raw(`</tbody></table></section>`)
	})
}

func Player(data PlayerData) templ.Component {
	return page("Your farm", data.Flash, func(h *writer) {
		game, player := data.Game, data.Player
		h.raw(`<section class="panel"><h1>`)
		h.text(player.FirstName + " " + player.LastName)
		h.rawf(`</h1><p>Game %d</p>`, game.ID)
		h.rawf(`<ul class="facts">
<li>Every cow costs $%d to raise.</li>
<li>A cow sells for $%d minus $%d divided by the number of farmers for every cow on the commons.</li>
<li>%d farmers have played so far. Together you would earn the most with %d cows on the commons.</li>
</ul>`, commons.UnitCost, commons.BasePrice, commons.ExternalityCoefficient, data.Farmers, commons.OptimalUnits(data.Farmers))
		h.notice("error", data.Error)
		if data.Pending != nil {
			h.rawf(`<p>You put %d cows on the commons. <a href="/games/%d/players/%d/rounds/%d/wait">Wait for the round to close</a>.</p>`,
				data.Pending.Cows, game.ID, player.ID, data.Pending.ID)
		} else {
			h.rawf(`<form method="post" action="/games/%d/players/%d/rounds" class="stack">`, game.ID, player.ID)
			h.rawf(`<label>How many cows do you put on the commons this round? <input type="number" name="cows" min="0" max="100" value="%s" required/></label>`, templ.EscapeString(data.Cows))
			h.raw(`<button type="submit" class="primary">Graze</button></form>`)
		}
		h.raw(`</section>`)

		h.raw(`<section class="panel"><h2>Your rounds</h2>`)
		if len(data.History) == 0 {
			h.raw(`<p>You have not played yet.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Round</th><th>Cows</th><th>Revenue or loss</th></tr></thead><tbody>`)
			for _, row := range data.History {
				if !row.Completed {
					h.rawf(`<tr class="pending"><td>pending</td><td>%d</td><td>TBD</td></tr>`, row.Cows)
					continue
				}
				h.rawf(`<tr><td>%d</td><td>%d</td><td>%s</td></tr>`, row.RoundNumber, row.Cows, money(row.RevenueOrLoss))
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
		resultsSections(h, data.Results)
	})
}

func Wait(data WaitData) templ.Component {
	return page("Waiting", "", func(h *writer) {
		h.rawf(`<section class="panel"><h1>Waiting for round to close</h1>
<p>You put %d cows on the commons. This page moves on by itself when your instructor closes the round.</p>
<p id="waitStatus" class="muted"></p>
<p><a href="%s">Back to your farm</a></p></section>`, data.Entry.Cows, templ.EscapeString(data.PlayerURL))
		h.rawf(`
<script>
  (function () {
    const statusURL = %q;
    const playerURL = %q;
    const interval = %d * 1000;
    const maxAttempts = %d;
    const status = document.getElementById("waitStatus");
    let attempts = 0;
    async function poll() {
      attempts++;
      try {
        const res = await fetch(statusURL, { headers: { "Accept": "application/json" } });
        if (res.ok) {
          const data = await res.json();
          if (data.completed === "1") {
            window.location = playerURL;
            return;
          }
        }
      } catch (err) {}
      if (attempts >= maxAttempts) {
        status.textContent = "Still waiting. Reload the page to keep checking.";
        return;
      }
      setTimeout(poll, interval);
    }
    setTimeout(poll, interval);
  })();
</script>
`, data.StatusURL, data.PlayerURL, data.IntervalSeconds, data.MaxAttempts)
	})
}
