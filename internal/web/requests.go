package web

import (
	"tragedy-commons/internal/db"

	"github.com/a-h/templ"
)

func RequestForm(data RequestFormData) templ.Component {
	return page("Request a game", data.Flash, func(h *writer) {
		h.raw(`<section class="panel"><h1>Request a game</h1>
<p>You will receive two games: a test game to try things out and the game for your class.</p>`)
		h.notice("error", data.Error)
		h.raw(`<form method="post" action="/requests" class="stack">`)
		input(h, "First name", "first_name", "text", data.Values.FirstName)
		input(h, "Last name", "last_name", "text", data.Values.LastName)
		input(h, "Email", "email", "email", data.Values.Email)
		input(h, "Institution", "institution", "text", data.Values.Institution)
		h.raw(`<label>How will you use the game? <textarea name="description" rows="4">`)
		h.text(data.Values.Description)
		h.raw(`</textarea></label>
<button type="submit" class="primary">Request game</button>
</form></section>`)
	})
}

func Instructions(data InstructionsData) templ.Component {
	return page("Your game", data.Flash, func(h *writer) {
		game := data.Game
		h.raw(`<section class="panel"><h1>Thank you, `)
		h.text(game.FirstName)
		h.raw(`</h1>`)
		if game.Status != db.StatusAccepted {
			h.raw(`<p>Your request is waiting for review. You will get an email once it has been approved.</p></section>`)
			return
		}
		h.rawf(`<p>Your game number is <strong>%d</strong>, your test game number is <strong>%d</strong>.</p>`, game.ID, data.Test.ID)
		h.raw(`<ol>
<li>Try the test game first. Its password is <code>`)
		h.text(data.Test.Password())
		h.raw(`</code>.</li>
<li>Give your students the password <code>`)
		h.text(game.Password())
		h.raw(`</code>. They enter it at <a href="/play">/play</a> with their names.</li>
<li>Every student chooses a number of cows between 0 and 100 and waits.</li>`)
		h.rawf(`<li>Close each round on your <a href="/games/%d/manage">manage page</a>. You can name the rounds whose player names should be shown.</li>`, game.ID)
		h.rawf(`<li>Everyone sees the <a href="/games/%d/results">class results</a>.</li>`, game.ID)
		h.raw(`</ol><p>Games that are never played are deleted automatically after three months.</p></section>`)
	})
}

func AdminRequests(data AdminRequestsData) templ.Component {
	return page("Requests", data.Flash, func(h *writer) {
		h.rawf(`<section class="panel"><h1>Game requests</h1><p>%d total</p>`, data.Pagination.Total)
		h.raw(`<table><thead><tr><th>Game</th><th>Owner</th><th>Institution</th><th>Status</th><th>Test</th><th>Created</th></tr></thead><tbody>`)
		for _, request := range data.Requests {
			h.rawf(`<tr><td><a href="/admin/requests/%d">%d</a></td><td>`, request.ID, request.ID)
			h.text(request.LastName + ", " + request.FirstName)
			h.raw(`</td><td>`)
			h.text(request.Institution)
			h.rawf(`</td><td class="status-%s">%s</td><td>%s</td><td>%s</td></tr>`,
				request.Status, request.Status, yesNo(request.Test), formatTime(request.CreatedAt))
		}
		h.raw(`</tbody></table>`)
		pagination(h, data.Pagination)
		h.raw(`</section>`)
	})
}

func AdminRequest(data AdminRequestData) templ.Component {
	return page("Request "+utoa(data.Request.ID), data.Flash, func(h *writer) {
		request := data.Request
		h.rawf(`<section class="panel"><h1>Game %d</h1><dl>`, request.ID)
		h.raw(`<dt>Owner</dt><dd>`)
		h.text(request.FirstName + " " + request.LastName)
		h.raw(`</dd><dt>Email</dt><dd>`)
		h.text(request.Email)
		h.raw(`</dd><dt>Institution</dt><dd>`)
		h.text(request.Institution)
		h.raw(`</dd><dt>Description</dt><dd>`)
		h.text(request.Description)
		h.rawf(`</dd><dt>Status</dt><dd>%s</dd><dt>Test game</dt><dd>%s</dd>`, request.Status, yesNo(request.Test))
		if data.Pair != nil {
			h.rawf(`<dt>Paired with</dt><dd><a href="/admin/requests/%d">%d</a></dd>`, data.Pair.ID, data.Pair.ID)
		}
		h.rawf(`<dt>Players</dt><dd>%d</dd></dl>`, data.Players)
		h.rawf(`<form method="post" action="/admin/requests/%d/approve"><button class="primary" type="submit">Approve</button></form>`, request.ID)
		h.rawf(`<form method="post" action="/admin/requests/%d/reject" class="stack">`, request.ID)
		input(h, "Reason", "reason", "text", "")
		h.raw(`<button type="submit">Reject</button></form></section>`)

		if len(data.Events) == 0 {
			return
		}
		h.raw(`<section class="panel"><h2>Events</h2><table><thead><tr><th>When</th><th>Type</th><th>Details</th></tr></thead><tbody>`)
		for _, event := range data.Events {
			h.rawf(`<tr><td>%s</td><td>`, formatTime(event.CreatedAt))
			h.text(event.Type)
			h.raw(`</td><td><code>`)
			h.text(string(event.Payload))
			h.raw(`</code></td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
