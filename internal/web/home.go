package web

import "github.com/a-h/templ"

func Home(flash string) templ.Component {
	return page("Games", flash, func(h *writer) {
		h.raw(`
      <header class="hero">
        <span class="tag">Classroom games</span>
        <h1>Tragedy of the Commons</h1>
        <p>Economics experiments about shared resources for the classroom and for one.</p>
      </header>

      <section class="panel">
        <h2>Multiplayer</h2>
        <p>Every student grazes cows on a common pasture. The instructor closes each round and the class sees what happened to the commons.</p>
        <ul>
          <li><a href="/play">Join a game</a> with the password from your instructor.</li>
          <li><a href="/requests">Request a game</a> for your class.</li>
        </ul>
      </section>

      <section class="panel">
        <h2>Single player</h2>
        <ul>
          <li><a href="/farm">Private farm</a>: find the herd size that maximizes your profit.</li>
          <li><a href="/whaling">Indigenous whaling</a>: keep the whale population alive.</li>
          <li><a href="/dilemma">Prisoner's dilemma</a> against a partner of your choice.</li>
          <li><a href="/dilemma/classic">Prisoner's dilemma, classic board</a>.</li>
        </ul>
      </section>
`)
	})
}

func NotFound(message string) templ.Component {
	return page("Not found", "", func(h *writer) {
		h.raw(`<section class="panel"><h1>Not found</h1>`)
		h.notice("error", message)
		h.raw(`<p><a href="/play">Back to the password page</a></p></section>`)
	})
}

func ErrorPage(message string) templ.Component {
	return page("Error", "", func(h *writer) {
		h.raw(`<section class="panel"><h1>Something went wrong</h1>`)
		h.notice("error", message)
		h.raw(`</section>`)
	})
}
