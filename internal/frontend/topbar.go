package frontend

import (
	"fmt"

	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

type TopBar struct {
	app.Compo
	View *game.View
}

func (t *TopBar) onNewGame(ctx app.Context, e app.Event) {
	e.PreventDefault()
	State.SendNewGame()
}

func (t *TopBar) Render() app.UI {
	var stats []app.UI
	if t.View != nil {
		stats = append(stats,
			app.Li().Body(app.Strong().Text(fmt.Sprintf("Score: %d", t.View.Score))),
			app.Li().Text(fmt.Sprintf("Sets: %d", t.View.Matched/3)),
			app.Li().Text(fmt.Sprintf("Deck: %d", t.View.DeckSize)),
		)
	}
	stats = append(stats, app.Li().Body(app.A().Href("#").OnClick(t.onNewGame).Text("New Game")))

	return app.Nav().Body(
		app.Ul().Body(
			app.Li().Body(app.Strong().Style("font-size", "1.5rem").Text("GoSet")),
		),
		app.Ul().Body(stats...),
	)
}
