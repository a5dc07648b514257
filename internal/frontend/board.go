package frontend

import (
	"fmt"
	"slices"

	"github.com/janpfeifer/GoSet/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Board is the game page: the open cards and the game actions.
type Board struct {
	app.Compo
	View  *game.View
	Hint  []int
	Error string

	onUpdate func()
}

func (b *Board) OnAppUpdate(ctx app.Context) {
	klog.Infof("Board component: App update available, not reloading not to interrupt the game...")
}

func (b *Board) OnMount(ctx app.Context) {
	klog.Infof("Board component: OnMount called")
	b.sync()
	if app.IsServer {
		return
	}
	b.onUpdate = func() {
		ctx.Dispatch(func(ctx app.Context) {
			b.sync()
		})
	}
	State.Listeners["board"] = b.onUpdate

	if State.Conn == nil {
		ctx.Async(func() {
			if err := State.ConnectWS(); err != nil {
				klog.Errorf("Board component: Error connecting: %v", err)
				ctx.Dispatch(func(ctx app.Context) {
					b.Error = fmt.Sprintf("Failed to connect to the server: %v", err)
				})
			}
		})
	}
}

func (b *Board) OnDismount() {
	klog.Infof("Board component: OnDismount called")
	if app.IsServer {
		return
	}
	delete(State.Listeners, "board")
}

// sync copies the global client state into the component.
func (b *Board) sync() {
	b.View = State.Game
	b.Hint = State.Hint
	b.Error = State.Error
}

func (b *Board) onDeal(ctx app.Context, e app.Event) {
	State.SendDeal()
}

func (b *Board) onShuffle(ctx app.Context, e app.Event) {
	State.SendShuffle()
}

func (b *Board) onHint(ctx app.Context, e app.Event) {
	State.SendHint()
}

func (b *Board) onNewGame(ctx app.Context, e app.Event) {
	State.SendNewGame()
}

func (b *Board) renderCards() app.UI {
	v := b.View
	cards := make([]app.UI, 0, len(v.OpenCards))
	for i, c := range v.OpenCards {
		border, width := cardBorder(c, v.ThreeSelected, v.SelectedMatch, slices.Contains(b.Hint, i))
		cards = append(cards, app.Div().
			Class("card").
			Title(Describe(c.Card)).
			Style("cursor", "pointer").
			OnClick(func(ctx app.Context, e app.Event) {
				State.SendSelect(i)
			}).
			Body(app.Raw(cardSVG(fmt.Sprintf("%d", i), c.Card, border, width))))
	}
	return app.Div().
		Class("card-grid").
		Style("display", "grid").
		Style("grid-template-columns", "repeat(auto-fill, minmax(110px, 1fr))").
		Style("gap", "0.75rem").
		Body(cards...)
}

func (b *Board) renderActions() app.UI {
	v := b.View
	dealLabel := "Deal 3 More"
	pendingMatch := v.ThreeSelected && v.SelectedMatch
	if pendingMatch {
		dealLabel = "Collect Set"
	}
	return app.Div().Class("grid").Style("margin-bottom", "1rem").Body(
		app.Button().Text(dealLabel).Disabled(!v.CanDeal && !pendingMatch).OnClick(b.onDeal),
		app.Button().Class("secondary").Text("Shuffle").OnClick(b.onShuffle),
		app.Button().Class("secondary").Text(fmt.Sprintf("Hint (%d)", v.AvailableMatches)).OnClick(b.onHint),
	)
}

func (b *Board) Render() app.UI {
	var content app.UI
	switch {
	case b.View == nil && b.Error != "":
		content = app.Article().Body(
			app.H2().Text("Error"),
			app.P().Style("color", "red").Text(b.Error),
		)

	case b.View == nil:
		content = app.Div().Aria("busy", "true").Text("Dealing cards...")

	default:
		var status app.UI = app.Text("")
		if b.View.Over {
			status = app.Article().Body(
				app.Header().Body(app.H2().Text("Game over")),
				app.P().Text(fmt.Sprintf("Final score: %d, with %d sets found.", b.View.Score, b.View.Matched/3)),
				app.Button().Text("Play Again").OnClick(b.onNewGame),
			)
		} else if b.Error != "" {
			status = app.P().Style("color", "red").Text(b.Error)
		}
		content = app.Div().Body(
			status,
			b.renderActions(),
			b.renderCards(),
		)
	}

	return app.Main().Class("container").Body(
		&TopBar{View: b.View},
		content,
	)
}
