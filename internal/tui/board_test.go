package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/schedule"
)

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func loadedBoard(t *testing.T, ready ...item.Item) *Board {
	t.Helper()

	b := NewBoard(context.Background(), nil)
	msg := loadedMsg{ready: ready}
	if len(ready) > 0 {
		head := ready[0]
		msg.result = schedule.Result{
			Kind:     schedule.KindSelected,
			Selected: &head,
			Reason:   schedule.ReasonHighestPriority,
		}
	} else {
		msg.result = schedule.Result{Kind: schedule.KindEmpty}
	}

	model, _ := b.Update(msg)
	return model.(*Board)
}

func readyItem(id string, prio item.Priority) item.Item {
	return item.Item{
		ID:                id,
		Status:            item.StatusTodo,
		Priority:          prio,
		EffectivePriority: prio,
		Order:             item.OrderNone,
	}
}

func TestBoardNavigation(t *testing.T) {
	b := loadedBoard(t,
		readyItem("alpha", item.PriorityHigh),
		readyItem("beta", item.PriorityMedium),
	)

	assert.Equal(t, 0, b.cursor)

	model, _ := b.Update(keyRunes('j'))
	b = model.(*Board)
	assert.Equal(t, 1, b.cursor)

	// cursor clamps at the end
	model, _ = b.Update(keyRunes('j'))
	b = model.(*Board)
	assert.Equal(t, 1, b.cursor)

	model, _ = b.Update(keyRunes('k'))
	b = model.(*Board)
	assert.Equal(t, 0, b.cursor)
}

func TestBoardCursorClampsAfterReload(t *testing.T) {
	b := loadedBoard(t,
		readyItem("alpha", item.PriorityHigh),
		readyItem("beta", item.PriorityMedium),
	)

	model, _ := b.Update(keyRunes('j'))
	b = model.(*Board)
	require.Equal(t, 1, b.cursor)

	model, _ = b.Update(loadedMsg{
		result: schedule.Result{Kind: schedule.KindEmpty},
	})
	b = model.(*Board)
	assert.Equal(t, 0, b.cursor)
}

func TestBoardViewStates(t *testing.T) {
	t.Run("selected item marked", func(t *testing.T) {
		b := loadedBoard(t,
			readyItem("alpha", item.PriorityHigh),
			readyItem("beta", item.PriorityMedium),
		)

		view := b.View()
		assert.Contains(t, view, "alpha")
		assert.Contains(t, view, "beta")
		assert.Contains(t, view, "next")
	})

	t.Run("empty", func(t *testing.T) {
		b := loadedBoard(t)
		assert.Contains(t, b.View(), "nothing ready")
	})

	t.Run("halt", func(t *testing.T) {
		b := NewBoard(context.Background(), nil)
		model, _ := b.Update(loadedMsg{result: schedule.Result{
			Kind: schedule.KindHalt,
			Halt: &schedule.HaltReport{ItemIDs: []string{"hot"}},
		}})

		view := model.(*Board).View()
		assert.Contains(t, view, "HALT")
		assert.Contains(t, view, "hot")
	})

	t.Run("error", func(t *testing.T) {
		b := NewBoard(context.Background(), nil)
		model, _ := b.Update(errMsg{errors.New("lock timeout")})

		assert.Contains(t, model.(*Board).View(), "lock timeout")
	})
}

func TestBoardQuit(t *testing.T) {
	b := loadedBoard(t, readyItem("alpha", item.PriorityHigh))

	_, cmd := b.Update(keyRunes('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
