package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/dragdrop"
	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/core"
)

// disabledEvery marks every nth card as pinned
const disabledEvery = 7

// BoardView is a reorderable board of contact cards
type BoardView struct {
	board   *dragdrop.Model
	styles  *style.Manager
	columns int
	status  string
	// focused is the card focused before the last key, for keyboard moves
	focused string
}

// NewBoardView creates a board of cards for contacts
func NewBoardView(contacts []Contact, cfg *core.Config, styles *style.Manager, logger zerolog.Logger) (*BoardView, error) {
	v := &BoardView{styles: styles, columns: cfg.BoardColumns}

	items := make([]dragdrop.Item, len(contacts))
	for i, c := range contacts {
		items[i] = dragdrop.Item{
			ID:       c.ID,
			Content:  fmt.Sprintf("%s %s", c.Call, c.Band),
			Disabled: (i+1)%disabledEvery == 0,
		}
	}

	opts := dragdrop.DefaultOptions()
	opts.Columns = cfg.BoardColumns
	opts.AllowKeyboardNavigation = cfg.KeyboardNavigation
	opts.AutoScroll = cfg.AutoScroll
	opts.AutoScrollEdge = cfg.AutoScrollEdge
	opts.AutoScrollSpeed = cfg.AutoScrollSpeed
	opts.FrameInterval = cfg.FrameInterval
	opts.Height = 10
	opts.Styles = styles.Board()
	opts.Logger = logger
	opts.OnDragStart = func(it dragdrop.Item) {
		v.status = "dragging " + it.Content
	}
	opts.OnReorder = func(items []dragdrop.Item) {
		moved := v.board.DragState().DraggedID
		if moved == "" {
			moved = v.focused
		}
		for _, it := range items {
			if it.ID == moved {
				v.status = fmt.Sprintf("moved %s to %d", it.Content, it.Order+1)
				return
			}
		}
	}
	opts.OnDragEnd = func(dragdrop.Item) {
		if v.board.Phase() == dragdrop.Cancelled {
			v.status = "cancelled"
		}
	}

	board, err := dragdrop.New(items, opts)
	if err != nil {
		return nil, err
	}
	v.board = board
	return v, nil
}

// SetOrigin records the screen row the view starts on
func (v *BoardView) SetOrigin(top int) {
	v.board.SetOrigin(0, top+1)
}

// SetSize fits the columns across width; one row holds the status line
func (v *BoardView) SetSize(width, height int) {
	v.board.SetHeight(max(height-1, 1))
	v.board.SetCellWidth(max((width-(v.columns-1))/v.columns, 8))
}

// Update forwards input to the board
func (v *BoardView) Update(msg tea.Msg) tea.Cmd {
	v.focused = v.board.FocusedID()
	return v.board.Update(msg)
}

// View renders the status line and the board
func (v *BoardView) View() string {
	status := v.status
	if status == "" {
		status = "drag with the mouse, or space to pick up and arrows to move; ctrl+arrows reorder"
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.styles.Help().Render(status), v.board.View())
}

// Board returns the underlying board
func (v *BoardView) Board() *dragdrop.Model { return v.board }

// ApplyTheme restyles the board from the current theme
func (v *BoardView) ApplyTheme() { v.board.SetStyles(v.styles.Board()) }
