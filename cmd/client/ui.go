package main

import (
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jroimartin/gocui"
)

// ChatUI is a two-pane terminal interface: a scrolling message view and an
// input line. Incoming frames are rendered by renderLine; outgoing input is
// sent verbatim so commands like "::skeleton arena1" pass through untouched.
type ChatUI struct {
	gui       *gocui.Gui
	conn      *websocket.Conn
	msgView   string
	inputView string
}

func NewChatUI(conn *websocket.Conn) (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	ui := &ChatUI{
		gui:       g,
		conn:      conn,
		msgView:   "messages",
		inputView: "input",
	}

	g.SetManagerFunc(ui.layout)
	return ui, nil
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(ui.msgView, 0, 0, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Messages"
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(ui.inputView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Input"
		v.Editable = true
		v.Wrap = true

		if _, err := g.SetCurrentView(ui.inputView); err != nil {
			return err
		}
	}

	return nil
}

func (ui *ChatUI) keybindings() error {
	if err := ui.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(*gocui.Gui, *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}

	return ui.gui.SetKeybinding(ui.inputView, gocui.KeyEnter, gocui.ModNone, ui.handleInput)
}

func (ui *ChatUI) handleInput(_ *gocui.Gui, v *gocui.View) error {
	input := strings.TrimSpace(v.Buffer())
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	if input == "" {
		return nil
	}

	if err := ui.conn.WriteMessage(websocket.TextMessage, []byte(input)); err != nil {
		ui.appendLine(fmt.Sprintf("[error] sending: %v", err))
	}
	return nil
}

func (ui *ChatUI) appendLine(line string) {
	ui.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(ui.msgView)
		if err != nil {
			return err
		}
		fmt.Fprintln(v, line)
		return nil
	})
}

// readLoop renders every incoming frame until the connection drops, then
// stops the UI.
func (ui *ChatUI) readLoop() {
	defer ui.gui.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
	for {
		_, payload, err := ui.conn.ReadMessage()
		if err != nil {
			ui.appendLine("[disconnected]")
			return
		}
		if line := renderLine(string(payload)); line != "" {
			ui.appendLine(line)
		}
	}
}

func (ui *ChatUI) Run() error {
	if err := ui.keybindings(); err != nil {
		return err
	}

	go ui.readLoop()

	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (ui *ChatUI) Close() {
	ui.gui.Close()
}
