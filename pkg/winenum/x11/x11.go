// Package x11 reads window titles and the focused window over the X
// protocol using jezek/xgb.
package x11

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/callwatch/callwatch/pkg/winenum"
	"github.com/callwatch/callwatch/pkg/winenum/proc"
)

// Client holds one X connection with the atoms we query pre-interned.
// It implements both winenum.Enumerator (processes come from /proc,
// titles from the client list) and winenum.FocusReader.
type Client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
	procs *proc.Enumerator
}

var atomNames = []string{
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"UTF8_STRING",
}

// Available reports whether an X display is advertised.
func Available() bool {
	return os.Getenv("DISPLAY") != ""
}

func NewClient() (*Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	c := &Client{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom),
		procs: proc.NewEnumerator(),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("interning atom %s: %w", name, err)
		}
		c.atoms[name] = reply.Atom
	}

	return c, nil
}

func (c *Client) Close() error {
	c.conn.Close()
	return nil
}

func (c *Client) Processes() ([]winenum.ProcessInfo, error) {
	return c.procs.Processes()
}

// WindowTitles returns the titles of all top-level windows owned by
// pid, found by walking _NET_CLIENT_LIST and matching _NET_WM_PID.
func (c *Client) WindowTitles(pid int) ([]string, error) {
	windows, err := c.clientList()
	if err != nil {
		return nil, err
	}

	var titles []string
	for _, win := range windows {
		if c.windowPID(win) != pid {
			continue
		}
		if title := c.windowName(win); title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

func (c *Client) Granted() bool { return true }

func (c *Client) Focused() (*winenum.FocusedWindow, error) {
	data, err := c.getProperty(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return nil, fmt.Errorf("reading _NET_ACTIVE_WINDOW: %w", err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("no active window")
	}
	win := xproto.Window(binary.LittleEndian.Uint32(data))
	if win == 0 {
		return nil, fmt.Errorf("no active window")
	}

	return &winenum.FocusedWindow{
		Title: c.windowName(win),
		PID:   c.windowPID(win),
	}, nil
}

func (c *Client) clientList() ([]xproto.Window, error) {
	data, err := c.getProperty(c.root, c.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1024)
	if err != nil {
		return nil, fmt.Errorf("reading _NET_CLIENT_LIST: %w", err)
	}

	windows := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		windows = append(windows, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return windows, nil
}

func (c *Client) windowPID(win xproto.Window) int {
	data, err := c.getProperty(win, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)
	if err != nil || len(data) < 4 {
		return 0
	}
	return int(binary.LittleEndian.Uint32(data))
}

// windowName prefers the EWMH UTF-8 name over the legacy WM_NAME.
func (c *Client) windowName(win xproto.Window) string {
	data, err := c.getProperty(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return string(data)
	}
	data, err = c.getProperty(win, c.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return string(data)
	}
	return ""
}

func (c *Client) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}
