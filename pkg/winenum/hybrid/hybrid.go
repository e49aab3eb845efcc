// Package hybrid picks the best introspection backend for the current
// session: X11 when a display is up, the GNOME Wayland focus reader
// with /proc enumeration on Wayland, and a bare /proc fallback with the
// frontmost heuristic everywhere else.
package hybrid

import (
	"fmt"
	"log"

	"github.com/callwatch/callwatch/pkg/winenum"
	"github.com/callwatch/callwatch/pkg/winenum/proc"
	"github.com/callwatch/callwatch/pkg/winenum/wayland"
	"github.com/callwatch/callwatch/pkg/winenum/x11"
)

// New opens the best available backend. It only fails when even /proc
// is unreadable; title loss alone degrades, it does not error.
func New() (winenum.Enumerator, winenum.FocusReader, error) {
	if x11.Available() {
		client, err := x11.NewClient()
		if err == nil {
			log.Printf("winenum: using x11 backend")
			return client, client, nil
		}
		log.Printf("winenum: x11 backend failed, falling back: %v", err)
	}

	if !proc.Available() {
		return nil, nil, fmt.Errorf("no introspection backend available: /proc not readable")
	}
	enum := proc.NewEnumerator()

	if wayland.Available() {
		log.Printf("winenum: using wayland focus reader with /proc enumeration")
		return enum, wayland.NewFocusReader(), nil
	}

	log.Printf("winenum: no display server backend, using /proc with frontmost heuristic")
	return enum, proc.NewFrontmostReader(), nil
}
