// Package proc enumerates processes from /proc. It carries no window
// information; pair it with an X11 or Wayland backend for titles.
package proc

import (
	"bufio"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/callwatch/callwatch/pkg/winenum"
)

type Enumerator struct{}

func NewEnumerator() *Enumerator {
	return &Enumerator{}
}

// Available reports whether /proc can be read on this system.
func Available() bool {
	_, err := os.Stat("/proc")
	return err == nil
}

func (e *Enumerator) Processes() ([]winenum.ProcessInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	var procs []winenum.ProcessInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		info, err := readProcessInfo(pid)
		if err != nil {
			continue
		}
		procs = append(procs, info)
	}
	return procs, nil
}

// WindowTitles always returns nothing: /proc has no window state.
func (e *Enumerator) WindowTitles(pid int) ([]string, error) {
	return nil, nil
}

func (e *Enumerator) Close() error { return nil }

func readProcessInfo(pid int) (winenum.ProcessInfo, error) {
	info := winenum.ProcessInfo{PID: pid}

	statData, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return info, err
	}
	info.Name = nameFromStat(string(statData))

	if cmdData, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline")); err == nil {
		info.Cmdline = strings.TrimSpace(strings.ReplaceAll(string(cmdData), "\x00", " "))
	}

	return info, nil
}

// nameFromStat extracts the comm field, which is parenthesized and may
// itself contain parentheses.
func nameFromStat(stat string) string {
	start := strings.Index(stat, "(")
	end := strings.LastIndex(stat, ")")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return stat[start+1 : end]
}

// FrontmostReader approximates the focused application when no display
// server backend is usable. It cannot read titles (Granted is false);
// it guesses the frontmost process from recent CPU activity, which is a
// loose heuristic but enough for frontmost-implies-active degradation.
type FrontmostReader struct{}

func NewFrontmostReader() *FrontmostReader {
	return &FrontmostReader{}
}

func (r *FrontmostReader) Granted() bool { return false }

func (r *FrontmostReader) Focused() (*winenum.FocusedWindow, error) {
	pid, err := busiestGUIPID()
	if err != nil {
		return nil, err
	}
	return &winenum.FocusedWindow{PID: pid}, nil
}

// busiestGUIPID returns the most CPU-active process that looks like a
// GUI app (has a display in its environment).
func busiestGUIPID() (int, error) {
	out, err := exec.Command("ps", "aux", "--sort=-pcpu").Output()
	if err != nil {
		return 0, err
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	scanner.Scan() // header

	for count := 0; scanner.Scan() && count < 15; count++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		if isGUIProcess(pid) {
			return pid, nil
		}
	}
	return 0, os.ErrNotExist
}

func isGUIProcess(pid int) bool {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "environ"))
	if err != nil {
		return false
	}
	environ := string(data)
	return strings.Contains(environ, "DISPLAY=") || strings.Contains(environ, "WAYLAND_DISPLAY=")
}
