// Package console is a raw-mode, single-keystroke interactive front end
// onto a debug.Module, grounded on the teacher's
// debugger/terminal/colorterm/easyterm/easyterm.go: the same
// github.com/pkg/term/termios Tcgetattr/Cfmakecbreak/Tcsetattr sequence to
// put the terminal into cbreak mode and restore it on exit, adapted from
// the teacher's curses-like redraw loop to a plain command-character
// reader, since this core has no screen to paint.
package console

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/pkg/term/termios"

	"github.com/hdl2go/rv32pipe/debug"
)

// Console reads single keystrokes from in and dispatches them against mod,
// writing feedback to out.
type Console struct {
	in  *os.File
	out io.Writer

	canAttr    syscall.Termios
	cbreakAttr syscall.Termios

	mod *debug.Module
}

// New prepares a Console over in/out for mod, capturing in's current
// terminal attributes so Run can restore them afterwards.
func New(in *os.File, out io.Writer, mod *debug.Module) *Console {
	c := &Console{in: in, out: out, mod: mod}
	termios.Tcgetattr(in.Fd(), &c.canAttr)
	c.cbreakAttr = c.canAttr
	termios.Cfmakecbreak(&c.cbreakAttr)
	return c
}

// Run puts the terminal into cbreak mode and dispatches single keystrokes
// until 'q' is read or in returns an error, restoring the terminal's
// original mode on the way out.
//
// Key bindings:
//
//	h  halt the hart
//	r  resume the hart
//	s  single-step (resume for exactly one committed instruction)
//	g  dump GPRs
//	q  quit the console (does not halt or resume the hart)
func (c *Console) Run() error {
	termios.Tcsetattr(c.in.Fd(), termios.TCIFLUSH, &c.cbreakAttr)
	defer termios.Tcsetattr(c.in.Fd(), termios.TCIFLUSH, &c.canAttr)

	buf := make([]byte, 1)
	for {
		n, err := c.in.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}

		switch buf[0] {
		case 'h':
			c.mod.Halt()
			fmt.Fprintln(c.out, "halted")
		case 'r':
			c.mod.Resume()
			fmt.Fprintln(c.out, "resumed")
		case 's':
			c.mod.Step()
			fmt.Fprintln(c.out, "stepping")
		case 'g':
			for i := uint8(0); i < 32; i++ {
				v, _ := c.mod.ReadGPR(i)
				fmt.Fprintf(c.out, "x%-2d = %#010x\n", i, v)
			}
		case 'q':
			return nil
		}
	}
}
