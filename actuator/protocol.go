// Package actuator drives the finger actuator controller over a serial link.
// Commands are newline-terminated ASCII lines of comma-separated integers;
// the encoding is byte-exact; any deviation breaks the firmware parser.
package actuator

import (
	"strconv"
	"strings"
)

// Op is the wire keyword of an actuator command.
type Op string

const (
	OpMove   Op = "MOVE"
	OpClick  Op = "CLICK"
	OpScroll Op = "SCROLL"
	OpReset  Op = "RESET"
	OpStatus Op = "STATUS"
	OpScreen Op = "SCREEN"
)

// Wire scroll directions. The firmware takes 1 for up and -1 for down; the
// bridge maps downward finger travel to ScrollDown and therefore to -1.
const (
	ScrollDirUp   = 1
	ScrollDirDown = -1
)

// DefaultScrollAmount is the firmware's notch count for one scroll step.
const DefaultScrollAmount = 3

// Command is one actuator instruction. Build commands through the
// constructors below; Encode produces the exact wire form.
type Command struct {
	Op   Op
	Args []int
}

func Move(x, y int) Command {
	return Command{Op: OpMove, Args: []int{x, y}}
}

func Click(x, y int) Command {
	return Command{Op: OpClick, Args: []int{x, y}}
}

func Scroll(direction, amount int) Command {
	return Command{Op: OpScroll, Args: []int{direction, amount}}
}

func ScrollUp(amount int) Command {
	return Scroll(ScrollDirUp, amount)
}

func ScrollDown(amount int) Command {
	return Scroll(ScrollDirDown, amount)
}

// Home re-homes the actuator. The firmware uses RESET for this.
func Home() Command {
	return Command{Op: OpReset}
}

// Calibrate re-homes the actuator to a specific position (RESET with
// coordinates).
func Calibrate(x, y int) Command {
	return Command{Op: OpReset, Args: []int{x, y}}
}

func Status() Command {
	return Command{Op: OpStatus}
}

func ScreenSize(width, height int) Command {
	return Command{Op: OpScreen, Args: []int{width, height}}
}

// Encode returns the newline-terminated wire form, e.g. "MOVE,12,34\n".
func (c Command) Encode() string {
	var b strings.Builder
	b.WriteString(string(c.Op))
	for _, arg := range c.Args {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(arg))
	}
	b.WriteByte('\n')
	return b.String()
}

// String is the wire form without the trailing newline, for logs.
func (c Command) String() string {
	return strings.TrimSuffix(c.Encode(), "\n")
}
