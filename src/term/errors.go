package term

import "errors"

var (
	// ErrNoTerminal is returned when an operation needs a terminal and
	// none is selected
	ErrNoTerminal = errors.New("no terminal defined")
	// ErrUnknownTerminal is returned for a terminal name that matches no
	// terminal, or more than one
	ErrUnknownTerminal = errors.New("unknown or ambiguous terminal type")
	// ErrMultiplotUnsupported is returned when the terminal can never
	// keep a multiplot open across prompts
	ErrMultiplotUnsupported = errors.New("This terminal does not support multiplot")
	// ErrMultiplotNeedsFile is returned when a multiplot spans prompts
	// while output goes to the screen
	ErrMultiplotNeedsFile = errors.New("Must set output to a file or put all multiplot commands on one input line")
	// ErrOutputInMultiplot is returned when output is changed mid-multiplot
	ErrOutputInMultiplot = errors.New("you can't change the output in multiplot mode")
	// ErrInterrupted is returned when drawing stops at an interrupt request
	ErrInterrupted = errors.New("interrupted")
	// ErrUnknownTerminalTest is returned when the test page is requested
	// for the unknown terminal
	ErrUnknownTerminalTest = errors.New("terminal type is unknown")
)
