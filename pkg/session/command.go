package session

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownCommand is returned for command names no component handles
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind names one user input
type CommandKind string

const (
	SelectCategory CommandKind = "select-category"
	Expand         CommandKind = "expand"
	Collapse       CommandKind = "collapse"
	ToggleMenu     CommandKind = "toggle-menu"
	OpenEntry      CommandKind = "open"
	Next           CommandKind = "next"
	Previous       CommandKind = "previous"
	Close          CommandKind = "close"
	ToggleNews     CommandKind = "toggle-news"

	OpenPackageInfo  CommandKind = "open-package-info"
	ClosePackageInfo CommandKind = "close-package-info"
)

// Command is one discrete user input applied to a session
type Command struct {
	Kind     CommandKind `json:"command"`
	Category string      `json:"category,omitempty"`
	Index    int         `json:"index,omitempty"`
}

func (c Command) String() string {
	switch c.Kind {
	case SelectCategory:
		return fmt.Sprintf("%s(%q)", c.Kind, c.Category)
	case OpenEntry:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Index)
	default:
		return string(c.Kind)
	}
}

// ParseCommand builds a command from its name and optional argument, as sent
// by the page or typed on the command line
func ParseCommand(name, arg string) (Command, error) {
	kind := CommandKind(name)
	switch kind {
	case SelectCategory:
		return Command{Kind: kind, Category: arg}, nil
	case OpenEntry:
		index, err := strconv.Atoi(arg)
		if err != nil {
			return Command{}, fmt.Errorf("open needs an entry index, got %q: %w", arg, err)
		}
		return Command{Kind: kind, Index: index}, nil
	case Expand, Collapse, ToggleMenu, Next, Previous, Close, ToggleNews, OpenPackageInfo, ClosePackageInfo:
		return Command{Kind: kind}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Modals reports which overlays of the page are shown
type Modals struct {
	Lightbox    bool
	PackageInfo bool
}

// KeyCommand maps a keyboard key (DOM KeyboardEvent.key names) to a command.
// Keys only act while a modal is shown; the lightbox takes precedence.
func KeyCommand(key string, shown Modals) (Command, bool) {
	switch {
	case shown.Lightbox:
		switch key {
		case "Escape":
			return Command{Kind: Close}, true
		case "ArrowLeft":
			return Command{Kind: Previous}, true
		case "ArrowRight":
			return Command{Kind: Next}, true
		}
	case shown.PackageInfo:
		if key == "Escape" {
			return Command{Kind: ClosePackageInfo}, true
		}
	}
	return Command{}, false
}
