package layout

import (
	"strconv"
	"strings"
)

type Slot[T any] struct {
	Index  int
	Item   T
	Filled bool
}

// Label returns the 1-based position, or "" for a blank slot when suppressBlank is set.
func (s Slot[T]) Label(suppressBlank bool) string {
	if !s.Filled && suppressBlank {
		return ""
	}
	return strconv.Itoa(s.Index)
}

// Capped renders exactly capacity slots. Items past capacity are dropped.
func Capped[T any](items []T, capacity int) ([]Slot[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return fill(items, capacity), nil
}

// Floored renders max(len(items), floor) slots and never drops an item.
func Floored[T any](items []T, floor int) ([]Slot[T], error) {
	if floor <= 0 {
		return nil, ErrInvalidCapacity
	}
	return fill(items, max(len(items), floor)), nil
}

func fill[T any](items []T, size int) []Slot[T] {
	slots := make([]Slot[T], size)
	for i := range slots {
		slots[i].Index = i + 1
		if i < len(items) {
			slots[i].Item = items[i]
			slots[i].Filled = true
		}
	}
	return slots
}

const ellipsis = "…"

// TruncateLines wraps text into lines of at most width runes, breaking on spaces
// where possible, and keeps the first maxLines. Cut text ends with an ellipsis.
func TruncateLines(text string, maxLines, width int) []string {
	if maxLines <= 0 || width <= 0 {
		return nil
	}
	lines := wrap(text, width)
	if len(lines) <= maxLines {
		return lines
	}

	kept := append([]string(nil), lines[:maxLines]...)
	last := []rune(kept[maxLines-1])
	if len(last)+1 > width {
		last = last[:width-1]
	}
	kept[maxLines-1] = strings.TrimRight(string(last), " ") + ellipsis
	return kept
}

func wrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		var current []rune
		for _, word := range words {
			runes := []rune(word)
			for len(runes) > width {
				if len(current) > 0 {
					lines = append(lines, string(current))
					current = nil
				}
				lines = append(lines, string(runes[:width]))
				runes = runes[width:]
			}
			switch {
			case len(current) == 0:
				current = runes
			case len(current)+1+len(runes) <= width:
				current = append(append(current, ' '), runes...)
			default:
				lines = append(lines, string(current))
				current = runes
			}
		}
		if len(current) > 0 {
			lines = append(lines, string(current))
		}
	}
	return lines
}
