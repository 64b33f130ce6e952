// Package render draws a controller.View as plain text.
//
// Every string that came from the server goes through Escape before it is
// written, so activity names, descriptions and emails cannot inject
// terminal control sequences.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/mergington/signup/internal/client/controller"
)

const (
	title       = "Mergington High School Activities"
	loadingText = "Loading activities..."
	emptyText   = "No participants yet"
)

// Escape replaces control and bidi-override characters with visible
// \u{XXXX} escapes. Printable text is returned unchanged.
func Escape(s string) string {
	if strings.IndexFunc(s, unsafeRune) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if unsafeRune(r) {
			fmt.Fprintf(&b, `\u{%04X}`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unsafeRune(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Bidi_Control, r)
}

// RemoveRef is the reference a removal control is shown under, e.g. "2.1"
// for the first participant of the second card. Both indexes are 1-based.
func RemoveRef(card, row int) string {
	return fmt.Sprintf("%d.%d", card, row)
}

// Status writes the auth status line and, when visible, the message banner.
func Status(w io.Writer, v controller.View) error {
	// The status line embeds the username the server returned at login.
	if _, err := fmt.Fprintln(w, Escape(v.AuthStatus)); err != nil {
		return err
	}
	if v.Message.Hidden {
		return nil
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n", v.Message.Severity, Escape(v.Message.Text))
	return err
}

// Activities writes the activity list.
func Activities(w io.Writer, v controller.View) error {
	var b strings.Builder

	b.WriteString(title + "\n\n")

	switch {
	case v.ListError != "":
		b.WriteString(v.ListError + "\n")
	case !v.Loaded:
		b.WriteString(loadingText + "\n")
	}

	for i, card := range v.Activities {
		writeCard(&b, i+1, card)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, n int, card controller.ActivityCard) {
	fmt.Fprintf(b, "%d. %s\n", n, Escape(card.Name))
	fmt.Fprintf(b, "   %s\n", Escape(card.Description))
	fmt.Fprintf(b, "   Schedule: %s\n", Escape(card.Schedule))
	fmt.Fprintf(b, "   Availability: %d spots left\n", card.SpotsLeft)

	if len(card.Participants) == 0 {
		fmt.Fprintf(b, "   %s\n\n", emptyText)
		return
	}

	b.WriteString("   Participants:\n")
	for j, row := range card.Participants {
		if row.Remove != nil {
			fmt.Fprintf(b, "     - %s  [x %s]\n", Escape(row.Email), RemoveRef(n, j+1))
			continue
		}
		fmt.Fprintf(b, "     - %s\n", Escape(row.Email))
	}
	b.WriteString("\n")
}

// Options writes the activity selector as a numbered list, skipping the
// placeholder.
func Options(w io.Writer, v controller.View) error {
	var b strings.Builder
	b.WriteString(controller.SelectPlaceholder + "\n")
	n := 0
	for _, opt := range v.ActivityOptions {
		if opt.Value == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "  %d) %s\n", n, Escape(opt.Label))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
