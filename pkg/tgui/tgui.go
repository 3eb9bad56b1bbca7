package tgui

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"joinbot/internal/transport"
)

// Inline is a small builder for inline keyboards (ReplyMarkup).
type Inline struct {
	rm   *tele.ReplyMarkup
	rows []tele.Row
}

func NewInline() *Inline {
	return &Inline{rm: &tele.ReplyMarkup{}}
}

// Row appends a row of buttons.
func (i *Inline) Row(btn ...tele.Btn) *Inline {
	i.rows = append(i.rows, i.rm.Row(btn...))
	i.rm.Inline(i.rows...)
	return i
}

func (i *Inline) Markup() *tele.ReplyMarkup { return i.rm }

// Btn creates a callback button with raw callback_data.
func Btn(text, data string) tele.Btn {
	return tele.Btn{Text: text, Data: data}
}

// Validate reports the first button or row Telegram would reject.
func Validate(kb transport.Keyboard) error {
	for r, row := range kb {
		if len(row) > MaxButtonsPerRow {
			return fmt.Errorf("row %d: %w", r, ErrRowTooWide)
		}
		for _, b := range row {
			if len(b.Data) > MaxCallbackDataLen {
				return fmt.Errorf("button %q: %w", b.Text, ErrCallbackDataTooLong)
			}
		}
	}
	return nil
}

// Markup builds inline markup for kb. It returns nil for an empty keyboard.
func Markup(kb transport.Keyboard) (*tele.ReplyMarkup, error) {
	if len(kb) == 0 {
		return nil, nil
	}
	if err := Validate(kb); err != nil {
		return nil, err
	}
	in := NewInline()
	for _, row := range kb {
		btns := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			btns = append(btns, Btn(b.Text, b.Data))
		}
		in.Row(btns...)
	}
	return in.Markup(), nil
}
