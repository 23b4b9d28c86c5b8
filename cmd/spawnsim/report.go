package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cory-johannsen/ruins/internal/game/chara"
	"github.com/cory-johannsen/ruins/internal/game/gamedata"
)

// maxNameWidth caps the NAME column in terminal cells.
const maxNameWidth = 24

type row struct {
	id, name, race, level, hp, rel string
}

// printPopulation writes one row per character, persistent ones first.
// Columns are padded by display width so wide-glyph names stay aligned.
func printPopulation(w io.Writer, h *chara.Holder, templates gamedata.Templates) error {
	rows := []row{{"ID", "NAME", "RACE", "LEVEL", "HP", "REL"}}
	for _, id := range h.IDs() {
		c := h.Get(id)
		race := "-"
		if id.IsOnMap() {
			if tmpl, ok := templates.Get(c.Template); ok {
				race = tmpl.Race.String()
			}
		}
		rows = append(rows, row{
			id:    id.String(),
			name:  runewidth.Truncate(c.DisplayName("?"), maxNameWidth, "…"),
			race:  race,
			level: fmt.Sprint(c.Level),
			hp:    fmt.Sprintf("%d/%d", c.HP, c.Attr.MaxHP),
			rel:   c.Rel.String(),
		})
	}

	var widths [6]int
	for _, r := range rows {
		for i, cell := range r.cells() {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, r := range rows {
		cells := r.cells()
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]+2))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (r row) cells() [6]string {
	return [6]string{r.id, r.name, r.race, r.level, r.hp, r.rel}
}
