package acbf

// ContentsTable returns one table of contents per declared language, in
// language order. A list may be empty when no page carries a title in that
// language.
func (d *Document) ContentsTable() [][]ContentsEntry {
	table := make([][]ContentsEntry, len(d.Info.Languages))
	for i, lang := range d.Info.Languages {
		table[i] = d.contents(lang.Code)
	}
	return table
}

// Contents returns the table of contents for the language at idx.
func (d *Document) Contents(idx int) []ContentsEntry {
	return d.contents(d.Language(idx).Code)
}

func (d *Document) contents(lang string) []ContentsEntry {
	entries := []ContentsEntry{}
	for i, page := range d.Pages {
		label := page.Titles[lang]
		if label == "" {
			label = page.Titles[""]
		}
		if label == "" {
			continue
		}
		// body page i+1 is displayed as page i+2 because the cover comes first
		entries = append(entries, ContentsEntry{Label: label, Page: i + 2})
	}
	return entries
}
