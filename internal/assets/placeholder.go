// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"fmt"
	"strings"
)

// aspect is the width:height ratio used for placeholders of each category.
var aspect = map[Category][2]int{
	Hero:    {16, 9},
	Menu:    {4, 3},
	Gallery: {3, 2},
	Logo:    {1, 1},
}

// placeholderFiles returns one SVG per target width of the category. The
// output depends only on the category, so repeated compiles are identical.
func placeholderFiles(cat Category) []File {
	widths := Widths[cat]
	files := make([]File, 0, len(widths))
	for _, w := range widths {
		ratio := aspect[cat]
		h := w * ratio[1] / ratio[0]
		files = append(files, File{
			Path:        fmt.Sprintf("images/%s/placeholder-%d.svg", cat, w),
			Data:        []byte(placeholderSVG(cat, w, h)),
			ContentType: "image/svg+xml",
			Width:       w,
			Height:      h,
		})
	}
	return files
}

func placeholderSVG(cat Category, w, h int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, w, h, w, h)
	b.WriteString(`<rect width="100%" height="100%" fill="#e5e7eb"/>`)
	fmt.Fprintf(&b, `<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" `+
		`font-family="sans-serif" font-size="%d" fill="#9ca3af">%s</text>`, max(w/20, 12), cat)
	b.WriteString(`</svg>`)
	return b.String()
}
