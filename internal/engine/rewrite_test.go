package engine

import (
	"slices"
	"strings"
	"testing"
)

func TestRewriteImages(t *testing.T) {
	lookup := func(src string) (Image, bool) {
		if src == "uploads/patio.jpg" {
			return Image{Src: "images/gallery/patio-1200.webp", SrcSet: "images/gallery/patio-1200.webp 1200w, images/gallery/patio-600.webp 600w"}, true
		}
		return Image{}, false
	}

	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name: "known image gets processed src and srcset",
			in:   `<p>Our patio</p><img src="uploads/patio.jpg" alt="Patio">`,
			want: []string{
				`src="images/gallery/patio-1200.webp"`,
				`srcset="images/gallery/patio-1200.webp 1200w, images/gallery/patio-600.webp 600w"`,
				`loading="lazy"`,
				`decoding="async"`,
				`<p>Our patio</p>`,
			},
		},
		{
			name:    "unknown image only gets lazy loading",
			in:      `<img src="https://elsewhere.test/a.png">`,
			want:    []string{`src="https://elsewhere.test/a.png"`, `loading="lazy"`},
			notWant: []string{"srcset"},
		},
		{
			name: "existing attributes are kept",
			in:   `<img src="uploads/patio.jpg" srcset="mine.webp 1x" loading="eager">`,
			want: []string{`srcset="mine.webp 1x"`, `loading="eager"`, `src="uploads/patio.jpg"`},
		},
		{
			name: "nested images are rewritten",
			in:   `<figure><a href="#"><img src="uploads/patio.jpg"></a></figure>`,
			want: []string{`<figure><a href="#"><img src="images/gallery/patio-1200.webp"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RewriteImages(tt.in, lookup)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output %q missing %q", got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("output %q should not contain %q", got, nw)
				}
			}
		})
	}
}

func TestRewriteImagesWithoutImages(t *testing.T) {
	in := `<p>No <em>images</em> here</p>`
	if got := RewriteImages(in, nil); got != in {
		t.Errorf("RewriteImages = %q, want unchanged", got)
	}
}

func TestImageRefs(t *testing.T) {
	in := `<img src="a.jpg"><div><img src="b.jpg"><img src="a.jpg"><img alt="no src"></div>`
	got := ImageRefs(in)
	if !slices.Equal(got, []string{"a.jpg", "b.jpg"}) {
		t.Errorf("ImageRefs = %v", got)
	}
	if got := ImageRefs(""); len(got) != 0 {
		t.Errorf("ImageRefs(\"\") = %v", got)
	}
}
