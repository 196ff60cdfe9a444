package content

import "strings"

// IsEmbeddedImage reports whether s is binary data carried inline as a data URI.
func IsEmbeddedImage(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// Reduce returns a copy of doc with every embedded image in a known image
// field cleared to "". All other fields are untouched. The second value is the
// number of fields cleared.
func Reduce(doc *Document) (*Document, int, error) {
	out, err := doc.Clone()
	if err != nil {
		return nil, 0, err
	}

	n := 0
	strip := func(s *string) {
		if IsEmbeddedImage(*s) {
			*s = ""
			n++
		}
	}

	for i := range out.PrintImages {
		strip(&out.PrintImages[i])
	}
	for _, list := range [][]Product{out.LeatherProducts, out.ShopifyApps, out.SNSAccounts} {
		for i := range list {
			strip(&list[i].ImageURL)
			strip(&list[i].ThumbnailURL)
		}
	}
	for _, list := range [][]Article{out.FurusatoItems, out.NoteArticles} {
		for i := range list {
			strip(&list[i].ImageURL)
		}
	}
	for i := range out.AudioTracks {
		strip(&out.AudioTracks[i].CoverImage)
	}
	if out.Hero != nil {
		strip(&out.Hero.Image)
	}
	for k, v := range out.Settings {
		if s, ok := v.(string); ok && IsEmbeddedImage(s) {
			out.Settings[k] = ""
			n++
		}
	}

	return out, n, nil
}
