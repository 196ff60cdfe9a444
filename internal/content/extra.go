package content

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Every object in the document keeps the keys this package does not model in
// an Extra map and writes them back unchanged. The helpers below do the split
// for any struct, keyed by the json tag names of its fields.

var tagNames sync.Map // reflect.Type -> map[string]struct{}

// jsonNames returns the json key of every encoded field of struct type t.
// Names come from the tags, so omitempty fields count even when empty.
func jsonNames(t reflect.Type) map[string]struct{} {
	if cached, ok := tagNames.Load(t); ok {
		return cached.(map[string]struct{})
	}
	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		names[name] = struct{}{}
	}
	tagNames.Store(t, names)
	return names
}

// decodeWithExtra unmarshals b into known, a pointer to a struct without
// custom unmarshalers, and returns the keys its fields do not claim.
func decodeWithExtra(b []byte, known any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(b, known); err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	for name := range jsonNames(reflect.TypeOf(known).Elem()) {
		delete(raw, name)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// encodeWithExtra marshals known, a struct without custom marshalers, and
// merges extra into the result. Extra never overrides a modelled key. With
// extras present the keys come out sorted.
func encodeWithExtra(known any, extra map[string]json.RawMessage) ([]byte, error) {
	b, err := marshalNoEscape(known)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	names := jsonNames(reflect.TypeOf(known))
	for k, v := range extra {
		if _, modelled := names[k]; modelled {
			continue
		}
		merged[k] = v
	}
	return marshalNoEscape(merged)
}

// Field-only twins of the item types, used by the codecs below.
type (
	productFields    Product
	appFields        App
	videoFields      Video
	articleFields    Article
	audioTrackFields AudioTrack
	tabFields        Tab
	heroFields       Hero
	legalInfoFields  LegalInfo
)

func (p *Product) UnmarshalJSON(b []byte) error {
	var f productFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*p = Product(f)
	p.Extra = extra
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(productFields(p), p.Extra)
}

func (a *App) UnmarshalJSON(b []byte) error {
	var f appFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*a = App(f)
	a.Extra = extra
	return nil
}

func (a App) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(appFields(a), a.Extra)
}

func (v *Video) UnmarshalJSON(b []byte) error {
	var f videoFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*v = Video(f)
	v.Extra = extra
	return nil
}

func (v Video) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(videoFields(v), v.Extra)
}

func (a *Article) UnmarshalJSON(b []byte) error {
	var f articleFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*a = Article(f)
	a.Extra = extra
	return nil
}

func (a Article) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(articleFields(a), a.Extra)
}

func (t *AudioTrack) UnmarshalJSON(b []byte) error {
	var f audioTrackFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*t = AudioTrack(f)
	t.Extra = extra
	return nil
}

func (t AudioTrack) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(audioTrackFields(t), t.Extra)
}

func (t *Tab) UnmarshalJSON(b []byte) error {
	var f tabFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*t = Tab(f)
	t.Extra = extra
	return nil
}

func (t Tab) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(tabFields(t), t.Extra)
}

func (h *Hero) UnmarshalJSON(b []byte) error {
	var f heroFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*h = Hero(f)
	h.Extra = extra
	return nil
}

func (h Hero) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(heroFields(h), h.Extra)
}

func (l *LegalInfo) UnmarshalJSON(b []byte) error {
	var f legalInfoFields
	extra, err := decodeWithExtra(b, &f)
	if err != nil {
		return err
	}
	*l = LegalInfo(f)
	l.Extra = extra
	return nil
}

func (l LegalInfo) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(legalInfoFields(l), l.Extra)
}
