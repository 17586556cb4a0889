package gyazo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// EmbedType is the oEmbed "type" discriminator.
type EmbedType string

const (
	// EmbedTypePhoto identifies a still image embed
	EmbedTypePhoto EmbedType = "photo"
	// EmbedTypeVideo identifies a video embed
	EmbedTypeVideo EmbedType = "video"
)

// OEmbed is a decoded Gyazo oEmbed response. It is implemented only by
// *Photo and *Video.
type OEmbed interface {
	Type() EmbedType
	isOEmbed()
}

// Attributes are the fields shared by every oEmbed variant.
type Attributes struct {
	Version      string   `json:"version,omitempty"`
	ProviderName string   `json:"providerName,omitempty"`
	ProviderURL  string   `json:"providerUrl,omitempty"`
	Width        *int     `json:"width,omitempty"`
	Height       *int     `json:"height,omitempty"`
	Scale        *float64 `json:"scale,omitempty"`
	Title        *string  `json:"title,omitempty"`
}

// Photo is the oEmbed variant for images. URL points at the raw image.
type Photo struct {
	Attributes
	URL string `json:"url"`
}

// Video is the oEmbed variant for screen recordings.
type Video struct {
	Attributes
	HTML            string `json:"html"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	ThumbnailWidth  int    `json:"thumbnailWidth"`
	ThumbnailHeight int    `json:"thumbnailHeight"`
	HasAudioTrack   bool   `json:"hasAudioTrack"`
	VideoLengthMs   int64  `json:"videoLengthMs"`
}

// Type returns EmbedTypePhoto.
func (*Photo) Type() EmbedType { return EmbedTypePhoto }

// Type returns EmbedTypeVideo.
func (*Video) Type() EmbedType { return EmbedTypeVideo }

func (*Photo) isOEmbed() {}
func (*Video) isOEmbed() {}

// Decode parses an oEmbed response body, selecting the variant from the
// "type" field before validating the rest of the object against it.
func Decode(data []byte) (OEmbed, error) {
	obj, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	embedType, err := obj.embedType()
	if err != nil {
		return nil, err
	}

	switch embedType {
	case EmbedTypePhoto:
		photo := &Photo{}
		if err := photo.decode(obj); err != nil {
			return nil, err
		}
		return photo, nil
	case EmbedTypeVideo:
		video := &Video{}
		if err := video.decode(obj); err != nil {
			return nil, err
		}
		return video, nil
	default:
		return nil, &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported value %q (expected %q or %q)", embedType, EmbedTypePhoto, EmbedTypeVideo),
		}
	}
}

// UnmarshalJSON decodes a photo response and rejects any other type.
func (p *Photo) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	if err := obj.expectType(EmbedTypePhoto); err != nil {
		return err
	}
	return p.decode(obj)
}

// UnmarshalJSON decodes a video response and rejects any other type.
func (v *Video) UnmarshalJSON(data []byte) error {
	obj, err := parseObject(data)
	if err != nil {
		return err
	}
	if err := obj.expectType(EmbedTypeVideo); err != nil {
		return err
	}
	return v.decode(obj)
}

// MarshalJSON encodes the photo with its "type" discriminator.
func (p Photo) MarshalJSON() ([]byte, error) {
	type photo Photo
	return json.Marshal(struct {
		Type EmbedType `json:"type"`
		photo
	}{EmbedTypePhoto, photo(p)})
}

// MarshalJSON encodes the video with its "type" discriminator.
func (v Video) MarshalJSON() ([]byte, error) {
	type video Video
	return json.Marshal(struct {
		Type EmbedType `json:"type"`
		video
	}{EmbedTypeVideo, video(v)})
}

func (p *Photo) decode(obj object) error {
	attrs, err := decodeAttributes(obj)
	if err != nil {
		return err
	}
	url, err := obj.requiredString("url")
	if err != nil {
		return err
	}

	p.Attributes = attrs
	p.URL = url
	return nil
}

func (v *Video) decode(obj object) error {
	attrs, err := decodeAttributes(obj)
	if err != nil {
		return err
	}

	var out Video
	out.Attributes = attrs
	if out.HTML, err = obj.requiredString("html"); err != nil {
		return err
	}
	if out.ThumbnailURL, err = obj.requiredString("thumbnailUrl", "thumbnail_url"); err != nil {
		return err
	}
	width, err := obj.requiredInt("thumbnailWidth", "thumbnail_width")
	if err != nil {
		return err
	}
	height, err := obj.requiredInt("thumbnailHeight", "thumbnail_height")
	if err != nil {
		return err
	}
	out.ThumbnailWidth, out.ThumbnailHeight = int(width), int(height)
	if out.HasAudioTrack, err = obj.requiredBool("hasAudioTrack", "has_audio_track"); err != nil {
		return err
	}
	if out.VideoLengthMs, err = obj.requiredInt("videoLengthMs", "video_length_ms"); err != nil {
		return err
	}

	*v = out
	return nil
}

func decodeAttributes(obj object) (Attributes, error) {
	var attrs Attributes
	var err error

	if attrs.Version, err = obj.optionalString("version"); err != nil {
		return Attributes{}, err
	}
	if attrs.ProviderName, err = obj.optionalString("providerName", "provider_name"); err != nil {
		return Attributes{}, err
	}
	if attrs.ProviderURL, err = obj.optionalString("providerUrl", "provider_url"); err != nil {
		return Attributes{}, err
	}
	if attrs.Width, err = parseWidth(obj); err != nil {
		return Attributes{}, err
	}
	if attrs.Height, err = parseHeight(obj); err != nil {
		return Attributes{}, err
	}
	if attrs.Scale, err = parseScale(obj); err != nil {
		return Attributes{}, err
	}
	if attrs.Title, err = parseTitle(obj); err != nil {
		return Attributes{}, err
	}
	return attrs, nil
}

// parseWidth accepts a number or "" for the width attribute.
func parseWidth(obj object) (*int, error) {
	raw, ok := obj.lookup("width")
	if !ok {
		return nil, nil
	}
	return intOrEmpty("width", raw)
}

// parseHeight accepts a number or "" for the height attribute.
func parseHeight(obj object) (*int, error) {
	raw, ok := obj.lookup("height")
	if !ok {
		return nil, nil
	}
	return intOrEmpty("height", raw)
}

// parseScale accepts a number or "" for the scale attribute.
func parseScale(obj object) (*float64, error) {
	raw, ok := obj.lookup("scale")
	if !ok {
		return nil, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	if err := requireEmptyString("scale", raw); err != nil {
		return nil, err
	}
	return nil, nil
}

// parseTitle keeps the title verbatim, including an empty string.
func parseTitle(obj object) (*string, error) {
	raw, ok := obj.lookup("title")
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &ValidationError{Field: "title", Message: "expected a string", Err: err}
	}
	return &s, nil
}

func intOrEmpty(field string, raw json.RawMessage) (*int, error) {
	n, err := wholeNumber(raw)
	if err == nil {
		v := int(n)
		return &v, nil
	}
	if errors.Is(err, errFractional) {
		return nil, &ValidationError{Field: field, Message: err.Error()}
	}
	if err := requireEmptyString(field, raw); err != nil {
		return nil, err
	}
	return nil, nil
}

// errFractional marks a JSON number that is not a whole number
var errFractional = errors.New("expected a whole number")

// wholeNumber decodes a JSON number without a fractional part. Both 800 and
// 800.0 yield 800; 800.5 fails with errFractional.
func wholeNumber(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	if math.Trunc(f) != f || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w, got %v", errFractional, f)
	}
	return int64(f), nil
}

// requireEmptyString is the second branch of the numeric-or-empty parse: the
// value must be exactly "".
func requireEmptyString(field string, raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return &ValidationError{Field: field, Message: "expected a number or an empty string", Err: err}
	}
	if s != "" {
		return &ValidationError{Field: field, Message: fmt.Sprintf("expected a number or an empty string, got %q", s)}
	}
	return nil
}

// object is an undecoded JSON object. JSON null counts as absent.
type object map[string]json.RawMessage

func parseObject(data []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &ValidationError{Message: "expected a JSON object", Err: err}
	}
	if obj == nil {
		return nil, &ValidationError{Message: "expected a JSON object, got null"}
	}
	return obj, nil
}

// lookup returns the first present, non-null key. Later keys are accepted
// spellings of the same field.
func (o object) lookup(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := o[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		return raw, true
	}
	return nil, false
}

func (o object) embedType() (EmbedType, error) {
	raw, ok := o.lookup("type")
	if !ok {
		return "", missingField("type")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Field: "type", Message: "expected a string", Err: err}
	}
	return EmbedType(s), nil
}

func (o object) expectType(want EmbedType) error {
	got, err := o.embedType()
	if err != nil {
		return err
	}
	if got != want {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("expected %q, got %q", want, got)}
	}
	return nil
}

func (o object) requiredString(keys ...string) (string, error) {
	raw, ok := o.lookup(keys...)
	if !ok {
		return "", missingField(keys[0])
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Field: keys[0], Message: "expected a string", Err: err}
	}
	return s, nil
}

func (o object) optionalString(keys ...string) (string, error) {
	raw, ok := o.lookup(keys...)
	if !ok {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &ValidationError{Field: keys[0], Message: "expected a string", Err: err}
	}
	return s, nil
}

func (o object) requiredInt(keys ...string) (int64, error) {
	raw, ok := o.lookup(keys...)
	if !ok {
		return 0, missingField(keys[0])
	}
	n, err := wholeNumber(raw)
	if err != nil {
		return 0, &ValidationError{Field: keys[0], Message: "expected an integer", Err: err}
	}
	return n, nil
}

func (o object) requiredBool(keys ...string) (bool, error) {
	raw, ok := o.lookup(keys...)
	if !ok {
		return false, missingField(keys[0])
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, &ValidationError{Field: keys[0], Message: "expected a boolean", Err: err}
	}
	return b, nil
}
