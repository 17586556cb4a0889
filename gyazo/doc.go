// Package gyazo models the Gyazo oEmbed API response used to resolve
// Gyazo-hosted attachments into downloadable image URLs.
//
// The oEmbed endpoint answers with one of two shapes, selected by the "type"
// field: a photo or a video. Decode returns the matching variant:
//
//	embed, err := gyazo.Decode(body)
//	if err != nil {
//		return err
//	}
//	switch e := embed.(type) {
//	case *gyazo.Photo:
//		fetch(e.URL)
//	case *gyazo.Video:
//		// no single downloadable stream
//	}
//
// Gyazo sometimes reports width, height and scale as an empty string instead
// of omitting them. Those fields decode to nil rather than zero.
package gyazo
