package wikilink

import "strings"

// EmbedType classifies the target of a wikilink.
type EmbedType int

const (
	// EmbedNone marks a plain (non-embedding) wikilink.
	EmbedNone EmbedType = iota
	// EmbedImage is an image embedding (img).
	EmbedImage
	// EmbedAudio is an audio embedding.
	EmbedAudio
	// EmbedVideo is a video embedding.
	EmbedVideo
	// EmbedPDF is a pdf embedding.
	EmbedPDF
	// EmbedNote is an embedded markdown note.
	EmbedNote
	// EmbedUndefined is an embedding whose extension is not recognised.
	EmbedUndefined
)

// String returns the category name used in logs and reports.
func (e EmbedType) String() string {
	switch e {
	case EmbedNone:
		return ""
	case EmbedImage:
		return "img"
	case EmbedAudio:
		return "audio"
	case EmbedVideo:
		return "video"
	case EmbedPDF:
		return "pdf"
	case EmbedNote:
		return "note"
	default:
		return "undefined"
	}
}

// embedRule is one row of the classification table.
type embedRule struct {
	kind       EmbedType
	extensions []string
}

// embedRules is checked top to bottom. ".webm" appears under audio and video;
// audio wins because it comes first.
var embedRules = []embedRule{
	{EmbedImage, []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg"}},
	{EmbedAudio, []string{".mp3", ".webm", ".wav", ".m4a", ".ogg", ".3gp", ".flac"}},
	{EmbedVideo, []string{".mp4", ".webm", ".ogv", ".mov", ".mkv"}},
	{EmbedPDF, []string{".pdf"}},
	{EmbedNote, []string{".md", ".markdown"}},
}

// Classify returns the embedding category for a link target.
// Matching is a case-sensitive suffix test; unknown targets are EmbedUndefined.
func Classify(target string) EmbedType {
	for _, rule := range embedRules {
		for _, ext := range rule.extensions {
			if strings.HasSuffix(target, ext) {
				return rule.kind
			}
		}
	}
	return EmbedUndefined
}
