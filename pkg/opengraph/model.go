// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var (
	// ErrMalformedURL is returned when a document URL is not an absolute URL.
	ErrMalformedURL = errors.New("malformed url")
	// ErrUnknownGender is returned by [ParseGender] for unsupported values.
	ErrUnknownGender = errors.New("unknown gender")
)

// Type is the declared type of an Open Graph object.
type Type uint8

const (
	// TypeWebsite is the default type, used when "og:type" is missing.
	TypeWebsite Type = iota
	// TypeUnknown is any type this package does not know about.
	TypeUnknown
	TypeArticle
	TypeProfile
	TypeBook
	TypeMusicSong
	TypeMusicAlbum
	TypeMusicPlaylist
	TypeMusicRadioStation
	TypeVideoMovie
	TypeVideoTVShow
	TypeVideoOther
	TypeVideoEpisode
)

var typeNames = map[Type]string{
	TypeWebsite:           "website",
	TypeUnknown:           "unknown",
	TypeArticle:           "article",
	TypeProfile:           "profile",
	TypeBook:              "book",
	TypeMusicSong:         "music.song",
	TypeMusicAlbum:        "music.album",
	TypeMusicPlaylist:     "music.playlist",
	TypeMusicRadioStation: "music.radio_station",
	TypeVideoMovie:        "video.movie",
	TypeVideoTVShow:       "video.tv_show",
	TypeVideoOther:        "video.other",
	TypeVideoEpisode:      "video.episode",
}

var typeValues = func() map[string]Type {
	res := make(map[string]Type, len(typeNames))
	for k, v := range typeNames {
		res[v] = k
	}
	delete(res, "unknown")
	return res
}()

// ParseType returns the [Type] of an "og:type" value.
// An empty value is a website, an unrecognized one is [TypeUnknown].
func ParseType(s string) Type {
	if s == "" {
		return TypeWebsite
	}
	if t, ok := typeValues[s]; ok {
		return t
	}
	return TypeUnknown
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Gender is a profile's gender.
type Gender uint8

const (
	// GenderUnset means no (or no usable) gender.
	GenderUnset Gender = iota
	GenderMale
	GenderFemale
)

// ParseGender converts a string, case insensitively, to a [Gender].
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	}
	return GenderUnset, fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	}
	return ""
}

// MarshalText implements [encoding.TextMarshaler].
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// An empty value is [GenderUnset].
func (g *Gender) UnmarshalText(b []byte) (err error) {
	if len(b) == 0 {
		*g = GenderUnset
		return nil
	}
	*g, err = ParseGender(string(b))
	return
}

// Data is the structured Open Graph information of a document.
//
// Missing properties are zero values. Object holds the type-specific
// record selected by Type, or nil.
type Data struct {
	Tags []Tag

	Title       string
	Type        string
	URL         string
	Description string

	SiteName        string
	Determiner      string
	Locale          string
	LocaleAlternate []string

	Images []Image
	Videos []Video
	Audios []Audio

	Object Object
}

// IsValid returns true when the document has the four properties that
// the protocol requires: title, type, url and at least one image.
// A property given with an empty content is present.
func (d *Data) IsValid() bool {
	return d.has("title", d.Title) &&
		d.has("type", d.Type) &&
		d.has("url", d.URL) &&
		len(d.Images) > 0
}

// has reports whether a basic property is present. Data built without
// tags only knows about non-empty values.
func (d *Data) has(property, value string) bool {
	if value != "" {
		return true
	}
	return slices.ContainsFunc(d.Tags, func(t Tag) bool {
		return t.Property == property
	})
}

// ObjectType returns the declared [Type] of the document.
func (d *Data) ObjectType() Type {
	return ParseType(d.Type)
}

// ParsedURL returns the document URL as a [*url.URL].
// The URL must be absolute, otherwise the error wraps [ErrMalformedURL].
func (d *Data) ParsedURL() (*url.URL, error) {
	if d.URL == "" {
		return nil, fmt.Errorf("%w: empty value", ErrMalformedURL)
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
	}
	if !u.IsAbs() || u.Host == "" && u.Opaque == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, d.URL)
	}
	return u, nil
}

// FirstImageURL returns the URL of the first image, if any.
func (d *Data) FirstImageURL() string {
	if len(d.Images) == 0 {
		return ""
	}
	return d.Images[0].URL
}

// Article returns the article object or nil.
func (d *Data) Article() *Article {
	o, _ := d.Object.(*Article)
	return o
}

// Profile returns the profile object or nil.
func (d *Data) Profile() *Profile {
	o, _ := d.Object.(*Profile)
	return o
}

// Book returns the book object or nil.
func (d *Data) Book() *Book {
	o, _ := d.Object.(*Book)
	return o
}

// MusicSong returns the music.song object or nil.
func (d *Data) MusicSong() *MusicSong {
	o, _ := d.Object.(*MusicSong)
	return o
}

// MusicAlbum returns the music.album object or nil.
func (d *Data) MusicAlbum() *MusicAlbum {
	o, _ := d.Object.(*MusicAlbum)
	return o
}

// MusicPlaylist returns the music.playlist object or nil.
func (d *Data) MusicPlaylist() *MusicPlaylist {
	o, _ := d.Object.(*MusicPlaylist)
	return o
}

// MusicRadioStation returns the music.radio_station object or nil.
func (d *Data) MusicRadioStation() *MusicRadioStation {
	o, _ := d.Object.(*MusicRadioStation)
	return o
}

// VideoMovie returns the video.movie object or nil.
// It is also used by video.tv_show and video.other.
func (d *Data) VideoMovie() *VideoMovie {
	o, _ := d.Object.(*VideoMovie)
	return o
}

// VideoEpisode returns the video.episode object or nil.
func (d *Data) VideoEpisode() *VideoEpisode {
	o, _ := d.Object.(*VideoEpisode)
	return o
}

// Image is an "og:image" entry.
type Image struct {
	URL       string `json:"url" yaml:"url"`
	SecureURL string `json:"secure_url,omitempty" yaml:"secure_url,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
	Alt       string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Video is an "og:video" entry.
type Video struct {
	URL       string `json:"url" yaml:"url"`
	SecureURL string `json:"secure_url,omitempty" yaml:"secure_url,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Width     int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height    int    `json:"height,omitempty" yaml:"height,omitempty"`
	Duration  int    `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// Audio is an "og:audio" entry.
type Audio struct {
	URL       string `json:"url" yaml:"url"`
	SecureURL string `json:"secure_url,omitempty" yaml:"secure_url,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Object is a type-specific record. Its implementations are
// [*Article], [*Profile], [*Book], [*MusicSong], [*MusicAlbum],
// [*MusicPlaylist], [*MusicRadioStation], [*VideoMovie] and [*VideoEpisode].
type Object interface {
	// accepts returns true when the object is the record of the given type.
	accepts(t Type) bool
	writeTags(w *tagWriter)
}

// Article is the "article" object. Dates are kept as found,
// see [ParseTime].
type Article struct {
	PublishedTime  string   `json:"published_time,omitempty" yaml:"published_time,omitempty"`
	ModifiedTime   string   `json:"modified_time,omitempty" yaml:"modified_time,omitempty"`
	ExpirationTime string   `json:"expiration_time,omitempty" yaml:"expiration_time,omitempty"`
	Section        string   `json:"section,omitempty" yaml:"section,omitempty"`
	Authors        []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Profile is the "profile" object.
type Profile struct {
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Username  string `json:"username,omitempty" yaml:"username,omitempty"`
	Gender    Gender `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// Book is the "book" object.
type Book struct {
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	ISBN        string   `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// MusicSong is the "music.song" object.
type MusicSong struct {
	Duration   int      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Album      string   `json:"album,omitempty" yaml:"album,omitempty"`
	AlbumDisc  int      `json:"album_disc,omitempty" yaml:"album_disc,omitempty"`
	AlbumTrack int      `json:"album_track,omitempty" yaml:"album_track,omitempty"`
	Musicians  []string `json:"musicians,omitempty" yaml:"musicians,omitempty"`
}

// MusicAlbum is the "music.album" object.
type MusicAlbum struct {
	Songs       []string `json:"songs,omitempty" yaml:"songs,omitempty"`
	SongDisc    int      `json:"song_disc,omitempty" yaml:"song_disc,omitempty"`
	SongTrack   int      `json:"song_track,omitempty" yaml:"song_track,omitempty"`
	Musicians   []string `json:"musicians,omitempty" yaml:"musicians,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}

// MusicPlaylist is the "music.playlist" object.
type MusicPlaylist struct {
	Songs     []string `json:"songs,omitempty" yaml:"songs,omitempty"`
	SongDisc  int      `json:"song_disc,omitempty" yaml:"song_disc,omitempty"`
	SongTrack int      `json:"song_track,omitempty" yaml:"song_track,omitempty"`
	Creator   string   `json:"creator,omitempty" yaml:"creator,omitempty"`
}

// MusicRadioStation is the "music.radio_station" object.
type MusicRadioStation struct {
	Creator string `json:"creator,omitempty" yaml:"creator,omitempty"`
}

// VideoMovie is the "video.movie" object, shared with "video.tv_show"
// and "video.other".
type VideoMovie struct {
	Actors      []string `json:"actors,omitempty" yaml:"actors,omitempty"`
	Directors   []string `json:"directors,omitempty" yaml:"directors,omitempty"`
	Writers     []string `json:"writers,omitempty" yaml:"writers,omitempty"`
	Duration    int      `json:"duration,omitempty" yaml:"duration,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// VideoEpisode is the "video.episode" object.
type VideoEpisode struct {
	Actors      []string `json:"actors,omitempty" yaml:"actors,omitempty"`
	Directors   []string `json:"directors,omitempty" yaml:"directors,omitempty"`
	Writers     []string `json:"writers,omitempty" yaml:"writers,omitempty"`
	Duration    int      `json:"duration,omitempty" yaml:"duration,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Series      string   `json:"series,omitempty" yaml:"series,omitempty"`
}

func (*Article) accepts(t Type) bool           { return t == TypeArticle }
func (*Profile) accepts(t Type) bool           { return t == TypeProfile }
func (*Book) accepts(t Type) bool              { return t == TypeBook }
func (*MusicSong) accepts(t Type) bool         { return t == TypeMusicSong }
func (*MusicAlbum) accepts(t Type) bool        { return t == TypeMusicAlbum }
func (*MusicPlaylist) accepts(t Type) bool     { return t == TypeMusicPlaylist }
func (*MusicRadioStation) accepts(t Type) bool { return t == TypeMusicRadioStation }
func (*VideoEpisode) accepts(t Type) bool      { return t == TypeVideoEpisode }
func (*VideoMovie) accepts(t Type) bool {
	return t == TypeVideoMovie || t == TypeVideoTVShow || t == TypeVideoOther
}
