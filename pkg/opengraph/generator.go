// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"strconv"
	"strings"
)

var contentEscaper = strings.NewReplacer(`"`, "&quot;")

// tagWriter collects meta tags. Empty values are skipped, except for
// the base tags of structured elements.
type tagWriter struct {
	lines []string
}

func (w *tagWriter) add(property, content string) {
	if content == "" {
		return
	}
	w.write(property, content)
}

// addBase always writes the tag. Attributes following it must not end up
// in the previous element once parsed again.
func (w *tagWriter) addBase(property, content string) {
	w.write(property, content)
}

func (w *tagWriter) write(property, content string) {
	w.lines = append(w.lines,
		`<meta property="`+Prefix+property+`" content="`+contentEscaper.Replace(content)+`" />`,
	)
}

func (w *tagWriter) addInt(property string, value int) {
	if value == 0 {
		return
	}
	w.add(property, strconv.Itoa(value))
}

func (w *tagWriter) addAll(property string, values []string) {
	for _, v := range values {
		w.add(property, v)
	}
}

func (w *tagWriter) String() string {
	return strings.Join(w.lines, "\n")
}

// Generate renders the data as HTML meta tags, one per line.
//
// The order is fixed: basic properties, images, videos, audios and then
// the type-specific object, only when it matches the declared type.
// Basic properties present in the source tags are written even when empty.
// Only double quotes are escaped in content values.
func Generate(d *Data) string {
	w := new(tagWriter)

	basic := func(property, value string) {
		if d.has(property, value) {
			w.write(property, value)
		}
	}

	basic("title", d.Title)
	basic("type", d.Type)
	basic("url", d.URL)
	basic("description", d.Description)
	basic("site_name", d.SiteName)
	basic("determiner", d.Determiner)
	basic("locale", d.Locale)
	w.addAll("locale:alternate", d.LocaleAlternate)

	for _, x := range d.Images {
		w.addBase("image", x.URL)
		w.add("image:secure_url", x.SecureURL)
		w.add("image:type", x.Type)
		w.addInt("image:width", x.Width)
		w.addInt("image:height", x.Height)
		w.add("image:alt", x.Alt)
	}

	for _, x := range d.Videos {
		w.addBase("video", x.URL)
		w.add("video:secure_url", x.SecureURL)
		w.add("video:type", x.Type)
		w.addInt("video:width", x.Width)
		w.addInt("video:height", x.Height)
		w.addInt("video:duration", x.Duration)
	}

	for _, x := range d.Audios {
		w.addBase("audio", x.URL)
		w.add("audio:secure_url", x.SecureURL)
		w.add("audio:type", x.Type)
	}

	if d.Object != nil && d.Object.accepts(d.ObjectType()) {
		d.Object.writeTags(w)
	}

	return w.String()
}

func (o *Article) writeTags(w *tagWriter) {
	w.add("article:published_time", o.PublishedTime)
	w.add("article:modified_time", o.ModifiedTime)
	w.add("article:expiration_time", o.ExpirationTime)
	w.add("article:section", o.Section)
	w.addAll("article:author", o.Authors)
	w.addAll("article:tag", o.Tags)
}

func (o *Profile) writeTags(w *tagWriter) {
	w.add("profile:first_name", o.FirstName)
	w.add("profile:last_name", o.LastName)
	w.add("profile:username", o.Username)
	w.add("profile:gender", o.Gender.String())
}

func (o *Book) writeTags(w *tagWriter) {
	w.addAll("book:author", o.Authors)
	w.add("book:isbn", o.ISBN)
	w.add("book:release_date", o.ReleaseDate)
	w.addAll("book:tag", o.Tags)
}

func (o *MusicSong) writeTags(w *tagWriter) {
	w.addInt("music:duration", o.Duration)
	w.add("music:album", o.Album)
	w.addInt("music:album:disc", o.AlbumDisc)
	w.addInt("music:album:track", o.AlbumTrack)
	w.addAll("music:musician", o.Musicians)
}

func (o *MusicAlbum) writeTags(w *tagWriter) {
	w.addAll("music:song", o.Songs)
	w.addInt("music:song:disc", o.SongDisc)
	w.addInt("music:song:track", o.SongTrack)
	w.addAll("music:musician", o.Musicians)
	w.add("music:release_date", o.ReleaseDate)
}

func (o *MusicPlaylist) writeTags(w *tagWriter) {
	w.addAll("music:song", o.Songs)
	w.addInt("music:song:disc", o.SongDisc)
	w.addInt("music:song:track", o.SongTrack)
	w.add("music:creator", o.Creator)
}

func (o *MusicRadioStation) writeTags(w *tagWriter) {
	w.add("music:creator", o.Creator)
}

func (o *VideoMovie) writeTags(w *tagWriter) {
	w.addAll("video:actor", o.Actors)
	w.addAll("video:director", o.Directors)
	w.addAll("video:writer", o.Writers)
	w.addInt("video:duration", o.Duration)
	w.add("video:release_date", o.ReleaseDate)
	w.addAll("video:tag", o.Tags)
}

func (o *VideoEpisode) writeTags(w *tagWriter) {
	w.addAll("video:actor", o.Actors)
	w.addAll("video:director", o.Directors)
	w.addAll("video:writer", o.Writers)
	w.addInt("video:duration", o.Duration)
	w.add("video:release_date", o.ReleaseDate)
	w.addAll("video:tag", o.Tags)
	w.add("video:series", o.Series)
}
