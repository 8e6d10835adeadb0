// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import (
	"encoding/json"
)

// dataView is the serialized form of [Data]. Each object kind has its own
// key so the union survives a JSON or YAML round trip.
type dataView struct {
	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`

	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	SiteName        string   `json:"site_name,omitempty" yaml:"site_name,omitempty"`
	Determiner      string   `json:"determiner,omitempty" yaml:"determiner,omitempty"`
	Locale          string   `json:"locale,omitempty" yaml:"locale,omitempty"`
	LocaleAlternate []string `json:"locale_alternate,omitempty" yaml:"locale_alternate,omitempty"`

	Images []Image `json:"images,omitempty" yaml:"images,omitempty"`
	Videos []Video `json:"videos,omitempty" yaml:"videos,omitempty"`
	Audios []Audio `json:"audios,omitempty" yaml:"audios,omitempty"`

	Article           *Article           `json:"article,omitempty" yaml:"article,omitempty"`
	Profile           *Profile           `json:"profile,omitempty" yaml:"profile,omitempty"`
	Book              *Book              `json:"book,omitempty" yaml:"book,omitempty"`
	MusicSong         *MusicSong         `json:"music_song,omitempty" yaml:"music_song,omitempty"`
	MusicAlbum        *MusicAlbum        `json:"music_album,omitempty" yaml:"music_album,omitempty"`
	MusicPlaylist     *MusicPlaylist     `json:"music_playlist,omitempty" yaml:"music_playlist,omitempty"`
	MusicRadioStation *MusicRadioStation `json:"music_radio_station,omitempty" yaml:"music_radio_station,omitempty"`
	VideoMovie        *VideoMovie        `json:"video_movie,omitempty" yaml:"video_movie,omitempty"`
	VideoEpisode      *VideoEpisode      `json:"video_episode,omitempty" yaml:"video_episode,omitempty"`

	Valid bool `json:"valid" yaml:"valid"`
}

func (d *Data) view() dataView {
	return dataView{
		Tags:              d.Tags,
		Title:             d.Title,
		Type:              d.Type,
		URL:               d.URL,
		Description:       d.Description,
		SiteName:          d.SiteName,
		Determiner:        d.Determiner,
		Locale:            d.Locale,
		LocaleAlternate:   d.LocaleAlternate,
		Images:            d.Images,
		Videos:            d.Videos,
		Audios:            d.Audios,
		Article:           d.Article(),
		Profile:           d.Profile(),
		Book:              d.Book(),
		MusicSong:         d.MusicSong(),
		MusicAlbum:        d.MusicAlbum(),
		MusicPlaylist:     d.MusicPlaylist(),
		MusicRadioStation: d.MusicRadioStation(),
		VideoMovie:        d.VideoMovie(),
		VideoEpisode:      d.VideoEpisode(),
		Valid:             d.IsValid(),
	}
}

// object returns the record matching the declared type.
// Records of any other kind are ignored.
func (v dataView) object() Object {
	candidates := []Object{
		v.Article, v.Profile, v.Book,
		v.MusicSong, v.MusicAlbum, v.MusicPlaylist, v.MusicRadioStation,
		v.VideoMovie, v.VideoEpisode,
	}

	t := ParseType(v.Type)
	for _, o := range candidates {
		if !isNilObject(o) && o.accepts(t) {
			return o
		}
	}
	return nil
}

func isNilObject(o Object) bool {
	switch x := o.(type) {
	case *Article:
		return x == nil
	case *Profile:
		return x == nil
	case *Book:
		return x == nil
	case *MusicSong:
		return x == nil
	case *MusicAlbum:
		return x == nil
	case *MusicPlaylist:
		return x == nil
	case *MusicRadioStation:
		return x == nil
	case *VideoMovie:
		return x == nil
	case *VideoEpisode:
		return x == nil
	}
	return o == nil
}

// MarshalJSON implements [json.Marshaler].
func (d *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.view())
}

// UnmarshalJSON implements [json.Unmarshaler].
// The "valid" key is ignored, it's always computed.
func (d *Data) UnmarshalJSON(b []byte) error {
	var v dataView
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	*d = Data{
		Tags:            v.Tags,
		Title:           v.Title,
		Type:            v.Type,
		URL:             v.URL,
		Description:     v.Description,
		SiteName:        v.SiteName,
		Determiner:      v.Determiner,
		Locale:          v.Locale,
		LocaleAlternate: v.LocaleAlternate,
		Images:          v.Images,
		Videos:          v.Videos,
		Audios:          v.Audios,
		Object:          v.object(),
	}
	return nil
}

// MarshalYAML implements the yaml.v3 Marshaler interface.
func (d *Data) MarshalYAML() (any, error) {
	return d.view(), nil
}
