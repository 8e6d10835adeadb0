// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph

import "strconv"

// tagList is an ordered list of tags with lookup helpers.
type tagList []Tag

// first returns the content of the first tag with the given property.
func (l tagList) first(property string) string {
	for _, t := range l {
		if t.Property == property {
			return t.Content
		}
	}
	return ""
}

// firstInt returns the integer value of the first tag with the given
// property, or 0 when there is none or it's not a number.
func (l tagList) firstInt(property string) int {
	return toInt(l.first(property))
}

// all returns the contents of every tag with the given property.
func (l tagList) all(property string) []string {
	var res []string
	for _, t := range l {
		if t.Property == property {
			res = append(res, t.Content)
		}
	}
	return res
}

func toInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// groupByNamespace splits the tags by namespace, keeping their order.
func groupByNamespace(tags []Tag) map[string]tagList {
	res := map[string]tagList{}
	for _, t := range tags {
		ns := t.Namespace()
		res[ns] = append(res[ns], t)
	}
	return res
}

// Build converts an ordered list of tags into a [Data].
// It never fails: any missing or malformed value is left empty.
func Build(tags []Tag) *Data {
	all := tagList(tags)
	groups := groupByNamespace(tags)

	d := &Data{
		Tags:            tags,
		Title:           all.first("title"),
		Type:            all.first("type"),
		URL:             all.first("url"),
		Description:     all.first("description"),
		SiteName:        all.first("site_name"),
		Determiner:      all.first("determiner"),
		Locale:          all.first("locale"),
		LocaleAlternate: all.all("locale:alternate"),
	}

	for w := range windows(groups["image"], "image") {
		d.Images = append(d.Images, Image{
			URL:       w.base.Content,
			SecureURL: w.attrs.first("image:secure_url"),
			Type:      w.attrs.first("image:type"),
			Width:     w.attrs.firstInt("image:width"),
			Height:    w.attrs.firstInt("image:height"),
			Alt:       w.attrs.first("image:alt"),
		})
	}

	for w := range windows(groups["video"], "video") {
		d.Videos = append(d.Videos, Video{
			URL:       w.base.Content,
			SecureURL: w.attrs.first("video:secure_url"),
			Type:      w.attrs.first("video:type"),
			Width:     w.attrs.firstInt("video:width"),
			Height:    w.attrs.firstInt("video:height"),
			Duration:  w.attrs.firstInt("video:duration"),
		})
	}

	for w := range windows(groups["audio"], "audio") {
		d.Audios = append(d.Audios, Audio{
			URL:       w.base.Content,
			SecureURL: w.attrs.first("audio:secure_url"),
			Type:      w.attrs.first("audio:type"),
		})
	}

	d.Object = buildObject(d.ObjectType(), groups)
	return d
}

// buildObject returns the record of the given type, built from its
// namespace group. Website and unknown types have none.
func buildObject(t Type, groups map[string]tagList) Object {
	switch t {
	case TypeArticle:
		tags := groups["article"]
		return &Article{
			PublishedTime:  tags.first("article:published_time"),
			ModifiedTime:   tags.first("article:modified_time"),
			ExpirationTime: tags.first("article:expiration_time"),
			Section:        tags.first("article:section"),
			Authors:        tags.all("article:author"),
			Tags:           tags.all("article:tag"),
		}
	case TypeProfile:
		tags := groups["profile"]
		gender, _ := ParseGender(tags.first("profile:gender"))
		return &Profile{
			FirstName: tags.first("profile:first_name"),
			LastName:  tags.first("profile:last_name"),
			Username:  tags.first("profile:username"),
			Gender:    gender,
		}
	case TypeBook:
		tags := groups["book"]
		return &Book{
			Authors:     tags.all("book:author"),
			ISBN:        tags.first("book:isbn"),
			ReleaseDate: tags.first("book:release_date"),
			Tags:        tags.all("book:tag"),
		}
	case TypeMusicSong:
		tags := groups["music"]
		return &MusicSong{
			Duration:   tags.firstInt("music:duration"),
			Album:      tags.first("music:album"),
			AlbumDisc:  tags.firstInt("music:album:disc"),
			AlbumTrack: tags.firstInt("music:album:track"),
			Musicians:  tags.all("music:musician"),
		}
	case TypeMusicAlbum:
		tags := groups["music"]
		return &MusicAlbum{
			Songs:       tags.all("music:song"),
			SongDisc:    tags.firstInt("music:song:disc"),
			SongTrack:   tags.firstInt("music:song:track"),
			Musicians:   tags.all("music:musician"),
			ReleaseDate: tags.first("music:release_date"),
		}
	case TypeMusicPlaylist:
		tags := groups["music"]
		return &MusicPlaylist{
			Songs:     tags.all("music:song"),
			SongDisc:  tags.firstInt("music:song:disc"),
			SongTrack: tags.firstInt("music:song:track"),
			Creator:   tags.first("music:creator"),
		}
	case TypeMusicRadioStation:
		return &MusicRadioStation{
			Creator: groups["music"].first("music:creator"),
		}
	case TypeVideoMovie, TypeVideoTVShow, TypeVideoOther:
		tags := groups["video"]
		return &VideoMovie{
			Actors:      tags.all("video:actor"),
			Directors:   tags.all("video:director"),
			Writers:     tags.all("video:writer"),
			Duration:    tags.firstInt("video:duration"),
			ReleaseDate: tags.first("video:release_date"),
			Tags:        tags.all("video:tag"),
		}
	case TypeVideoEpisode:
		tags := groups["video"]
		return &VideoEpisode{
			Actors:      tags.all("video:actor"),
			Directors:   tags.all("video:director"),
			Writers:     tags.all("video:writer"),
			Duration:    tags.firstInt("video:duration"),
			ReleaseDate: tags.first("video:release_date"),
			Tags:        tags.all("video:tag"),
			Series:      tags.first("video:series"),
		}
	}
	return nil
}
