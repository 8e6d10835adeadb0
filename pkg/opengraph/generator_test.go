// SPDX-FileCopyrightText: © 2025 Olivier Meunier <olivier@neokraft.net>
//
// SPDX-License-Identifier: AGPL-3.0-only

package opengraph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"codeberg.org/readeck/opengraph/pkg/opengraph"
)

func lines(src ...string) string {
	return strings.Join(src, "\n")
}

func TestGenerate(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		require.Empty(t, opengraph.Generate(&opengraph.Data{}))
	})

	t.Run("escaping", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Title: `Test "Quoted" Title`,
		})
		require.Equal(t,
			`<meta property="og:title" content="Test &quot;Quoted&quot; Title" />`,
			res,
		)
	})

	t.Run("no other escaping", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Description: `<b>Tom & Jerry's</b>`,
		})
		require.Equal(t,
			`<meta property="og:description" content="<b>Tom & Jerry's</b>" />`,
			res,
		)
	})

	t.Run("full", func(t *testing.T) {
		d := &opengraph.Data{
			Title:           "The Rock",
			Type:            "video.movie",
			URL:             "https://example.com/the-rock",
			Description:     "An action movie",
			SiteName:        "Example Movies",
			Determiner:      "the",
			Locale:          "en_US",
			LocaleAlternate: []string{"fr_FR", "es_ES"},
			Images: []opengraph.Image{
				{
					URL: "https://example.com/rock.jpg", SecureURL: "https://secure.example.com/rock.jpg",
					Type: "image/jpeg", Width: 300, Height: 200, Alt: "The Rock",
				},
				{URL: "https://example.com/rock2.jpg"},
			},
			Videos: []opengraph.Video{
				{
					URL: "https://example.com/trailer.mp4", SecureURL: "https://secure.example.com/trailer.mp4",
					Type: "video/mp4", Width: 1280, Height: 720, Duration: 120,
				},
			},
			Audios: []opengraph.Audio{
				{URL: "https://example.com/theme.mp3", SecureURL: "https://secure.example.com/theme.mp3", Type: "audio/mpeg"},
			},
			Object: &opengraph.VideoMovie{
				Actors:      []string{"Sean Connery", "Nicolas Cage"},
				Directors:   []string{"Michael Bay"},
				Writers:     []string{"David Weisberg"},
				Duration:    8160,
				ReleaseDate: "1996-06-07",
				Tags:        []string{"action", "prison"},
			},
		}

		require.Equal(t, lines(
			`<meta property="og:title" content="The Rock" />`,
			`<meta property="og:type" content="video.movie" />`,
			`<meta property="og:url" content="https://example.com/the-rock" />`,
			`<meta property="og:description" content="An action movie" />`,
			`<meta property="og:site_name" content="Example Movies" />`,
			`<meta property="og:determiner" content="the" />`,
			`<meta property="og:locale" content="en_US" />`,
			`<meta property="og:locale:alternate" content="fr_FR" />`,
			`<meta property="og:locale:alternate" content="es_ES" />`,
			`<meta property="og:image" content="https://example.com/rock.jpg" />`,
			`<meta property="og:image:secure_url" content="https://secure.example.com/rock.jpg" />`,
			`<meta property="og:image:type" content="image/jpeg" />`,
			`<meta property="og:image:width" content="300" />`,
			`<meta property="og:image:height" content="200" />`,
			`<meta property="og:image:alt" content="The Rock" />`,
			`<meta property="og:image" content="https://example.com/rock2.jpg" />`,
			`<meta property="og:video" content="https://example.com/trailer.mp4" />`,
			`<meta property="og:video:secure_url" content="https://secure.example.com/trailer.mp4" />`,
			`<meta property="og:video:type" content="video/mp4" />`,
			`<meta property="og:video:width" content="1280" />`,
			`<meta property="og:video:height" content="720" />`,
			`<meta property="og:video:duration" content="120" />`,
			`<meta property="og:audio" content="https://example.com/theme.mp3" />`,
			`<meta property="og:audio:secure_url" content="https://secure.example.com/theme.mp3" />`,
			`<meta property="og:audio:type" content="audio/mpeg" />`,
			`<meta property="og:video:actor" content="Sean Connery" />`,
			`<meta property="og:video:actor" content="Nicolas Cage" />`,
			`<meta property="og:video:director" content="Michael Bay" />`,
			`<meta property="og:video:writer" content="David Weisberg" />`,
			`<meta property="og:video:duration" content="8160" />`,
			`<meta property="og:video:release_date" content="1996-06-07" />`,
			`<meta property="og:video:tag" content="action" />`,
			`<meta property="og:video:tag" content="prison" />`,
		), opengraph.Generate(d))
	})

	t.Run("mismatched object", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Type:   "book",
			Object: &opengraph.Article{Section: "News"},
		})
		require.Equal(t, `<meta property="og:type" content="book" />`, res)
	})

	t.Run("website", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Object: &opengraph.Article{Section: "News"},
		})
		require.Empty(t, res)
	})

	t.Run("profile", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Type: "profile",
			Object: &opengraph.Profile{
				FirstName: "John",
				Username:  "johndoe",
				Gender:    opengraph.GenderFemale,
			},
		})
		require.Equal(t, lines(
			`<meta property="og:type" content="profile" />`,
			`<meta property="og:profile:first_name" content="John" />`,
			`<meta property="og:profile:username" content="johndoe" />`,
			`<meta property="og:profile:gender" content="female" />`,
		), res)
	})

	t.Run("music album", func(t *testing.T) {
		res := opengraph.Generate(&opengraph.Data{
			Type: "music.album",
			Object: &opengraph.MusicAlbum{
				Songs:       []string{"s1", "s2"},
				SongDisc:    1,
				SongTrack:   2,
				Musicians:   []string{"m1"},
				ReleaseDate: "2020-01-01",
			},
		})
		require.Equal(t, lines(
			`<meta property="og:type" content="music.album" />`,
			`<meta property="og:music:song" content="s1" />`,
			`<meta property="og:music:song" content="s2" />`,
			`<meta property="og:music:song:disc" content="1" />`,
			`<meta property="og:music:song:track" content="2" />`,
			`<meta property="og:music:musician" content="m1" />`,
			`<meta property="og:music:release_date" content="2020-01-01" />`,
		), res)
	})
}

func TestRoundTrip(t *testing.T) {
	types := []string{
		"article", "profile", "book",
		"music.song", "music.album", "music.playlist", "music.radio_station",
		"video.movie", "video.tv_show", "video.other", "video.episode",
		"website", "something.custom",
	}

	for _, typ := range types {
		t.Run(typ, func(t *testing.T) {
			assert := require.New(t)

			src := append(withType(typ), tags(
				"image:width=640",
				"image:height=480",
				"image=https://example.com/img2.jpg",
				"image:alt=Second \"image\"",
				"audio=https://example.com/a.mp3",
				"audio:type=audio/mpeg",
			)...)
			original := opengraph.Build(src)

			block := opengraph.Generate(original)
			parsed, err := opengraph.ParseHTML("<html><head>" + block + "</head></html>")
			assert.NoError(err)

			assert.Equal(original.Title, parsed.Title)
			assert.Equal(original.Type, parsed.Type)
			assert.Equal(original.URL, parsed.URL)
			assert.Equal(original.Images, parsed.Images)
			assert.Equal(original.Videos, parsed.Videos)
			assert.Equal(original.Audios, parsed.Audios)
			assert.Equal(original.Object, parsed.Object)
			assert.Equal(original.IsValid(), parsed.IsValid())

			// Idempotence
			assert.Equal(block, opengraph.Generate(parsed))
			assert.Len(parsed.Tags, strings.Count(block, "\n")+1)
		})
	}
}

func TestRoundTripEmptyContent(t *testing.T) {
	t.Run("base tags", func(t *testing.T) {
		assert := require.New(t)
		original := opengraph.Build(tags(
			"image=A",
			"image=",
			"image:width=100",
			"video=",
			"video:type=video/mp4",
			"audio=",
			"audio:type=audio/ogg",
		))
		assert.Equal([]opengraph.Image{{URL: "A"}, {Width: 100}}, original.Images)

		block := opengraph.Generate(original)
		assert.Equal(lines(
			`<meta property="og:image" content="A" />`,
			`<meta property="og:image" content="" />`,
			`<meta property="og:image:width" content="100" />`,
			`<meta property="og:video" content="" />`,
			`<meta property="og:video:type" content="video/mp4" />`,
			`<meta property="og:audio" content="" />`,
			`<meta property="og:audio:type" content="audio/ogg" />`,
		), block)

		parsed, err := opengraph.ParseHTML("<html><head>" + block + "</head></html>")
		assert.NoError(err)
		assert.Equal(original.Images, parsed.Images)
		assert.Equal(original.Videos, parsed.Videos)
		assert.Equal(original.Audios, parsed.Audios)
		assert.Equal(block, opengraph.Generate(parsed))
	})

	t.Run("basic properties", func(t *testing.T) {
		assert := require.New(t)
		original := opengraph.Build(tags(
			"title=",
			"type=website",
			"url=https://example.com/",
			"image=https://example.com/a.png",
		))
		assert.True(original.IsValid())

		block := opengraph.Generate(original)
		assert.Contains(block, `<meta property="og:title" content="" />`)

		parsed, err := opengraph.ParseHTML("<html><head>" + block + "</head></html>")
		assert.NoError(err)
		assert.True(parsed.IsValid())
		assert.Equal(block, opengraph.Generate(parsed))
	})
}

func TestRoundTripVideoObject(t *testing.T) {
	// The object block comes after the videos and shares their
	// namespace. Its tags end up in the last video window once parsed.
	assert := require.New(t)
	original := &opengraph.Data{
		Title:  "The Rock",
		Type:   "video.movie",
		URL:    "https://example.com/the-rock",
		Videos: []opengraph.Video{{URL: "https://example.com/trailer.mp4"}},
		Object: &opengraph.VideoMovie{
			Actors:   []string{"Sean Connery"},
			Duration: 8160,
		},
	}

	block := opengraph.Generate(original)
	assert.Equal(lines(
		`<meta property="og:title" content="The Rock" />`,
		`<meta property="og:type" content="video.movie" />`,
		`<meta property="og:url" content="https://example.com/the-rock" />`,
		`<meta property="og:video" content="https://example.com/trailer.mp4" />`,
		`<meta property="og:video:actor" content="Sean Connery" />`,
		`<meta property="og:video:duration" content="8160" />`,
	), block)

	parsed, err := opengraph.ParseHTML("<html><head>" + block + "</head></html>")
	assert.NoError(err)
	assert.Equal(original.Object, parsed.Object)
	assert.Equal([]opengraph.Video{
		{URL: "https://example.com/trailer.mp4", Duration: 8160},
	}, parsed.Videos)

	// The leaked duration is stable from then on.
	assert.Equal(
		strings.Replace(block,
			`<meta property="og:video" content="https://example.com/trailer.mp4" />`,
			`<meta property="og:video" content="https://example.com/trailer.mp4" />`+"\n"+
				`<meta property="og:video:duration" content="8160" />`,
			1),
		opengraph.Generate(parsed),
	)
}
