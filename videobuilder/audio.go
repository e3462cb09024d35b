package videobuilder

import (
	"strconv"

	"github.com/pashonic/globecast/media"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const DefaultMusicGain = 0.20

type AudioPlan struct {
	Narration media.Asset
	Music     *media.Asset
	MusicGain float64
	Duration  float64
}

// MixAudio lays an attenuated, looped music bed under the narration. The
// result always lasts exactly duration seconds.
func MixAudio(narration media.Asset, music *media.Asset, duration, gain float64) AudioPlan {
	return AudioPlan{
		Narration: narration,
		Music:     music,
		MusicGain: gain,
		Duration:  duration,
	}
}

func (p AudioPlan) stream() *ffmpeg.Stream {
	narration := ffmpeg.Input(p.Narration.Path).Audio().
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(p.Duration)}).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"})
	if p.Music == nil {
		return narration
	}

	music := ffmpeg.Input(p.Music.Path, ffmpeg.KwArgs{"stream_loop": infinite_loop}).Audio().
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(p.Duration)}).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"}).
		Filter("volume", ffmpeg.Args{strconv.FormatFloat(p.MusicGain, 'f', 2, 64)})

	// amix scales each input by 1/inputs, the volume stage restores unity
	return ffmpeg.Filter([]*ffmpeg.Stream{narration, music}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs":             2,
		"duration":           "first",
		"dropout_transition": 0,
	}).
		Filter("volume", ffmpeg.Args{"2"}).
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(p.Duration)})
}
