package xmeml

import "encoding/xml"

// Rate is an xmeml frame rate. NTSC is "TRUE" or "FALSE".
type Rate struct {
	Timebase int    `xml:"timebase"`
	NTSC     string `xml:"ntsc"`
}

type Document struct {
	XMLName  xml.Name `xml:"xmeml"`
	Version  string   `xml:"version,attr"`
	Sequence Sequence `xml:"sequence"`
}

type Sequence struct {
	ID                string `xml:"id,attr"`
	AudioVisibleBase  string `xml:"TL.SQAudioVisibleBase,attr"`
	VideoVisibleBase  string `xml:"TL.SQVideoVisibleBase,attr"`
	VisibleBaseTime   string `xml:"TL.SQVisibleBaseTime,attr"`
	AVDividerPosition string `xml:"TL.SQAVDividerPosition,attr"`
	HideShyTracks     string `xml:"TL.SQHideShyTracks,attr"`
	HeaderWidth       string `xml:"TL.SQHeaderWidth,attr"`
	PreviewHeight     int    `xml:"MZ.Sequence.PreviewFrameSizeHeight,attr"`
	PreviewWidth      int    `xml:"MZ.Sequence.PreviewFrameSizeWidth,attr"`

	UUID     string        `xml:"uuid"`
	Duration int           `xml:"duration"`
	Rate     Rate          `xml:"rate"`
	Name     string        `xml:"name"`
	Media    SequenceMedia `xml:"media"`
	Timecode Timecode      `xml:"timecode"`
}

type SequenceMedia struct {
	Video VideoMedia `xml:"video"`
	Audio AudioMedia `xml:"audio"`
}

type VideoMedia struct {
	Format VideoFormat `xml:"format"`
	Track  VideoTrack  `xml:"track"`
}

type VideoFormat struct {
	SampleCharacteristics VideoCharacteristics `xml:"samplecharacteristics"`
}

type VideoCharacteristics struct {
	Rate             Rate   `xml:"rate"`
	Width            int    `xml:"width"`
	Height           int    `xml:"height"`
	Anamorphic       string `xml:"anamorphic"`
	PixelAspectRatio string `xml:"pixelaspectratio"`
	FieldDominance   string `xml:"fielddominance"`
	ColorDepth       int    `xml:"colordepth,omitempty"`
}

type VideoTrack struct {
	Shy            string `xml:"TL.SQTrackShy,attr"`
	ExpandedHeight string `xml:"TL.SQTrackExpandedHeight,attr"`
	Expanded       string `xml:"TL.SQTrackExpanded,attr"`
	Targeted       string `xml:"MZ.TrackTargeted,attr"`

	Clips   []VideoClip `xml:"clipitem"`
	Enabled string      `xml:"enabled"`
	Locked  string      `xml:"locked"`
}

type VideoClip struct {
	ID           string    `xml:"id,attr"`
	MasterClipID string    `xml:"masterclipid"`
	Name         string    `xml:"name"`
	Enabled      string    `xml:"enabled"`
	Duration     int       `xml:"duration"`
	Rate         Rate      `xml:"rate"`
	Start        int       `xml:"start"`
	End          int       `xml:"end"`
	In           int       `xml:"in"`
	Out          int       `xml:"out"`
	File         VideoFile `xml:"file"`
	Filter       Filter    `xml:"filter"`
}

type VideoFile struct {
	ID      string         `xml:"id,attr"`
	Name    string         `xml:"name"`
	PathURL string         `xml:"pathurl"`
	Rate    Rate           `xml:"rate"`
	Media   VideoFileMedia `xml:"media"`
}

type VideoFileMedia struct {
	Video struct {
		SampleCharacteristics VideoCharacteristics `xml:"samplecharacteristics"`
	} `xml:"video"`
}

type Filter struct {
	Effect Effect `xml:"effect"`
}

type Effect struct {
	Name       string      `xml:"name"`
	EffectID   string      `xml:"effectid"`
	Category   string      `xml:"effectcategory"`
	Type       string      `xml:"effecttype"`
	MediaType  string      `xml:"mediatype"`
	PproBypass string      `xml:"pproBypass"`
	Parameters []Parameter `xml:"parameter"`
}

type Parameter struct {
	AuthoringApp string     `xml:"authoringApp,attr"`
	ParameterID  string     `xml:"parameterid"`
	Name         string     `xml:"name"`
	ValueMin     string     `xml:"valuemin,omitempty"`
	ValueMax     string     `xml:"valuemax,omitempty"`
	Value        ParamValue `xml:"value"`
}

// ParamValue is either a scalar or a horiz/vert point.
type ParamValue struct {
	Scalar string `xml:",chardata"`
	Horiz  *int   `xml:"horiz"`
	Vert   *int   `xml:"vert"`
}

type AudioMedia struct {
	NumOutputChannels int          `xml:"numOutputChannels"`
	Format            AudioFormat  `xml:"format"`
	Outputs           Outputs      `xml:"outputs"`
	Tracks            []AudioTrack `xml:"track"`
}

type AudioFormat struct {
	SampleCharacteristics AudioCharacteristics `xml:"samplecharacteristics"`
}

type AudioCharacteristics struct {
	Depth      int `xml:"depth"`
	SampleRate int `xml:"samplerate"`
}

type Outputs struct {
	Groups []Group `xml:"group"`
}

type Group struct {
	Index       int `xml:"index"`
	NumChannels int `xml:"numchannels"`
	Downmix     int `xml:"downmix"`
	Channel     struct {
		Index int `xml:"index"`
	} `xml:"channel"`
}

type AudioTrack struct {
	KeyframeStyle     string `xml:"TL.SQTrackAudioKeyframeStyle,attr"`
	Shy               string `xml:"TL.SQTrackShy,attr"`
	ExpandedHeight    string `xml:"TL.SQTrackExpandedHeight,attr"`
	Expanded          string `xml:"TL.SQTrackExpanded,attr"`
	Targeted          string `xml:"MZ.TrackTargeted,attr"`
	PannerValue       string `xml:"PannerCurrentValue,attr"`
	PannerInverted    string `xml:"PannerIsInverted,attr"`
	PannerKeyframe    string `xml:"PannerStartKeyframe,attr"`
	PannerName        string `xml:"PannerName,attr"`
	ExplodedIndex     int    `xml:"currentExplodedTrackIndex,attr"`
	ExplodedCount     int    `xml:"totalExplodedTrackCount,attr"`
	PremiereTrackType string `xml:"premiereTrackType,attr"`

	Clips              []AudioClip `xml:"clipitem"`
	Enabled            string      `xml:"enabled"`
	Locked             string      `xml:"locked"`
	OutputChannelIndex int         `xml:"outputchannelindex"`
}

type AudioClip struct {
	ID           string      `xml:"id,attr"`
	ChannelType  string      `xml:"premiereChannelType,attr"`
	MasterClipID string      `xml:"masterclipid"`
	Name         string      `xml:"name"`
	Enabled      string      `xml:"enabled"`
	Duration     int         `xml:"duration"`
	Rate         Rate        `xml:"rate"`
	Start        int         `xml:"start"`
	End          int         `xml:"end"`
	In           int         `xml:"in"`
	Out          int         `xml:"out"`
	File         AudioFile   `xml:"file"`
	SourceTrack  SourceTrack `xml:"sourcetrack"`
	Links        []Link      `xml:"link"`
}

// AudioFile is written in full on the first channel only; the second
// channel refers back to it by id.
type AudioFile struct {
	ID       string          `xml:"id,attr"`
	Name     string          `xml:"name,omitempty"`
	PathURL  string          `xml:"pathurl,omitempty"`
	Rate     *Rate           `xml:"rate"`
	Duration int             `xml:"duration,omitempty"`
	Media    *AudioFileMedia `xml:"media"`
}

type AudioFileMedia struct {
	Audio struct {
		SampleCharacteristics AudioCharacteristics `xml:"samplecharacteristics"`
		ChannelCount          int                  `xml:"channelcount"`
	} `xml:"audio"`
}

type SourceTrack struct {
	MediaType  string `xml:"mediatype"`
	TrackIndex int    `xml:"trackindex"`
}

type Link struct {
	LinkClipRef string `xml:"linkclipref"`
	MediaType   string `xml:"mediatype"`
	TrackIndex  int    `xml:"trackindex"`
	ClipIndex   int    `xml:"clipindex"`
	GroupIndex  int    `xml:"groupindex"`
}

type Timecode struct {
	Rate          Rate   `xml:"rate"`
	String        string `xml:"string"`
	Frame         int    `xml:"frame"`
	DisplayFormat string `xml:"displayformat"`
}
