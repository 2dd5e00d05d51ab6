// Package youtube fetches published caption tracks for a video without
// downloading any media.
//
// The flow mirrors what the web player does: read INNERTUBE_API_KEY from the
// watch page, ask the innertube player endpoint (as the ANDROID client) for
// caption tracks, pick a track for the requested language, and download its
// timedtext XML. Any failure here sends the caller down the audio fallback.
package youtube
