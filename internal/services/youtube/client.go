package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

const (
	DefaultBaseURL     = "https://www.youtube.com"
	defaultHTTPTimeout = 30 * time.Second
	androidClientName  = "ANDROID"
	androidVersion     = "20.10.38"
	// maxBodyBytes caps page and caption downloads.
	maxBodyBytes = 8 << 20
)

var apiKeyPattern = regexp.MustCompile(`"INNERTUBE_API_KEY":\s*"([a-zA-Z0-9_-]+)"`)

// Config captures the caption endpoint settings.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client fetches caption tracks through the innertube player API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a caption client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{baseURL: base, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Entry is one caption line as published by YouTube.
type Entry struct {
	Text        string
	Start       float64
	Duration    float64
	HasDuration bool
}

// Track describes an available caption track.
type Track struct {
	BaseURL      string
	LanguageCode string
	Name         string
	Generated    bool
}

// Transcript is the selected track plus its entries.
type Transcript struct {
	Track   Track
	Entries []Entry
}

// FetchTranscript returns the best caption track for the first matching
// language in languages. Manually created tracks win over auto-generated
// ones for the same language. A video without a matching track yields an
// ErrNotFound error.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) (Transcript, error) {
	var out Transcript
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return out, err
	}
	track, ok := SelectTrack(tracks, languages)
	if !ok {
		return out, services.Wrap(services.ErrNotFound, "direct", "select track",
			fmt.Sprintf("no transcript for languages %s", strings.Join(languages, ",")), nil)
	}
	entries, err := c.fetchEntries(ctx, track)
	if err != nil {
		return out, err
	}
	if len(entries) == 0 {
		return out, services.Wrap(services.ErrNotFound, "direct", "fetch captions", "caption track is empty", nil)
	}
	return Transcript{Track: track, Entries: entries}, nil
}

// ListTracks resolves the innertube key from the watch page and asks the
// player endpoint for the video's caption tracks.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	key, err := c.fetchAPIKey(ctx, videoID)
	if err != nil {
		return nil, err
	}
	player, err := c.fetchPlayer(ctx, videoID, key)
	if err != nil {
		return nil, err
	}
	if status := player.PlayabilityStatus.Status; status != "" && status != "OK" {
		reason := strings.TrimSpace(player.PlayabilityStatus.Reason)
		if reason == "" {
			reason = status
		}
		return nil, services.Wrap(services.ErrNotFound, "direct", "player", "video unplayable: "+reason, nil)
	}
	raw := player.Captions.Renderer.CaptionTracks
	if len(raw) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "direct", "player", "transcripts are disabled for this video", nil)
	}
	tracks := make([]Track, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, Track{
			BaseURL:      strings.ReplaceAll(t.BaseURL, "&fmt=srv3", ""),
			LanguageCode: t.LanguageCode,
			Name:         t.Name.text(),
			Generated:    t.Kind == "asr",
		})
	}
	return tracks, nil
}

// SelectTrack picks a track for the first language that has one, preferring
// manual tracks. Regional variants ("en-GB") match their base language.
func SelectTrack(tracks []Track, languages []string) (Track, bool) {
	for _, lang := range languages {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		var generated *Track
		for i := range tracks {
			if !languageMatches(tracks[i].LanguageCode, lang) {
				continue
			}
			if !tracks[i].Generated {
				return tracks[i], true
			}
			if generated == nil {
				generated = &tracks[i]
			}
		}
		if generated != nil {
			return *generated, true
		}
	}
	return Track{}, false
}

func languageMatches(code, want string) bool {
	code = strings.ToLower(code)
	return code == want || strings.HasPrefix(code, want+"-")
}

func (c *Client) fetchAPIKey(ctx context.Context, videoID string) (string, error) {
	endpoint := c.baseURL + "/watch?v=" + url.QueryEscape(videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("youtube: new request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US")
	body, err := c.do(req, "watch page")
	if err != nil {
		return "", err
	}
	if bytes.Contains(body, []byte(`class="g-recaptcha"`)) {
		return "", services.Wrap(services.ErrTransient, "direct", "watch page", "youtube is rate limiting requests", nil)
	}
	match := apiKeyPattern.FindSubmatch(body)
	if len(match) != 2 {
		return "", services.Wrap(services.ErrNotFound, "direct", "watch page", "innertube key not found", nil)
	}
	return string(match[1]), nil
}

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName    string `json:"clientName"`
			ClientVersion string `json:"clientVersion"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string    `json:"baseUrl"`
	LanguageCode string    `json:"languageCode"`
	Kind         string    `json:"kind"`
	Name         trackName `json:"name"`
}

type trackName struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (n trackName) text() string {
	if n.SimpleText != "" {
		return n.SimpleText
	}
	parts := make([]string, 0, len(n.Runs))
	for _, run := range n.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "")
}

func (c *Client) fetchPlayer(ctx context.Context, videoID, key string) (playerResponse, error) {
	var player playerResponse
	var payload playerRequest
	payload.Context.Client.ClientName = androidClientName
	payload.Context.Client.ClientVersion = androidVersion
	payload.VideoID = videoID
	encoded, err := json.Marshal(payload)
	if err != nil {
		return player, fmt.Errorf("youtube: encode player request: %w", err)
	}
	endpoint := c.baseURL + "/youtubei/v1/player?key=" + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return player, fmt.Errorf("youtube: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	body, err := c.do(req, "player")
	if err != nil {
		return player, err
	}
	if err := json.Unmarshal(body, &player); err != nil {
		return player, fmt.Errorf("youtube: decode player response: %w", err)
	}
	return player, nil
}

type timedTextDocument struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

func (c *Client) fetchEntries(ctx context.Context, track Track) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("youtube: new request: %w", err)
	}
	body, err := c.do(req, "fetch captions")
	if err != nil {
		return nil, err
	}
	return ParseTimedText(body)
}

// ParseTimedText decodes the legacy timedtext XML format. Text is entity
// unescaped a second time because YouTube double-encodes apostrophes and
// ampersands. Lines without text are skipped.
func ParseTimedText(data []byte) ([]Entry, error) {
	var doc timedTextDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("youtube: parse timedtext: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Texts))
	for _, line := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(line.Start), 64)
		if err != nil {
			return nil, fmt.Errorf("youtube: parse start %q: %w", line.Start, err)
		}
		entry := Entry{Text: text, Start: start}
		if dur := strings.TrimSpace(line.Dur); dur != "" {
			if entry.Duration, err = strconv.ParseFloat(dur, 64); err != nil {
				return nil, fmt.Errorf("youtube: parse dur %q: %w", line.Dur, err)
			}
			entry.HasDuration = true
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "direct", op, "request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "direct", op, "read body", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, services.Wrap(services.ErrTransient, "direct", op, "youtube is rate limiting requests", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, services.Wrap(services.ErrNotFound, "direct", op, "video not found", nil)
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, services.Wrap(services.ErrTransient, "direct", op, fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	return body, nil
}
